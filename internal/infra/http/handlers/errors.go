package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const (
	ErrInvalidBody        = "invalid_request_body"
	ErrValidationFailed   = "validation_failed"
	ErrNotFound           = "not_found"
	ErrSuperseded         = "superseded"
	ErrRateLimited        = "rate_limited"
	ErrStorage            = "storage_error"
	ErrRemote             = "remote_error"
	ErrInternal           = "internal_error"
	ErrNotImplemented     = "not_implemented"
	ErrServiceUnavailable = "service_unavailable"
)

// ErrorResponse é o envelope de erro de todas as rotas.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message, Status: status})
}

// writeUseCaseError traduz erros do domínio e da infraestrutura para HTTP.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var (
		verrs usecase.ValidationErrors
		verr  *entity.ValidationError
		derr  *usecase.DomainError
		werr  *entity.StorageWriteError
		rerr  *entity.StorageReadError
		qerr  *entity.RemoteQueryError
	)

	switch {
	case errors.As(err, &verrs) && len(verrs) > 0:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Code: ErrValidationFailed, Message: verrs.Error(), Status: http.StatusBadRequest, Field: verrs[0].Field,
		})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Code: ErrValidationFailed, Message: verr.Error(), Status: http.StatusBadRequest, Field: verr.Field,
		})
	case errors.As(err, &derr):
		writeError(w, http.StatusBadRequest, derr.Code, derr.Message)
	case errors.Is(err, usecase.ErrSuperseded):
		writeError(w, http.StatusConflict, ErrSuperseded, err.Error())
	case errors.Is(err, entity.ErrLeadNotFound):
		writeError(w, http.StatusNotFound, ErrNotFound, err.Error())
	case errors.Is(err, entity.ErrRemoteNotConfigured):
		writeError(w, http.StatusNotImplemented, ErrNotImplemented, err.Error())
	case errors.As(err, &werr), errors.As(err, &rerr):
		logger.For("http").WithError(err).Error("❌ Erro de armazenamento local")
		writeError(w, http.StatusInternalServerError, ErrStorage, "local storage failure")
	case errors.As(err, &qerr):
		logger.For("http").WithError(err).Error("❌ Erro no backend remoto")
		writeError(w, http.StatusBadGateway, ErrRemote, "remote lead store failure")
	default:
		logger.For("http").WithError(err).Error("❌ Erro inesperado")
		writeError(w, http.StatusInternalServerError, ErrInternal, "internal error")
	}
}
