package usecase

import (
	"errors"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// ErrSuperseded: uma ativação mais nova da mesma lista começou antes desta terminar.
var ErrSuperseded = errors.New("activation superseded by a newer one")

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError cobre erros de entrada do usuário (viram 4xx).
func IsDomainError(err error) bool {
	var d *DomainError
	var v *entity.ValidationError
	var vs ValidationErrors
	return errors.As(err, &d) || errors.As(err, &v) || errors.As(err, &vs)
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error { return e.Err }

// IsTechnicalError cobre falhas de infraestrutura (armazenamento local, backend remoto).
func IsTechnicalError(err error) bool {
	var t *TechnicalError
	var r *entity.StorageReadError
	var w *entity.StorageWriteError
	var q *entity.RemoteQueryError
	return errors.As(err, &t) || errors.As(err, &r) || errors.As(err, &w) || errors.As(err, &q)
}

// ValidationErrors agrupa todos os campos inválidos de um rascunho.
type ValidationErrors []*entity.ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

func newFieldError(field, message string) *entity.ValidationError {
	return &entity.ValidationError{Field: field, Message: message}
}
