package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const ViewIDHeader = "X-View-ID"

type LeadHandler struct {
	views       *usecase.ViewRegistry
	writer      usecase.LeadWriter
	events      usecase.LeadEventPublisher
	manage      *usecase.ManageLeadsUseCase
	rateLimiter *RateLimiter
}

// NewLeadHandler limita POST /leads a ratePerMin requisições por minuto por IP. events pode ser nil.
func NewLeadHandler(views *usecase.ViewRegistry, writer usecase.LeadWriter, events usecase.LeadEventPublisher, manage *usecase.ManageLeadsUseCase, ratePerMin int) *LeadHandler {
	if ratePerMin <= 0 {
		ratePerMin = 10
	}
	return &LeadHandler{
		views:       views,
		writer:      writer,
		events:      events,
		manage:      manage,
		rateLimiter: NewRateLimiter(ratePerMin, time.Minute),
	}
}

type ListLeadsResponse struct {
	Leads []entity.Lead `json:"leads"`
	Count int           `json:"count"`
}

// List GET /leads?search=&status=&match=
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := h.views.Get(ctx, r.Header.Get(ViewIDHeader))
	q := r.URL.Query()

	if q.Has("status") || q.Has("match") {
		f := view.Filters()
		if q.Has("status") {
			st, err := entity.ParseStatusFilter(q.Get("status"))
			if err != nil {
				writeUseCaseError(w, err)
				return
			}
			f.Status = st
		}
		if q.Has("match") {
			m, err := entity.ParseMatchMode(strings.ToUpper(q.Get("match")))
			if err != nil {
				writeUseCaseError(w, err)
				return
			}
			f.Match = m
		}
		if err := view.SetFilters(ctx, f); err != nil {
			writeUseCaseError(w, err)
			return
		}
	}
	if q.Has("search") {
		view.SetSearch(q.Get("search"))
	}

	leads, err := view.Activate(ctx)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ListLeadsResponse{Leads: leads, Count: len(leads)})
}

// Create POST /leads
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeError(w, http.StatusTooManyRequests, ErrRateLimited, "Too many requests. Please try again later.")
		return
	}

	var draft usecase.LeadDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidBody, "Invalid JSON")
		return
	}

	form := usecase.NewLeadForm(h.writer, h.events)
	form.Apply(draft.WithDefaults())

	out, err := form.Submit(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, out.Lead)
}

// GetFilters GET /leads/filters
func (h *LeadHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	view := h.views.Get(r.Context(), r.Header.Get(ViewIDHeader))
	writeJSON(w, http.StatusOK, view.Filters())
}

// PutFilters PUT /leads/filters
func (h *LeadHandler) PutFilters(w http.ResponseWriter, r *http.Request) {
	var f entity.Filters
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidBody, "Invalid JSON")
		return
	}

	view := h.views.Get(r.Context(), r.Header.Get(ViewIDHeader))
	if err := view.SetFilters(r.Context(), f); err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Filters())
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus PATCH /leads/{id}/status
func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidBody, "Invalid JSON")
		return
	}

	lead, err := h.manage.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// Delete DELETE /leads/{id}
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.manage.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getClientIP usa o primeiro endereço de X-Forwarded-For quando presente.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
