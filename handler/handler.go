// Package handler exposes the keeper status over HTTP
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sljivkov/pythkeeper/domain"
	"github.com/sljivkov/pythkeeper/metrics"
)

// StatusSource reports the latest keeper outcome
type StatusSource interface {
	Ready() <-chan struct{}
	LastOutcome() domain.Outcome
}

// Handler serves the status endpoints
type Handler struct {
	source      StatusSource
	readTimeout time.Duration
}

// New creates a Handler waiting up to 3 seconds for the first run
func New(source StatusSource) *Handler {
	return &Handler{source: source, readTimeout: 3 * time.Second}
}

// Router returns the routes of the status server
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/status", h.status)
	r.Get("/healthz", h.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	// Wait until the first run has finished
	select {
	case <-h.source.Ready():
	case <-r.Context().Done():
		return
	case <-time.After(h.readTimeout): // fallback timeout
		http.Error(w, "no run finished yet", http.StatusServiceUnavailable)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.source.LastOutcome()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
