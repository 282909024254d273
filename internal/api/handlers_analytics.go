package api

import (
	"context"
	"net/http"
	"time"
)

// Heatmap handles GET /api/heatmap/?from=&to=.
func (h *Handler) Heatmap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days, err := h.svc.Heatmap(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, days)
}

// Stats handles GET /api/stats/?habit_id=.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), r.URL.Query().Get("habit_id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Health reports whether storage answers a ping.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.svc.Ping(ctx); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
