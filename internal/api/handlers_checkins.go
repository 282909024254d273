package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/service"
)

// ListCheckIns handles GET /api/checkins/?habit_id=&from=&to=.
func (h *Handler) ListCheckIns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.CheckInFilter{
		HabitID: q.Get("habit_id"),
		From:    q.Get("from"),
		To:      q.Get("to"),
	}

	checkIns, err := h.svc.ListCheckIns(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, checkIns)
}

func (h *Handler) CreateCheckIn(w http.ResponseWriter, r *http.Request) {
	var in service.CheckInInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	checkIn, err := h.svc.CreateCheckIn(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, checkIn)
}

func (h *Handler) GetCheckIn(w http.ResponseWriter, r *http.Request) {
	checkIn, err := h.svc.GetCheckIn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, checkIn)
}

func (h *Handler) DeleteCheckIn(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCheckIn(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
