// Package api serves habits, check-ins and analytics over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/julianstephens/habitgrid/internal/service"
)

// Handler holds the dependencies shared by every endpoint.
type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ListHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := h.svc.ListHabits(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, habits)
}

func (h *Handler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	var in service.HabitInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	habit, err := h.svc.CreateHabit(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, habit)
}

func (h *Handler) GetHabit(w http.ResponseWriter, r *http.Request) {
	habit, err := h.svc.GetHabit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, habit)
}

// UpdateHabit handles PUT, replacing every writable field.
func (h *Handler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	var in service.HabitInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	habit, err := h.svc.UpdateHabit(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, habit)
}

// PatchHabit handles PATCH, changing only the fields present in the body.
func (h *Handler) PatchHabit(w http.ResponseWriter, r *http.Request) {
	var p service.HabitPatch
	if err := decodeJSON(w, r, &p); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	habit, err := h.svc.PatchHabit(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, habit)
}

func (h *Handler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteHabit(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
