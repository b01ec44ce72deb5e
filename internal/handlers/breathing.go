package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"peacenest/internal/httpx"
	mw "peacenest/internal/middleware"
	"peacenest/internal/models"
	"peacenest/internal/services"
)

type BreathingHandler struct {
	errorWriter
	breathing *services.BreathingService
}

func NewBreathingHandler(breathing *services.BreathingService, ew errorWriter) *BreathingHandler {
	return &BreathingHandler{errorWriter: ew, breathing: breathing}
}

func (h *BreathingHandler) ListExercises(w http.ResponseWriter, r *http.Request) {
	out, err := h.breathing.ListExercises(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"count":     len(out),
		"exercises": out,
	})
}

func (h *BreathingHandler) GetExercise(w http.ResponseWriter, r *http.Request) {
	e, err := h.breathing.GetExercise(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"exercise": e})
}

func (h *BreathingHandler) CreateExercise(w http.ResponseWriter, r *http.Request) {
	var req exerciseRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	e, err := h.breathing.CreateExercise(r.Context(), req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":  "exercise created successfully",
		"exercise": e,
	})
}

func (h *BreathingHandler) SaveProgress(w http.ResponseWriter, r *http.Request) {
	id, _ := mw.IdentityFromContext(r.Context())
	var req progressRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Completed == nil {
		h.writeError(w, r, models.NewValidationError(map[string]string{"completed": "completed must be a boolean"}))
		return
	}
	p, err := h.breathing.SaveProgress(r.Context(), id.UserID, services.ProgressInput{
		ExerciseID: req.ExerciseID,
		Completed:  *req.Completed,
		Duration:   req.Duration,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":  "progress saved successfully",
		"progress": p,
	})
}

func (h *BreathingHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	id, _ := mw.IdentityFromContext(r.Context())
	limit, err := positiveIntQuery(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.breathing.ListProgress(r.Context(), id.UserID, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"count":    len(out),
		"progress": out,
	})
}
