package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"peacenest/internal/httpx"
	"peacenest/internal/services"
)

// MeditationHandler serves the guided meditation catalog.
type MeditationHandler struct {
	errorWriter
	meditations *services.MeditationService
}

func NewMeditationHandler(meditations *services.MeditationService, ew errorWriter) *MeditationHandler {
	return &MeditationHandler{errorWriter: ew, meditations: meditations}
}

// List accepts ?category= and ?duration= (maximum minutes).
func (h *MeditationHandler) List(w http.ResponseWriter, r *http.Request) {
	maxDuration, err := positiveIntQuery(r, "duration")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.meditations.List(r.Context(), r.URL.Query().Get("category"), maxDuration)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"count":       len(out),
		"meditations": out,
	})
}

func (h *MeditationHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	out, err := h.meditations.ListByCategory(r.Context(), category)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"category":    category,
		"count":       len(out),
		"meditations": out,
	})
}

func (h *MeditationHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.meditations.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"meditation": m})
}

func (h *MeditationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req meditationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	m, err := h.meditations.Create(r.Context(), req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":    "meditation created successfully",
		"meditation": m,
	})
}

func (h *MeditationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req meditationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	m, err := h.meditations.Update(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":    "meditation updated successfully",
		"meditation": m,
	})
}

func (h *MeditationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.meditations.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "meditation deleted successfully"})
}
