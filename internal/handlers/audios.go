package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"peacenest/internal/httpx"
	"peacenest/internal/services"
)

// AudioHandler serves the relaxation audio library.
type AudioHandler struct {
	errorWriter
	audios *services.AudioService
}

func NewAudioHandler(audios *services.AudioService, ew errorWriter) *AudioHandler {
	return &AudioHandler{errorWriter: ew, audios: audios}
}

func (h *AudioHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.audios.List(r.Context(), q.Get("category"), q.Get("type"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"count":  len(out),
		"audios": out,
	})
}

func (h *AudioHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	out, err := h.audios.ListByCategory(r.Context(), category)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"category": category,
		"count":    len(out),
		"audios":   out,
	})
}

func (h *AudioHandler) Categories(w http.ResponseWriter, r *http.Request) {
	out, err := h.audios.Categories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"count":      len(out),
		"categories": out,
	})
}

func (h *AudioHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.audios.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"audio": a})
}

func (h *AudioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req audioRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	a, err := h.audios.Create(r.Context(), req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "audio created successfully",
		"audio":   a,
	})
}

func (h *AudioHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req audioRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	a, err := h.audios.Update(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "audio updated successfully",
		"audio":   a,
	})
}

func (h *AudioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.audios.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "audio deleted successfully"})
}
