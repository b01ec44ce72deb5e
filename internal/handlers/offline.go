package handlers

import (
	"net/http"

	"peacenest/internal/httpx"
	"peacenest/internal/services"
)

// OfflineHandler serves content for clients that cache it for offline use.
// The per-catalog lists ignore query filters and always return everything.
type OfflineHandler struct {
	errorWriter
	offline     *services.OfflineService
	meditations *services.MeditationService
	breathing   *services.BreathingService
	audios      *services.AudioService
	articles    *services.ArticleService
}

func NewOfflineHandler(offline *services.OfflineService, meditations *services.MeditationService,
	breathing *services.BreathingService, audios *services.AudioService, articles *services.ArticleService,
	ew errorWriter) *OfflineHandler {
	return &OfflineHandler{
		errorWriter: ew,
		offline:     offline,
		meditations: meditations,
		breathing:   breathing,
		audios:      audios,
		articles:    articles,
	}
}

func (h *OfflineHandler) Resources(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.offline.Bundle(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":       "offline resources retrieved successfully",
		"version":       bundle.Version,
		"lastUpdated":   bundle.LastUpdated,
		"estimatedSize": bundle.EstimatedSize,
		"resources":     bundle.Resources,
	})
}

func (h *OfflineHandler) Meditations(w http.ResponseWriter, r *http.Request) {
	out, err := h.meditations.List(r.Context(), "", 0)
	h.writeCatalog(w, r, "meditations", len(out), out, err)
}

func (h *OfflineHandler) Breathing(w http.ResponseWriter, r *http.Request) {
	out, err := h.breathing.ListExercises(r.Context())
	h.writeCatalog(w, r, "exercises", len(out), out, err)
}

func (h *OfflineHandler) Audios(w http.ResponseWriter, r *http.Request) {
	out, err := h.audios.List(r.Context(), "", "")
	h.writeCatalog(w, r, "audios", len(out), out, err)
}

func (h *OfflineHandler) Articles(w http.ResponseWriter, r *http.Request) {
	out, err := h.articles.List(r.Context(), "")
	h.writeCatalog(w, r, "articles", len(out), out, err)
}

func (h *OfflineHandler) CheckUpdates(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.offline.CheckUpdates(r.URL.Query().Get("version")))
}

func (h *OfflineHandler) writeCatalog(w http.ResponseWriter, r *http.Request, key string, count int, items any, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"count": count,
		key:     items,
	})
}
