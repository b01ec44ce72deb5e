package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"peacenest/internal/httpx"
	"peacenest/internal/metrics"
	mw "peacenest/internal/middleware"
	"peacenest/internal/services"
)

type TrackingHandler struct {
	errorWriter
	tracking *services.TrackingService
	metrics  *metrics.Collector
}

func NewTrackingHandler(tracking *services.TrackingService, m *metrics.Collector, ew errorWriter) *TrackingHandler {
	return &TrackingHandler{errorWriter: ew, tracking: tracking, metrics: m}
}

func (h *TrackingHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := mw.IdentityFromContext(r.Context())
	var req trackingRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	entry, err := h.tracking.Create(r.Context(), id.UserID, req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.RecordTrackingCreated()
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":  "tracking entry created successfully",
		"tracking": entry,
	})
}

func (h *TrackingHandler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := mw.IdentityFromContext(r.Context())
	limit, err := positiveIntQuery(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	entries, err := h.tracking.ListForUser(r.Context(), id.UserID, services.TrackingFilter{
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Limit:     limit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"count":    len(entries),
		"tracking": entries,
	})
}

func (h *TrackingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, _ := mw.IdentityFromContext(r.Context())
	q := r.URL.Query()
	stats, err := h.tracking.GetStats(r.Context(), id.UserID, services.TrackingFilter{
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"stats": stats})
}

// Get checks ownership here because GetByID itself does not.
func (h *TrackingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := mw.IdentityFromContext(r.Context())
	entry, err := h.tracking.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := services.CheckOwner(entry, id.UserID); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tracking": entry})
}

func (h *TrackingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := mw.IdentityFromContext(r.Context())
	var req trackingPatchRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	entry, err := h.tracking.Update(r.Context(), chi.URLParam(r, "id"), id.UserID, req.toPatch())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":  "tracking entry updated successfully",
		"tracking": entry,
	})
}

func (h *TrackingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := mw.IdentityFromContext(r.Context())
	if err := h.tracking.Delete(r.Context(), chi.URLParam(r, "id"), id.UserID); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "tracking entry deleted successfully"})
}
