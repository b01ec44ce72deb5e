package handlers

import (
	"net/http"

	"peacenest/internal/httpx"
	mw "peacenest/internal/middleware"
	"peacenest/internal/services"
)

// UserHandler serves the authenticated user's own profile.
type UserHandler struct {
	errorWriter
	users *services.UserService
}

func NewUserHandler(users *services.UserService, ew errorWriter) *UserHandler {
	return &UserHandler{errorWriter: ew, users: users}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := mw.IdentityFromContext(r.Context())
	u, err := h.users.GetProfile(r.Context(), id.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": u})
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := mw.IdentityFromContext(r.Context())
	var req profileRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.users.UpdateProfile(r.Context(), id.UserID, req.toPatch())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "profile updated successfully",
		"user":    u,
	})
}

func (h *UserHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := mw.IdentityFromContext(r.Context())
	if err := h.users.DeleteAccount(r.Context(), id.UserID); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "account deleted successfully"})
}
