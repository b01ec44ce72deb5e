package handlers

import (
	"net/http"

	"peacenest/internal/httpx"
	"peacenest/internal/metrics"
	"peacenest/internal/models"
	"peacenest/internal/services"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	errorWriter
	users   *services.UserService
	metrics *metrics.Collector
}

func NewAuthHandler(users *services.UserService, m *metrics.Collector, ew errorWriter) *AuthHandler {
	return &AuthHandler{errorWriter: ew, users: users, metrics: m}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.users.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.RecordRegistration()
	httpx.JSON(w, http.StatusCreated, authResponse{
		Message: "user registered successfully",
		User:    res.User,
		Token:   res.Token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if models.IsKind(err, models.KindAuthentication) {
			h.metrics.RecordLogin(metrics.LoginFailure)
		}
		h.writeError(w, r, err)
		return
	}
	h.metrics.RecordLogin(metrics.LoginSuccess)
	httpx.JSON(w, http.StatusOK, authResponse{
		Message: "login successful",
		User:    res.User,
		Token:   res.Token,
	})
}
