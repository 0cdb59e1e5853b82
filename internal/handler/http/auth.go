package http

import (
	"log/slog"
	"net/http"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/service"
	"github.com/KartikVerma96/paregrose/pkg/httputil"
	"github.com/KartikVerma96/paregrose/pkg/middleware"
)

// AuthHandler handles sign-in, sign-out and the signed-in user's profile.
type AuthHandler struct {
	service *service.AuthService
	cookies cookieWriter
	logger  *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, cookieSecure bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, cookies: cookieWriter{secure: cookieSecure}, logger: logger}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in domain.RegisterInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	res, err := h.service.Register(r.Context(), in, guestOwner(r))
	h.respond(w, r, res, err, http.StatusCreated)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in domain.LoginInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	res, err := h.service.Login(r.Context(), in, guestOwner(r))
	h.respond(w, r, res, err, http.StatusOK)
}

// Google handles POST /api/auth/google
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var in domain.GoogleLoginInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	res, err := h.service.Google(r.Context(), in, guestOwner(r))
	h.respond(w, r, res, err, http.StatusOK)
}

func (h *AuthHandler) respond(w http.ResponseWriter, r *http.Request, res *domain.AuthResult, err error, status int) {
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.cookies.setSession(w, res.Token, res.ExpiresAt)
	httputil.WriteData(w, status, res)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.clearSession(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Me(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, u)
}

// UpdateMe handles PUT /api/auth/me
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var in domain.UpdateProfileInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	u, err := h.service.UpdateProfile(r.Context(), middleware.UserIDFromContext(r.Context()), in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, u)
}

// ChangePassword handles PUT /api/auth/me/password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in domain.ChangePasswordInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	if err := h.service.ChangePassword(r.Context(), middleware.UserIDFromContext(r.Context()), in); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
