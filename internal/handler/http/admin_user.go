package http

import (
	"log/slog"
	"net/http"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/repository"
	"github.com/KartikVerma96/paregrose/internal/service"
	"github.com/KartikVerma96/paregrose/pkg/httputil"
	"github.com/KartikVerma96/paregrose/pkg/middleware"
)

// AdminUserHandler manages accounts. Admin only.
type AdminUserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

func NewAdminUserHandler(svc *service.UserService, logger *slog.Logger) *AdminUserHandler {
	return &AdminUserHandler{service: svc, logger: logger}
}

// ListUsers handles GET /api/admin/users
func (h *AdminUserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	f := repository.UserFilter{
		Search:  q.str("search"),
		Role:    q.str("role"),
		Page:    q.int("page"),
		PerPage: q.int("per_page"),
	}
	if q.invalid(w, r) {
		return
	}
	res, err := h.service.List(r.Context(), f)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// GetUser handles GET /api/admin/users/{id}
func (h *AdminUserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, u)
}

// ChangeRole handles PUT /api/admin/users/{id}/role
func (h *AdminUserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in domain.ChangeRoleInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	u, err := h.service.ChangeRole(r.Context(), middleware.UserIDFromContext(r.Context()), id, in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, u)
}

// SetActive handles PUT /api/admin/users/{id}/status
func (h *AdminUserHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in domain.SetActiveInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	u, err := h.service.SetActive(r.Context(), middleware.UserIDFromContext(r.Context()), id, *in.IsActive)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *AdminUserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
