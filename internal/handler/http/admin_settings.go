package http

import (
	"log/slog"
	"net/http"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/service"
	"github.com/KartikVerma96/paregrose/pkg/httputil"
)

// AdminStoreHandler serves store settings and the analytics dashboard.
type AdminStoreHandler struct {
	settings  *service.SettingsService
	analytics *service.AnalyticsService
	logger    *slog.Logger
}

func NewAdminStoreHandler(settings *service.SettingsService, analytics *service.AnalyticsService, logger *slog.Logger) *AdminStoreHandler {
	return &AdminStoreHandler{settings: settings, analytics: analytics, logger: logger}
}

// GetSettings handles GET /api/admin/settings
func (h *AdminStoreHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, s)
}

// UpdateSettings handles PUT /api/admin/settings
func (h *AdminStoreHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in domain.UpdateSettingsInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	s, err := h.settings.Update(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, s)
}

// Analytics handles GET /api/admin/analytics. ?refresh=true skips the cache.
func (h *AdminStoreHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	refresh := q.bool("refresh")
	if q.invalid(w, r) {
		return
	}
	overview, err := h.analytics.Overview(r.Context(), refresh != nil && *refresh)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, overview)
}
