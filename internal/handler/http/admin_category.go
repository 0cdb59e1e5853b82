package http

import (
	"log/slog"
	"net/http"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/service"
	"github.com/KartikVerma96/paregrose/pkg/httputil"
)

// AdminCategoryHandler manages categories and subcategories.
type AdminCategoryHandler struct {
	service *service.CategoryService
	logger  *slog.Logger
}

func NewAdminCategoryHandler(svc *service.CategoryService, logger *slog.Logger) *AdminCategoryHandler {
	return &AdminCategoryHandler{service: svc, logger: logger}
}

// ListCategories handles GET /api/admin/categories
func (h *AdminCategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, categories)
}

// GetCategory handles GET /api/admin/categories/{id}
func (h *AdminCategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, c)
}

// CreateCategory handles POST /api/admin/categories
func (h *AdminCategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateCategoryInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	c, err := h.service.Create(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, c)
}

// UpdateCategory handles PUT /api/admin/categories/{id}
func (h *AdminCategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in domain.UpdateCategoryInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	c, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, c)
}

// DeleteCategory handles DELETE /api/admin/categories/{id}. Categories that
// still hold products are refused with 409.
func (h *AdminCategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkCategories handles POST /api/admin/categories/bulk
func (h *AdminCategoryHandler) BulkCategories(w http.ResponseWriter, r *http.Request) {
	var in domain.BulkInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	res, err := h.service.Bulk(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, res)
}

// ListSubcategories handles GET /api/admin/subcategories?category_id=
func (h *AdminCategoryHandler) ListSubcategories(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	categoryID := q.uuid("category_id")
	if q.invalid(w, r) {
		return
	}
	subs, err := h.service.ListSubcategories(r.Context(), categoryID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, subs)
}

// GetSubcategory handles GET /api/admin/subcategories/{id}
func (h *AdminCategoryHandler) GetSubcategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	sub, err := h.service.GetSubcategory(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, sub)
}

// CreateSubcategory handles POST /api/admin/subcategories
func (h *AdminCategoryHandler) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateSubcategoryInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	sub, err := h.service.CreateSubcategory(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, sub)
}

// UpdateSubcategory handles PUT /api/admin/subcategories/{id}
func (h *AdminCategoryHandler) UpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in domain.UpdateSubcategoryInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	sub, err := h.service.UpdateSubcategory(r.Context(), id, in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, sub)
}

// DeleteSubcategory handles DELETE /api/admin/subcategories/{id}
func (h *AdminCategoryHandler) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteSubcategory(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
