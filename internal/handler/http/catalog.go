package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KartikVerma96/paregrose/internal/repository"
	"github.com/KartikVerma96/paregrose/internal/service"
	"github.com/KartikVerma96/paregrose/pkg/httputil"
)

// CatalogHandler serves the public storefront catalog.
type CatalogHandler struct {
	catalog  *service.CatalogService
	settings *service.SettingsService
	logger   *slog.Logger
}

func NewCatalogHandler(catalog *service.CatalogService, settings *service.SettingsService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, settings: settings, logger: logger}
}

// ListProducts handles GET /api/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	f := repository.ProductFilter{
		CategorySlug:    q.str("category"),
		SubcategorySlug: q.str("subcategory"),
		Search:          q.str("search"),
		MinPrice:        q.int64("min_price"),
		MaxPrice:        q.int64("max_price"),
		Size:            q.str("size"),
		Color:           q.str("color"),
		Featured:        q.bool("featured"),
		Bestseller:      q.bool("bestseller"),
		New:             q.bool("new"),
		Sort:            q.values.Get("sort"),
		Page:            q.int("page"),
		PerPage:         q.int("per_page"),
	}
	if inStock := q.bool("in_stock"); inStock != nil {
		f.InStock = *inStock
	}
	if q.invalid(w, r) {
		return
	}

	res, err := h.catalog.ListProducts(r.Context(), f)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// GetProduct handles GET /api/products/{slug}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	d, err := h.catalog.ProductDetail(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, d)
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, categories)
}

// GetCategory handles GET /api/categories/{slug}
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalog.CategoryBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, c)
}

// ListSubcategories handles GET /api/subcategories?category_id=
func (h *CatalogHandler) ListSubcategories(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	categoryID := q.uuid("category_id")
	if q.invalid(w, r) {
		return
	}
	subs, err := h.catalog.Subcategories(r.Context(), categoryID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, subs)
}

// PublicSettings handles GET /api/settings/public
func (h *CatalogHandler) PublicSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Public(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, s)
}
