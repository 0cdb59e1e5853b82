package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/repository"
	"github.com/KartikVerma96/paregrose/internal/service"
	"github.com/KartikVerma96/paregrose/pkg/httputil"
)

// AdminProductHandler serves back-office product management: products,
// their variant matrix, their image gallery and the spreadsheet export.
type AdminProductHandler struct {
	products *service.ProductService
	variants *service.VariantService
	images   *service.ImageService
	export   *service.ExportService
	logger   *slog.Logger
}

func NewAdminProductHandler(
	products *service.ProductService,
	variants *service.VariantService,
	images *service.ImageService,
	export *service.ExportService,
	logger *slog.Logger,
) *AdminProductHandler {
	return &AdminProductHandler{
		products: products,
		variants: variants,
		images:   images,
		export:   export,
		logger:   logger,
	}
}

// --- Products ---

// ListProducts handles GET /api/admin/products
func (h *AdminProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	f := repository.ProductFilter{
		Search:     q.str("search"),
		CategoryID: q.uuid("category_id"),
		IsActive:   q.bool("is_active"),
		Stock:      q.values.Get("stock"),
		Sort:       q.values.Get("sort"),
		Page:       q.int("page"),
		PerPage:    q.int("per_page"),
	}
	if q.invalid(w, r) {
		return
	}
	res, err := h.products.List(r.Context(), f)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// GetProduct handles GET /api/admin/products/{id}
func (h *AdminProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	d, err := h.products.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, d)
}

// CreateProduct handles POST /api/admin/products
func (h *AdminProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateProductInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	p, err := h.products.Create(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, p)
}

// UpdateProduct handles PUT /api/admin/products/{id}
func (h *AdminProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in domain.UpdateProductInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	p, err := h.products.Update(r.Context(), id, in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /api/admin/products/{id}
func (h *AdminProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkProducts handles POST /api/admin/products/bulk
func (h *AdminProductHandler) BulkProducts(w http.ResponseWriter, r *http.Request) {
	var in domain.BulkInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	res, err := h.products.Bulk(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, res)
}

// ExportProducts handles GET /api/admin/products/export
func (h *AdminProductHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	file, err := h.export.Products(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	name := fmt.Sprintf("paregrose-products-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", service.XLSXContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	if err := file.Write(w); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stream product export", slog.String("error", err.Error()))
	}
}

// --- Variants ---

// PreviewVariants handles POST /api/admin/variants/preview
func (h *AdminProductHandler) PreviewVariants(w http.ResponseWriter, r *http.Request) {
	var in service.SaveVariantsInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	httputil.WriteData(w, http.StatusOK, h.variants.Preview(in))
}

// ListVariants handles GET /api/admin/products/{id}/variants
func (h *AdminProductHandler) ListVariants(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	m, err := h.variants.List(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, m)
}

// SaveVariants handles PUT /api/admin/products/{id}/variants
func (h *AdminProductHandler) SaveVariants(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in service.SaveVariantsInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	m, err := h.variants.Save(r.Context(), id, in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, m)
}

// PatchVariant handles PATCH /api/admin/products/{id}/variants/{variantID}
func (h *AdminProductHandler) PatchVariant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	variantID, ok := pathID(w, r, "variantID")
	if !ok {
		return
	}
	var patch domain.VariantPatch
	if !httputil.DecodeJSON(w, r, &patch) {
		return
	}
	v, stock, err := h.variants.Patch(r.Context(), id, variantID, patch)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, map[string]any{
		"variant":        v,
		"stock_quantity": stock,
	})
}

// --- Images ---

// ListImages handles GET /api/admin/products/{id}/images
func (h *AdminProductHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	images, err := h.images.List(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, images)
}

// AddImage handles POST /api/admin/products/{id}/images. A multipart body
// with a "file" part is uploaded to storage; a JSON body attaches an
// external URL.
func (h *AdminProductHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var in domain.AddImageInput
		if !httputil.DecodeJSON(w, r, &in) {
			return
		}
		img, err := h.images.AddURL(r.Context(), id, in)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		httputil.WriteData(w, http.StatusCreated, img)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxImageBytes+httputil.MaxBodyBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteErrorCode(w, r, http.StatusRequestEntityTooLarge, "INVALID_INPUT", "image must be at most 10 MB")
			return
		}
		httputil.WriteErrorCode(w, r, http.StatusBadRequest, "INVALID_INPUT", "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType, err = sniffContentType(file)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
	}

	img, err := h.images.Upload(r.Context(), id, service.UploadImageInput{
		ContentType: contentType,
		Size:        header.Size,
		AltText:     r.FormValue("alt_text"),
		Data:        file,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, img)
}

// sniffContentType detects the type from the first 512 bytes and rewinds.
func sniffContentType(f multipart.File) (string, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	return http.DetectContentType(buf[:n]), nil
}

// ReorderImages handles PUT /api/admin/products/{id}/images
func (h *AdminProductHandler) ReorderImages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in domain.ReorderImagesInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	images, err := h.images.Reorder(r.Context(), id, in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, images)
}

// SetPrimaryImage handles PUT /api/admin/products/{id}/images/{imageID}/primary
func (h *AdminProductHandler) SetPrimaryImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(w, r, "imageID")
	if !ok {
		return
	}
	images, err := h.images.SetPrimary(r.Context(), id, imageID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, images)
}

// DeleteImage handles DELETE /api/admin/products/{id}/images/{imageID}
func (h *AdminProductHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(w, r, "imageID")
	if !ok {
		return
	}
	if err := h.images.Delete(r.Context(), id, imageID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
