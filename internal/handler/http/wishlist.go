package http

import (
	"log/slog"
	"net/http"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/service"
	"github.com/KartikVerma96/paregrose/pkg/httputil"
	"github.com/KartikVerma96/paregrose/pkg/middleware"
)

type WishlistHandler struct {
	service *service.WishlistService
	logger  *slog.Logger
}

func NewWishlistHandler(svc *service.WishlistService, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{service: svc, logger: logger}
}

// List handles GET /api/wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, items)
}

// Add handles POST /api/wishlist. Adding a product twice is a 200, not an
// error.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var in domain.AddWishlistInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	created, err := h.service.Add(r.Context(), middleware.UserIDFromContext(r.Context()), in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.WriteData(w, status, map[string]any{"product_id": in.ProductID, "created": created})
}

// Remove handles DELETE /api/wishlist/{productID}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}
	if err := h.service.Remove(r.Context(), middleware.UserIDFromContext(r.Context()), productID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveToCart handles POST /api/wishlist/{productID}/move-to-cart
func (h *WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}
	var in domain.MoveToCartInput
	if r.ContentLength != 0 && !httputil.DecodeJSON(w, r, &in) {
		return
	}
	cart, err := h.service.MoveToCart(r.Context(), middleware.UserIDFromContext(r.Context()), productID, in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cart)
}
