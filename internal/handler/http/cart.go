package http

import (
	"log/slog"
	"net/http"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/service"
	"github.com/KartikVerma96/paregrose/pkg/httputil"
	"github.com/KartikVerma96/paregrose/pkg/middleware"
)

// CartHandler serves guest and user carts. Every route runs behind
// ResolveOwner.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{service: svc, logger: logger}
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Get(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var in domain.AddToCartInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	cart, err := h.service.Add(r.Context(), ownerFromContext(r.Context()), in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cart)
}

// UpdateItem handles PUT /api/cart/{itemID}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	var in domain.UpdateCartItemInput
	if !httputil.DecodeJSON(w, r, &in) {
		return
	}
	cart, err := h.service.Update(r.Context(), ownerFromContext(r.Context()), itemID, in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/{itemID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	cart, err := h.service.Remove(r.Context(), ownerFromContext(r.Context()), itemID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cart)
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), ownerFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, domain.NewCart(nil))
}

// MergeCart handles POST /api/cart/merge. The caller must be signed in and
// still present the guest session being merged.
func (h *CartHandler) MergeCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteErrorCode(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}
	guest := guestOwner(r)
	if guest == "" {
		httputil.WriteErrorCode(w, r, http.StatusBadRequest, "MISSING_SESSION",
			"send the guest "+GuestSessionHeader+" header to merge")
		return
	}
	cart, err := h.service.Merge(r.Context(), guest, userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cart)
}

// CheckoutSummary handles POST /api/checkout/summary
func (h *CartHandler) CheckoutSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, summary)
}
