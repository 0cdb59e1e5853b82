package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/repository"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

// CartService keeps carts consistent with live stock. Every owner key is
// either domain.UserOwner or domain.SessionOwner.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	variants repository.VariantRepository
	settings settingsReader
	logger   *slog.Logger
}

func NewCartService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	variants repository.VariantRepository,
	settings settingsReader,
	logger *slog.Logger,
) *CartService {
	return &CartService{carts: carts, products: products, variants: variants, settings: settings, logger: logger}
}

func (s *CartService) Get(ctx context.Context, owner string) (*domain.Cart, error) {
	lines, err := s.carts.Lines(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return domain.NewCart(lines), nil
}

// Add increments the owner's line for the product variant, creating it if
// needed. The stored quantity never exceeds live stock.
func (s *CartService) Add(ctx context.Context, owner string, in domain.AddToCartInput) (*domain.Cart, error) {
	if in.Quantity < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}
	p, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if !p.IsActive {
		return nil, apperrors.NotFound("product", in.ProductID)
	}

	size := strings.TrimSpace(in.SelectedSize)
	color := strings.TrimSpace(in.SelectedColor)
	variants, err := s.variants.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}

	available := p.StockQuantity
	if len(variants) > 0 {
		v, ok := domain.FindVariant(variants, size, color)
		if !ok || !v.IsActive {
			return nil, apperrors.InvalidInput("selected size and color are not available for this product")
		}
		available = v.StockQuantity
	}
	if available <= 0 {
		return nil, apperrors.OutOfStock(p.Name + " is out of stock")
	}

	item, err := s.carts.AddQuantity(ctx, &domain.CartItem{
		OwnerKey:      owner,
		ProductID:     p.ID,
		SelectedSize:  size,
		SelectedColor: color,
		Quantity:      in.Quantity,
	}, domain.LineCap(available))
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	s.logger.DebugContext(ctx, "cart item added",
		slog.String("item_id", item.ID),
		slog.String("product_id", item.ProductID),
		slog.Int("quantity", item.Quantity),
	)
	return s.Get(ctx, owner)
}

// Update sets an absolute quantity, clamped to live stock. Zero removes the
// line.
func (s *CartService) Update(ctx context.Context, owner, itemID string, in domain.UpdateCartItemInput) (*domain.Cart, error) {
	if in.Quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}
	if in.Quantity == 0 {
		return s.Remove(ctx, owner, itemID)
	}

	lines, err := s.carts.Lines(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	var line *domain.CartLine
	for i := range lines {
		if lines[i].ID == itemID {
			line = &lines[i]
			break
		}
	}
	if line == nil {
		return nil, apperrors.NotFound("cart item", itemID)
	}

	quantity := domain.ClampQuantity(in.Quantity, line.Available)
	if quantity == 0 {
		return nil, apperrors.OutOfStock(line.ProductName + " is out of stock")
	}
	if _, err := s.carts.SetQuantity(ctx, owner, itemID, quantity); err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return s.Get(ctx, owner)
}

func (s *CartService) Remove(ctx context.Context, owner, itemID string) (*domain.Cart, error) {
	if err := s.carts.DeleteItem(ctx, owner, itemID); err != nil {
		return nil, fmt.Errorf("remove cart item: %w", err)
	}
	return s.Get(ctx, owner)
}

func (s *CartService) Clear(ctx context.Context, owner string) error {
	if _, err := s.carts.Clear(ctx, owner); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Merge moves a guest cart onto the user's cart. Colliding lines add up,
// clamped to stock; lines with nothing available are dropped. The guest
// cart is empty afterwards.
func (s *CartService) Merge(ctx context.Context, guestOwner, userID string) (*domain.Cart, error) {
	userOwner := domain.UserOwner(userID)
	if !domain.IsGuestOwner(guestOwner) {
		return nil, apperrors.InvalidInput("merge source must be a guest session")
	}

	guestLines, err := s.carts.Lines(ctx, guestOwner)
	if err != nil {
		return nil, fmt.Errorf("get guest cart: %w", err)
	}
	if len(guestLines) == 0 {
		return s.Get(ctx, userOwner)
	}
	userLines, err := s.carts.Lines(ctx, userOwner)
	if err != nil {
		return nil, fmt.Errorf("get user cart: %w", err)
	}

	available := make(map[string]int, len(guestLines)+len(userLines))
	guest := make([]domain.CartItem, len(guestLines))
	user := make([]domain.CartItem, len(userLines))
	for i, l := range guestLines {
		guest[i] = l.CartItem
		available[l.LineKey()] = l.Available
	}
	for i, l := range userLines {
		user[i] = l.CartItem
		available[l.LineKey()] = l.Available
	}

	merged := domain.MergeCarts(userOwner, guest, user, func(c domain.CartItem) int {
		return available[c.LineKey()]
	})
	if err := s.carts.ReplaceOwner(ctx, guestOwner, merged); err != nil {
		return nil, fmt.Errorf("merge carts: %w", err)
	}

	s.logger.InfoContext(ctx, "guest cart merged",
		slog.String("user_id", userID),
		slog.Int("guest_lines", len(guestLines)),
		slog.Int("merged_lines", len(merged)),
	)
	return s.Get(ctx, userOwner)
}

// Summary prices the cart for checkout and flags lines that cannot be
// bought as they stand. Nothing is persisted.
func (s *CartService) Summary(ctx context.Context, owner string) (*domain.CheckoutSummary, error) {
	lines, err := s.carts.Lines(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Summarize(lines, settings), nil
}
