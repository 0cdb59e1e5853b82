package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/repository"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

type cartAdder interface {
	Add(ctx context.Context, owner string, in domain.AddToCartInput) (*domain.Cart, error)
}

type WishlistService struct {
	wishlist repository.WishlistRepository
	carts    cartAdder
	logger   *slog.Logger
}

func NewWishlistService(wishlist repository.WishlistRepository, carts cartAdder, logger *slog.Logger) *WishlistService {
	return &WishlistService{wishlist: wishlist, carts: carts, logger: logger}
}

func (s *WishlistService) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	items, err := s.wishlist.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return items, nil
}

// Add is idempotent; created reports whether the product was newly saved.
func (s *WishlistService) Add(ctx context.Context, userID string, in domain.AddWishlistInput) (bool, error) {
	created, err := s.wishlist.Add(ctx, userID, in.ProductID)
	if err != nil {
		return false, fmt.Errorf("add to wishlist: %w", err)
	}
	return created, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID string) error {
	if err := s.wishlist.Remove(ctx, userID, productID); err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	return nil
}

// MoveToCart adds one unit to the user's cart and then drops the product
// from the wishlist. The wishlist is left alone if the cart rejects it.
func (s *WishlistService) MoveToCart(ctx context.Context, userID, productID string, in domain.MoveToCartInput) (*domain.Cart, error) {
	cart, err := s.carts.Add(ctx, domain.UserOwner(userID), domain.AddToCartInput{
		ProductID:     productID,
		SelectedSize:  in.SelectedSize,
		SelectedColor: in.SelectedColor,
		Quantity:      1,
	})
	if err != nil {
		return nil, err
	}
	if err := s.wishlist.Remove(ctx, userID, productID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("remove from wishlist: %w", err)
	}

	s.logger.DebugContext(ctx, "wishlist item moved to cart",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)
	return cart, nil
}
