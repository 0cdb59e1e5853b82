package domain

import "time"

// WishlistItem is a product saved by a user.
type WishlistItem struct {
	UserID    string    `json:"-"`
	ProductID string    `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
	Product   *Product  `json:"product,omitempty"`
}

type AddWishlistInput struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// MoveToCartInput picks the variant to add when moving a wishlist item.
type MoveToCartInput struct {
	SelectedSize  string `json:"selected_size" validate:"max=50"`
	SelectedColor string `json:"selected_color" validate:"max=50"`
}
