package postgres

import (
	"context"
	"fmt"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/pkg/database"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

// WishlistRepository implements repository.WishlistRepository.
type WishlistRepository struct {
	db database.DBTX
}

func NewWishlistRepository(db database.DBTX) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// List returns the user's saved products, newest first, with product data.
func (r *WishlistRepository) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT w.user_id, w.product_id, w.created_at, `+productColumns+`, `+primaryImageColumn+`
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	items := []domain.WishlistItem{}
	for rows.Next() {
		var (
			item    domain.WishlistItem
			primary string
		)
		p, err := scanProduct(prefixScanner{rows, []any{&item.UserID, &item.ProductID, &item.CreatedAt}}, &primary)
		if err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		p.PrimaryImageURL = primary
		item.Product = p
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist: %w", err)
	}
	return items, nil
}

// Add is idempotent through ON CONFLICT DO NOTHING.
func (r *WishlistRepository) Add(ctx context.Context, userID, productID string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
		INSERT INTO wishlist_items (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`, userID, productID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return false, apperrors.NotFound("product", productID)
		}
		return false, fmt.Errorf("add to wishlist: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, productID string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("wishlist item", productID)
	}
	return nil
}

// prefixScanner prepends fixed destinations to every Scan call, letting
// scanProduct read rows that start with extra columns.
type prefixScanner struct {
	row    rowScanner
	prefix []any
}

func (s prefixScanner) Scan(dest ...any) error {
	return s.row.Scan(append(append([]any{}, s.prefix...), dest...)...)
}
