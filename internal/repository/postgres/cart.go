package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/pkg/database"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

const cartItemColumns = `id, owner_key, product_id, selected_size, selected_color, quantity, created_at, updated_at`

// CartRepository implements repository.CartRepository. Lines are unique per
// (owner_key, product_id, selected_size, selected_color); every insert goes
// through ON CONFLICT so concurrent adds never create a second row.
type CartRepository struct {
	db database.DBTX
}

func NewCartRepository(db database.DBTX) *CartRepository {
	return &CartRepository{db: db}
}

func scanCartItem(row rowScanner) (domain.CartItem, error) {
	var c domain.CartItem
	err := row.Scan(&c.ID, &c.OwnerKey, &c.ProductID, &c.SelectedSize, &c.SelectedColor,
		&c.Quantity, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Lines joins the owner's items with product, variant and primary image data.
func (r *CartRepository) Lines(ctx context.Context, owner string) ([]domain.CartLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ci.id, ci.owner_key, ci.product_id, ci.selected_size, ci.selected_color, ci.quantity,
		       ci.created_at, ci.updated_at,
		       p.name, p.slug, p.price, p.stock_quantity, p.is_active,
		       COALESCE((SELECT i.url FROM product_images i WHERE i.product_id = p.id AND i.is_primary LIMIT 1), ''),
		       EXISTS (SELECT 1 FROM product_variants pv WHERE pv.product_id = p.id),
		       v.id IS NOT NULL,
		       COALESCE(v.is_active, FALSE),
		       COALESCE(v.stock_quantity, 0),
		       COALESCE(v.price_adjustment, 0)
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		LEFT JOIN product_variants v
		       ON v.product_id = ci.product_id AND v.size = ci.selected_size AND v.color = ci.selected_color
		WHERE ci.owner_key = $1
		ORDER BY ci.created_at, ci.id`, owner)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		var (
			l                 domain.CartLine
			price             int64
			productStock      int
			variantStock      int
			variantAdjustment int64
		)
		if err := rows.Scan(
			&l.ID, &l.OwnerKey, &l.ProductID, &l.SelectedSize, &l.SelectedColor, &l.Quantity,
			&l.CreatedAt, &l.UpdatedAt,
			&l.ProductName, &l.ProductSlug, &price, &productStock, &l.ProductActive,
			&l.ImageURL,
			&l.VariantRequired,
			&l.VariantFound,
			&l.VariantActive,
			&variantStock,
			&variantAdjustment,
		); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}

		l.UnitPrice = price
		l.Available = productStock
		if l.VariantRequired {
			l.UnitPrice += variantAdjustment
			l.Available = variantStock
		}
		if !l.Purchasable() {
			l.Available = 0
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}
	return lines, nil
}

func (r *CartRepository) ListItems(ctx context.Context, owner string) ([]domain.CartItem, error) {
	rows, err := r.db.Query(ctx, `SELECT `+cartItemColumns+`
		FROM cart_items WHERE owner_key = $1
		ORDER BY created_at, id`, owner)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		c, err := scanCartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}
	return items, nil
}

// GetItem returns NotFound for items that exist under a different owner.
func (r *CartRepository) GetItem(ctx context.Context, owner, itemID string) (*domain.CartItem, error) {
	c, err := scanCartItem(r.db.QueryRow(ctx, `SELECT `+cartItemColumns+`
		FROM cart_items WHERE id = $1 AND owner_key = $2`, itemID, owner))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("cart item", itemID)
		}
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return &c, nil
}

func (r *CartRepository) AddQuantity(ctx context.Context, item *domain.CartItem, limit int) (*domain.CartItem, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now().UTC()

	out, err := scanCartItem(r.db.QueryRow(ctx, `
		INSERT INTO cart_items (id, owner_key, product_id, selected_size, selected_color, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, LEAST($6::int, $7::int), $8, $8)
		ON CONFLICT (owner_key, product_id, selected_size, selected_color)
		DO UPDATE SET quantity = LEAST(cart_items.quantity + EXCLUDED.quantity, $7::int),
		              updated_at = EXCLUDED.updated_at
		RETURNING `+cartItemColumns,
		item.ID, item.OwnerKey, item.ProductID, item.SelectedSize, item.SelectedColor, item.Quantity, limit, now,
	))
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, apperrors.NotFound("product", item.ProductID)
		}
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}
	return &out, nil
}

func (r *CartRepository) SetQuantity(ctx context.Context, owner, itemID string, quantity int) (*domain.CartItem, error) {
	c, err := scanCartItem(r.db.QueryRow(ctx, `
		UPDATE cart_items SET quantity = $1, updated_at = $2
		WHERE id = $3 AND owner_key = $4
		RETURNING `+cartItemColumns, quantity, time.Now().UTC(), itemID, owner))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("cart item", itemID)
		}
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return &c, nil
}

func (r *CartRepository) DeleteItem(ctx context.Context, owner, itemID string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND owner_key = $2`, itemID, owner)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("cart item", itemID)
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, owner string) (int, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE owner_key = $1`, owner)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return int(ct.RowsAffected()), nil
}

// ReplaceOwner empties from and writes merged with absolute quantities.
func (r *CartRepository) ReplaceOwner(ctx context.Context, from string, merged []domain.CartItem) error {
	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE owner_key = $1`, from); err != nil {
			return fmt.Errorf("clear guest cart: %w", err)
		}
		now := time.Now().UTC()
		for _, c := range merged {
			id := c.ID
			if id == "" {
				id = uuid.New().String()
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO cart_items (id, owner_key, product_id, selected_size, selected_color, quantity, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
				ON CONFLICT (owner_key, product_id, selected_size, selected_color)
				DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`,
				id, c.OwnerKey, c.ProductID, c.SelectedSize, c.SelectedColor, c.Quantity, now,
			); err != nil {
				return fmt.Errorf("merge cart item: %w", err)
			}
		}
		return nil
	})
}
