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

const variantColumns = `id, product_id, size, color, stock_quantity, price_adjustment, is_active, created_at, updated_at`

// VariantRepository implements repository.VariantRepository.
type VariantRepository struct {
	db database.DBTX
}

func NewVariantRepository(db database.DBTX) *VariantRepository {
	return &VariantRepository{db: db}
}

func scanVariant(row rowScanner) (domain.Variant, error) {
	var v domain.Variant
	err := row.Scan(&v.ID, &v.ProductID, &v.Size, &v.Color, &v.StockQuantity,
		&v.PriceAdjustment, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

// ListByProduct returns variants in the order they were generated.
func (r *VariantRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Variant, error) {
	return listVariants(ctx, r.db, productID)
}

func listVariants(ctx context.Context, db database.DBTX, productID string) ([]domain.Variant, error) {
	rows, err := db.Query(ctx, `SELECT `+variantColumns+`
		FROM product_variants
		WHERE product_id = $1
		ORDER BY created_at, id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	variants := []domain.Variant{}
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variants: %w", err)
	}
	return variants, nil
}

func (r *VariantRepository) GetByID(ctx context.Context, productID, variantID string) (*domain.Variant, error) {
	v, err := scanVariant(r.db.QueryRow(ctx, `SELECT `+variantColumns+`
		FROM product_variants
		WHERE id = $1 AND product_id = $2`, variantID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("variant", variantID)
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return &v, nil
}

// Replace deletes variants no longer in the list, upserts the rest in order
// and updates the product's labels and stock, all in one transaction. Rows
// are written with increasing created_at so ListByProduct returns them in
// generation order.
func (r *VariantRepository) Replace(ctx context.Context, productID string, sizes, colors []string, variants []domain.Variant) ([]domain.Variant, int, error) {
	var (
		stored []domain.Variant
		stock  int
	)
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT stock_quantity FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&stock); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("product", productID)
			}
			return fmt.Errorf("lock product: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM product_variants WHERE product_id = $1`, productID); err != nil {
			return fmt.Errorf("delete variants: %w", err)
		}

		base := time.Now().UTC()
		for i, v := range variants {
			if v.ID == "" {
				v.ID = uuid.New().String()
			}
			created := base.Add(time.Duration(i) * time.Microsecond)
			if _, err := tx.Exec(ctx, `
				INSERT INTO product_variants (id, product_id, size, color, stock_quantity, price_adjustment, is_active, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				v.ID, productID, v.Size, v.Color, v.StockQuantity, v.PriceAdjustment, v.IsActive, created, base,
			); err != nil {
				return fmt.Errorf("insert variant %s: %w", v.Key(), err)
			}
			v.ProductID, v.CreatedAt, v.UpdatedAt = productID, created, base
			stored = append(stored, v)
		}

		if len(variants) > 0 {
			stock = domain.TotalStock(variants)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE products SET sizes = $1, colors = $2, stock_quantity = $3, updated_at = $4
			WHERE id = $5`, sizes, colors, stock, base, productID); err != nil {
			return fmt.Errorf("update product variants summary: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if stored == nil {
		stored = []domain.Variant{}
	}
	return stored, stock, nil
}

// Update saves one variant and resyncs product stock to the variant total.
func (r *VariantRepository) Update(ctx context.Context, v *domain.Variant) (int, error) {
	var stock int
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		v.UpdatedAt = time.Now().UTC()
		ct, err := tx.Exec(ctx, `
			UPDATE product_variants
			SET stock_quantity = $1, price_adjustment = $2, is_active = $3, updated_at = $4
			WHERE id = $5 AND product_id = $6`,
			v.StockQuantity, v.PriceAdjustment, v.IsActive, v.UpdatedAt, v.ID, v.ProductID)
		if err != nil {
			return fmt.Errorf("update variant: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return apperrors.NotFound("variant", v.ID)
		}

		if err := tx.QueryRow(ctx, `
			UPDATE products
			SET stock_quantity = (SELECT COALESCE(SUM(stock_quantity), 0) FROM product_variants WHERE product_id = $1),
			    updated_at = $2
			WHERE id = $1
			RETURNING stock_quantity`, v.ProductID, v.UpdatedAt).Scan(&stock); err != nil {
			return fmt.Errorf("sync product stock: %w", err)
		}
		return nil
	})
	return stock, err
}
