package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/pkg/database"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

const imageColumns = `id, product_id, url, alt_text, sort_order, is_primary, storage_key, created_at`

// ImageRepository implements repository.ImageRepository. Primary changes
// always clear the old flag before setting the new one so the partial unique
// index on (product_id) WHERE is_primary is never violated mid-transaction.
type ImageRepository struct {
	db database.DBTX
}

func NewImageRepository(db database.DBTX) *ImageRepository {
	return &ImageRepository{db: db}
}

func scanImage(row rowScanner) (domain.ProductImage, error) {
	var img domain.ProductImage
	err := row.Scan(&img.ID, &img.ProductID, &img.URL, &img.AltText, &img.SortOrder,
		&img.IsPrimary, &img.StorageKey, &img.CreatedAt)
	return img, err
}

func (r *ImageRepository) ListByProduct(ctx context.Context, productID string) ([]domain.ProductImage, error) {
	return listImages(ctx, r.db, productID)
}

func listImages(ctx context.Context, db database.DBTX, productID string) ([]domain.ProductImage, error) {
	rows, err := db.Query(ctx, `SELECT `+imageColumns+`
		FROM product_images
		WHERE product_id = $1
		ORDER BY sort_order, created_at`, productID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	images := []domain.ProductImage{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate images: %w", err)
	}
	return images, nil
}

func (r *ImageRepository) GetByID(ctx context.Context, productID, imageID string) (*domain.ProductImage, error) {
	img, err := scanImage(r.db.QueryRow(ctx, `SELECT `+imageColumns+`
		FROM product_images
		WHERE id = $1 AND product_id = $2`, imageID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("image", imageID)
		}
		return nil, fmt.Errorf("get image: %w", err)
	}
	return &img, nil
}

func lockProduct(ctx context.Context, tx pgx.Tx, productID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("product", productID)
	}
	if err != nil {
		return fmt.Errorf("lock product: %w", err)
	}
	return nil
}

// Add appends img after the product's last image. The product row is locked
// so concurrent uploads cannot both become primary.
func (r *ImageRepository) Add(ctx context.Context, img *domain.ProductImage) error {
	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockProduct(ctx, tx, img.ProductID); err != nil {
			return err
		}

		var count, next int
		if err := tx.QueryRow(ctx, `
			SELECT COUNT(*), COALESCE(MAX(sort_order) + 1, 0)
			FROM product_images WHERE product_id = $1`, img.ProductID).Scan(&count, &next); err != nil {
			return fmt.Errorf("count images: %w", err)
		}
		img.SortOrder = next
		img.IsPrimary = count == 0

		if _, err := tx.Exec(ctx, `
			INSERT INTO product_images (id, product_id, url, alt_text, sort_order, is_primary, storage_key, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			img.ID, img.ProductID, img.URL, img.AltText, img.SortOrder, img.IsPrimary, img.StorageKey, img.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert image: %w", err)
		}
		return nil
	})
}

func (r *ImageRepository) SetPrimary(ctx context.Context, productID, imageID string) error {
	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockProduct(ctx, tx, productID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE product_images SET is_primary = FALSE WHERE product_id = $1 AND is_primary`, productID); err != nil {
			return fmt.Errorf("clear primary: %w", err)
		}
		ct, err := tx.Exec(ctx, `UPDATE product_images SET is_primary = TRUE WHERE id = $1 AND product_id = $2`, imageID, productID)
		if err != nil {
			return fmt.Errorf("set primary: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return apperrors.NotFound("image", imageID)
		}
		return nil
	})
}

// Reorder writes the given images' positions and flags. The caller supplies
// the full, normalized set.
func (r *ImageRepository) Reorder(ctx context.Context, productID string, images []domain.ProductImage) error {
	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockProduct(ctx, tx, productID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE product_images SET is_primary = FALSE WHERE product_id = $1 AND is_primary`, productID); err != nil {
			return fmt.Errorf("clear primary: %w", err)
		}
		for _, img := range images {
			ct, err := tx.Exec(ctx, `
				UPDATE product_images SET sort_order = $1, alt_text = $2, is_primary = $3
				WHERE id = $4 AND product_id = $5`,
				img.SortOrder, img.AltText, img.IsPrimary, img.ID, productID)
			if err != nil {
				return fmt.Errorf("update image %s: %w", img.ID, err)
			}
			if ct.RowsAffected() == 0 {
				return apperrors.NotFound("image", img.ID)
			}
		}
		return nil
	})
}

// Delete removes the image and, when it was primary, promotes the first
// remaining image by sort order.
func (r *ImageRepository) Delete(ctx context.Context, productID, imageID string) (*domain.ProductImage, error) {
	var deleted domain.ProductImage
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockProduct(ctx, tx, productID); err != nil {
			return err
		}
		img, err := scanImage(tx.QueryRow(ctx, `
			DELETE FROM product_images WHERE id = $1 AND product_id = $2
			RETURNING `+imageColumns, imageID, productID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("image", imageID)
			}
			return fmt.Errorf("delete image: %w", err)
		}
		deleted = img

		if !img.IsPrimary {
			return nil
		}
		if _, err := tx.Exec(ctx, `
			UPDATE product_images SET is_primary = TRUE
			WHERE id = (
				SELECT id FROM product_images WHERE product_id = $1
				ORDER BY sort_order, created_at LIMIT 1
			)`, productID); err != nil {
			return fmt.Errorf("promote primary: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}
