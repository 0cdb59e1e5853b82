package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/pkg/database"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

const categoryColumns = `c.id, c.name, c.slug, c.description, c.image_url, c.sort_order, c.is_active,
	(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id) AS product_count,
	c.created_at, c.updated_at`

// CategoryRepository implements repository.CategoryRepository.
type CategoryRepository struct {
	db database.DBTX
}

func NewCategoryRepository(db database.DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func scanCategory(row rowScanner) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.SortOrder,
		&c.IsActive, &c.ProductCount, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO categories (id, name, slug, description, image_url, sort_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Name, c.Slug, c.Description, c.ImageURL, c.SortOrder, c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "slug", c.Slug)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	return r.getOne(ctx, "c.id = $1", id)
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.getOne(ctx, "c.slug = $1", slug)
}

func (r *CategoryRepository) getOne(ctx context.Context, cond, arg string) (*domain.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories c WHERE `+cond, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("category", arg)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories c`
	if activeOnly {
		query += ` WHERE c.is_active`
	}
	query += ` ORDER BY c.sort_order, c.name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	c.UpdatedAt = time.Now().UTC()
	ct, err := r.db.Exec(ctx, `
		UPDATE categories
		SET name = $1, slug = $2, description = $3, image_url = $4, sort_order = $5, is_active = $6, updated_at = $7
		WHERE id = $8`,
		c.Name, c.Slug, c.Description, c.ImageURL, c.SortOrder, c.IsActive, c.UpdatedAt, c.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "slug", c.Slug)
		}
		return fmt.Errorf("update category: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", c.ID)
	}
	return nil
}

// Delete fails with Conflict while products still reference the category.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperrors.Conflict("category still has products; move or delete them first")
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", id)
	}
	return nil
}

func (r *CategoryRepository) BulkApply(ctx context.Context, ids []string, action string) (int, error) {
	var affected int
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := requireAll(ctx, tx, "categories", "category", ids); err != nil {
			return err
		}

		var (
			sql  string
			args []any
		)
		if action == domain.BulkDelete {
			sql, args = `DELETE FROM categories WHERE id = ANY($1)`, []any{ids}
		} else {
			upd, ok := domain.CategoryBulkFlag(action)
			if !ok {
				return apperrors.InvalidInput("unknown bulk action: " + action)
			}
			sql = fmt.Sprintf(`UPDATE categories SET %s = $1, updated_at = NOW() WHERE id = ANY($2)`, upd.Column)
			args = []any{upd.Value, ids}
		}

		ct, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return apperrors.Conflict("one or more categories still have products")
			}
			return fmt.Errorf("bulk %s categories: %w", action, err)
		}
		affected = int(ct.RowsAffected())
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
