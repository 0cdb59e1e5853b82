package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/repository"
	"github.com/KartikVerma96/paregrose/pkg/database"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

const subcategoryColumns = `id, category_id, name, slug, description, image_url, sort_order, is_active, created_at, updated_at`

// SubcategoryRepository implements repository.SubcategoryRepository.
type SubcategoryRepository struct {
	db database.DBTX
}

func NewSubcategoryRepository(db database.DBTX) *SubcategoryRepository {
	return &SubcategoryRepository{db: db}
}

func scanSubcategory(row rowScanner) (domain.Subcategory, error) {
	var s domain.Subcategory
	err := row.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Slug, &s.Description, &s.ImageURL,
		&s.SortOrder, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func subcategoryWriteError(err error, s *domain.Subcategory) error {
	switch {
	case database.IsUniqueViolation(err):
		return apperrors.AlreadyExists("subcategory", "slug", s.Slug)
	case database.IsForeignKeyViolation(err):
		return apperrors.NotFound("category", s.CategoryID)
	}
	return err
}

func (r *SubcategoryRepository) Create(ctx context.Context, s *domain.Subcategory) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO subcategories (id, category_id, name, slug, description, image_url, sort_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.CategoryID, s.Name, s.Slug, s.Description, s.ImageURL, s.SortOrder, s.IsActive, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert subcategory: %w", subcategoryWriteError(err, s))
	}
	return nil
}

func (r *SubcategoryRepository) GetByID(ctx context.Context, id string) (*domain.Subcategory, error) {
	s, err := scanSubcategory(r.db.QueryRow(ctx, `SELECT `+subcategoryColumns+` FROM subcategories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("subcategory", id)
		}
		return nil, fmt.Errorf("get subcategory: %w", err)
	}
	return &s, nil
}

func (r *SubcategoryRepository) GetBySlug(ctx context.Context, categoryID, slug string) (*domain.Subcategory, error) {
	s, err := scanSubcategory(r.db.QueryRow(ctx, `SELECT `+subcategoryColumns+`
		FROM subcategories WHERE category_id = $1 AND slug = $2`, categoryID, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("subcategory", slug)
		}
		return nil, fmt.Errorf("get subcategory by slug: %w", err)
	}
	return &s, nil
}

func (r *SubcategoryRepository) List(ctx context.Context, f repository.SubcategoryFilter) ([]domain.Subcategory, error) {
	var w whereBuilder
	if f.CategoryID != nil {
		w.add("category_id = $%d", *f.CategoryID)
	}
	if f.ActiveOnly {
		w.addRaw("is_active")
	}

	rows, err := r.db.Query(ctx, `SELECT `+subcategoryColumns+` FROM subcategories `+w.clause()+`
		ORDER BY sort_order, name`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	subs := []domain.Subcategory{}
	for rows.Next() {
		s, err := scanSubcategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subcategories: %w", err)
	}
	return subs, nil
}

func (r *SubcategoryRepository) Update(ctx context.Context, s *domain.Subcategory) error {
	s.UpdatedAt = time.Now().UTC()
	ct, err := r.db.Exec(ctx, `
		UPDATE subcategories
		SET category_id = $1, name = $2, slug = $3, description = $4, image_url = $5,
		    sort_order = $6, is_active = $7, updated_at = $8
		WHERE id = $9`,
		s.CategoryID, s.Name, s.Slug, s.Description, s.ImageURL, s.SortOrder, s.IsActive, s.UpdatedAt, s.ID)
	if err != nil {
		return fmt.Errorf("update subcategory: %w", subcategoryWriteError(err, s))
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("subcategory", s.ID)
	}
	return nil
}

// Delete removes the subcategory; products keep their category and lose the
// subcategory through ON DELETE SET NULL.
func (r *SubcategoryRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM subcategories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("subcategory", id)
	}
	return nil
}
