package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/event"
	"github.com/KartikVerma96/paregrose/internal/repository"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
	"github.com/KartikVerma96/paregrose/pkg/slug"
)

// CategoryService is the back-office side of categories and subcategories.
type CategoryService struct {
	categories    repository.CategoryRepository
	subcategories repository.SubcategoryRepository
	events        *event.Emitter
	logger        *slog.Logger
}

func NewCategoryService(categories repository.CategoryRepository, subcategories repository.SubcategoryRepository, events *event.Emitter, logger *slog.Logger) *CategoryService {
	return &CategoryService{categories: categories, subcategories: subcategories, events: events, logger: logger}
}

// List returns every category, inactive ones included, with all of their
// subcategories.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	subs, err := s.subcategories.List(ctx, repository.SubcategoryFilter{})
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	return domain.AttachSubcategories(categories, subs), nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	subs, err := s.subcategories.List(ctx, repository.SubcategoryFilter{CategoryID: &c.ID})
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	return &domain.AttachSubcategories([]domain.Category{*c}, subs)[0], nil
}

func (s *CategoryService) Create(ctx context.Context, in domain.CreateCategoryInput) (*domain.Category, error) {
	categorySlug, err := slugOrName(in.Slug, in.Name)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &domain.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Slug:        categorySlug,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		SortOrder:   in.SortOrder,
		IsActive:    boolOr(in.IsActive, true),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", c.ID),
		slog.String("slug", c.Slug),
	)
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in domain.UpdateCategoryInput) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Slug != nil {
		if c.Slug, err = slugOrName(*in.Slug, c.Name); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.ImageURL != nil {
		c.ImageURL = *in.ImageURL
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// Delete fails with a conflict while products still reference the category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.logger.InfoContext(ctx, "category deleted", slog.String("category_id", id))
	return nil
}

func (s *CategoryService) Bulk(ctx context.Context, in domain.BulkInput) (*domain.BulkResult, error) {
	if !domain.ValidCategoryBulkAction(in.Action) {
		return nil, apperrors.InvalidInput("unknown bulk action: " + in.Action)
	}
	if len(in.IDs) == 0 || len(in.IDs) > domain.MaxBulkIDs {
		return nil, apperrors.InvalidInput(fmt.Sprintf("ids must contain between 1 and %d entries", domain.MaxBulkIDs))
	}
	ids, err := normalizeIDs(in.IDs)
	if err != nil {
		return nil, err
	}
	affected, err := s.categories.BulkApply(ctx, ids, in.Action)
	if err != nil {
		return nil, fmt.Errorf("bulk %s categories: %w", in.Action, err)
	}
	s.events.BulkApplied(ctx, "category", in.Action, ids, affected)
	return &domain.BulkResult{Action: in.Action, Affected: affected}, nil
}

// ListSubcategories returns subcategories of any status, optionally of one
// category.
func (s *CategoryService) ListSubcategories(ctx context.Context, categoryID *string) ([]domain.Subcategory, error) {
	subs, err := s.subcategories.List(ctx, repository.SubcategoryFilter{CategoryID: categoryID})
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	return subs, nil
}

func (s *CategoryService) GetSubcategory(ctx context.Context, id string) (*domain.Subcategory, error) {
	sub, err := s.subcategories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get subcategory: %w", err)
	}
	return sub, nil
}

func (s *CategoryService) CreateSubcategory(ctx context.Context, in domain.CreateSubcategoryInput) (*domain.Subcategory, error) {
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	subSlug, err := slugOrName(in.Slug, in.Name)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sub := &domain.Subcategory{
		ID:          uuid.New().String(),
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Slug:        subSlug,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		SortOrder:   in.SortOrder,
		IsActive:    boolOr(in.IsActive, true),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.subcategories.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}

	s.logger.InfoContext(ctx, "subcategory created",
		slog.String("subcategory_id", sub.ID),
		slog.String("category_id", sub.CategoryID),
	)
	return sub, nil
}

func (s *CategoryService) UpdateSubcategory(ctx context.Context, id string, in domain.UpdateSubcategoryInput) (*domain.Subcategory, error) {
	sub, err := s.subcategories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get subcategory: %w", err)
	}
	if in.CategoryID != nil && *in.CategoryID != sub.CategoryID {
		if err := s.requireCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		sub.CategoryID = *in.CategoryID
	}
	if in.Name != nil {
		sub.Name = *in.Name
	}
	if in.Slug != nil {
		if sub.Slug, err = slugOrName(*in.Slug, sub.Name); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		sub.Description = *in.Description
	}
	if in.ImageURL != nil {
		sub.ImageURL = *in.ImageURL
	}
	if in.SortOrder != nil {
		sub.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		sub.IsActive = *in.IsActive
	}
	if err := s.subcategories.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("update subcategory: %w", err)
	}
	return sub, nil
}

// DeleteSubcategory detaches its products rather than failing.
func (s *CategoryService) DeleteSubcategory(ctx context.Context, id string) error {
	if err := s.subcategories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	return nil
}

func (s *CategoryService) requireCategory(ctx context.Context, id string) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.InvalidInput("category does not exist")
		}
		return fmt.Errorf("get category: %w", err)
	}
	return nil
}

// slugOrName returns explicit when set, else the slug of name.
func slugOrName(explicit, name string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if s := slug.Generate(name); s != "" {
		return s, nil
	}
	return "", apperrors.InvalidInput("name must contain at least one letter or digit")
}
