package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/repository"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
	"github.com/KartikVerma96/paregrose/pkg/pagination"
)

// CatalogService serves the storefront's read-only catalog. Inactive
// products, categories and subcategories are invisible here.
type CatalogService struct {
	products      repository.ProductRepository
	categories    repository.CategoryRepository
	subcategories repository.SubcategoryRepository
	variants      repository.VariantRepository
	images        repository.ImageRepository
	logger        *slog.Logger
}

func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	subcategories repository.SubcategoryRepository,
	variants repository.VariantRepository,
	images repository.ImageRepository,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		products:      products,
		categories:    categories,
		subcategories: subcategories,
		variants:      variants,
		images:        images,
		logger:        logger,
	}
}

// ListProducts returns one page of active products.
func (s *CatalogService) ListProducts(ctx context.Context, f repository.ProductFilter) (pagination.Result[domain.Product], error) {
	if f.Sort != "" && !domain.ValidProductSort(f.Sort) {
		return pagination.Result[domain.Product]{}, apperrors.InvalidInput("unknown sort: " + f.Sort)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return pagination.Result[domain.Product]{}, apperrors.InvalidInput("min_price must not exceed max_price")
	}
	params := pagination.New(f.Page, f.PerPage)
	f.Page, f.PerPage = params.Page, params.PerPage
	f.ActiveOnly = true
	f.IsActive = nil
	f.Stock = ""

	products, total, err := s.products.List(ctx, f)
	if err != nil {
		return pagination.Result[domain.Product]{}, fmt.Errorf("list products: %w", err)
	}
	return pagination.NewResult(products, total, params), nil
}

// ProductDetail returns an active product by slug with its active variants.
func (s *CatalogService) ProductDetail(ctx context.Context, slug string) (*domain.ProductDetail, error) {
	p, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if !p.IsActive {
		return nil, apperrors.NotFound("product", slug)
	}
	return buildDetail(ctx, p, s.categories, s.subcategories, s.variants, s.images, true)
}

// Categories returns active categories, each with its active subcategories.
func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	subs, err := s.subcategories.List(ctx, repository.SubcategoryFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	return domain.AttachSubcategories(categories, subs), nil
}

func (s *CatalogService) CategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	c, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if !c.IsActive {
		return nil, apperrors.NotFound("category", slug)
	}
	subs, err := s.subcategories.List(ctx, repository.SubcategoryFilter{CategoryID: &c.ID, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	return &domain.AttachSubcategories([]domain.Category{*c}, subs)[0], nil
}

// Subcategories lists active subcategories, optionally of one category.
func (s *CatalogService) Subcategories(ctx context.Context, categoryID *string) ([]domain.Subcategory, error) {
	subs, err := s.subcategories.List(ctx, repository.SubcategoryFilter{CategoryID: categoryID, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	return subs, nil
}

// buildDetail assembles the product detail view. A dangling category or
// subcategory reference is left nil rather than failing the request.
func buildDetail(
	ctx context.Context,
	p *domain.Product,
	categories repository.CategoryRepository,
	subcategories repository.SubcategoryRepository,
	variants repository.VariantRepository,
	images repository.ImageRepository,
	activeOnly bool,
) (*domain.ProductDetail, error) {
	d := &domain.ProductDetail{
		Product:         *p,
		DiscountPercent: p.DiscountPercent(),
		Layout:          domain.VariantLayout(p.Sizes, p.Colors),
	}

	c, err := categories.GetByID(ctx, p.CategoryID)
	switch {
	case err == nil:
		d.Category = c
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("get product category: %w", err)
	}

	if p.SubcategoryID != nil {
		sub, err := subcategories.GetByID(ctx, *p.SubcategoryID)
		switch {
		case err == nil:
			if !activeOnly || sub.IsActive {
				d.Subcategory = sub
			}
		case !errors.Is(err, apperrors.ErrNotFound):
			return nil, fmt.Errorf("get product subcategory: %w", err)
		}
	}

	if d.Images, err = images.ListByProduct(ctx, p.ID); err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	if primary, ok := domain.PrimaryImage(d.Images); ok {
		d.PrimaryImageURL = primary.URL
	}

	if d.Variants, err = variants.ListByProduct(ctx, p.ID); err != nil {
		return nil, fmt.Errorf("list product variants: %w", err)
	}
	if activeOnly {
		d.Variants = domain.ActiveVariants(d.Variants)
	}
	return d, nil
}
