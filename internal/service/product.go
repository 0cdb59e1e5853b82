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
	"github.com/KartikVerma96/paregrose/internal/storage"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
	"github.com/KartikVerma96/paregrose/pkg/pagination"
)

// ProductService implements back-office product management.
type ProductService struct {
	products      repository.ProductRepository
	categories    repository.CategoryRepository
	subcategories repository.SubcategoryRepository
	variants      repository.VariantRepository
	images        repository.ImageRepository
	settings      settingsReader
	storage       storage.Storage
	events        *event.Emitter
	logger        *slog.Logger
}

type ProductServiceDeps struct {
	Products      repository.ProductRepository
	Categories    repository.CategoryRepository
	Subcategories repository.SubcategoryRepository
	Variants      repository.VariantRepository
	Images        repository.ImageRepository
	Settings      settingsReader
	Storage       storage.Storage
	Events        *event.Emitter
	Logger        *slog.Logger
}

func NewProductService(d ProductServiceDeps) *ProductService {
	return &ProductService{
		products:      d.Products,
		categories:    d.Categories,
		subcategories: d.Subcategories,
		variants:      d.Variants,
		images:        d.Images,
		settings:      d.Settings,
		storage:       d.Storage,
		events:        d.Events,
		logger:        d.Logger,
	}
}

// List returns products regardless of status. The "low" stock filter uses
// the store's low-stock threshold.
func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) (pagination.Result[domain.Product], error) {
	if f.Sort != "" && !domain.ValidProductSort(f.Sort) {
		return pagination.Result[domain.Product]{}, apperrors.InvalidInput("unknown sort: " + f.Sort)
	}
	switch f.Stock {
	case "", domain.StockOut:
	case domain.StockLow:
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return pagination.Result[domain.Product]{}, err
		}
		f.LowStockThreshold = settings.LowStockThreshold
	default:
		return pagination.Result[domain.Product]{}, apperrors.InvalidInput("stock must be low or out")
	}
	params := pagination.New(f.Page, f.PerPage)
	f.Page, f.PerPage = params.Page, params.PerPage
	f.ActiveOnly = false

	products, total, err := s.products.List(ctx, f)
	if err != nil {
		return pagination.Result[domain.Product]{}, fmt.Errorf("list products: %w", err)
	}
	return pagination.NewResult(products, total, params), nil
}

// Get returns the full admin view of a product, inactive variants included.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.ProductDetail, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return buildDetail(ctx, p, s.categories, s.subcategories, s.variants, s.images, false)
}

func (s *ProductService) Create(ctx context.Context, in domain.CreateProductInput) (*domain.Product, error) {
	productSlug, err := slugOrName(in.Slug, in.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Slug:          productSlug,
		Description:   in.Description,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		StockQuantity: in.StockQuantity,
		Sizes:         domain.CleanLabels(in.Sizes),
		Colors:        domain.CleanLabels(in.Colors),
		Fabric:        in.Fabric,
		IsFeatured:    in.IsFeatured,
		IsBestseller:  in.IsBestseller,
		IsNew:         in.IsNew,
		IsActive:      boolOr(in.IsActive, true),
		CategoryID:    in.CategoryID,
		SubcategoryID: in.SubcategoryID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	hasVariants := len(p.Sizes) > 0 || len(p.Colors) > 0
	if hasVariants && p.StockQuantity != 0 {
		return nil, apperrors.InvalidInput("stock is managed per variant for this product")
	}
	if err := s.checkProduct(ctx, p); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	if hasVariants {
		variants := domain.RegenerateVariants(nil, p.Sizes, p.Colors)
		_, stock, err := s.variants.Replace(ctx, p.ID, p.Sizes, p.Colors, variants)
		if err != nil {
			if delErr := s.products.Delete(ctx, p.ID); delErr != nil {
				s.logger.ErrorContext(ctx, "failed to remove product after variant error",
					slog.String("product_id", p.ID),
					slog.String("error", delErr.Error()),
				)
			}
			return nil, fmt.Errorf("create variants: %w", err)
		}
		p.StockQuantity = stock
	}
	s.events.ProductCreated(ctx, p)

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", p.ID),
		slog.String("slug", p.Slug),
	)
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, in domain.UpdateProductInput) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Slug != nil {
		if p.Slug, err = slugOrName(*in.Slug, p.Name); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	switch {
	case in.ClearOriginal:
		p.OriginalPrice = nil
	case in.OriginalPrice != nil:
		p.OriginalPrice = in.OriginalPrice
	}
	if in.StockQuantity != nil {
		variants, err := s.variants.ListByProduct(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("list variants: %w", err)
		}
		if len(variants) > 0 && *in.StockQuantity != p.StockQuantity {
			return nil, apperrors.InvalidInput("stock is managed per variant for this product")
		}
		p.StockQuantity = *in.StockQuantity
	}
	if in.Fabric != nil {
		p.Fabric = *in.Fabric
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.IsBestseller != nil {
		p.IsBestseller = *in.IsBestseller
	}
	if in.IsNew != nil {
		p.IsNew = *in.IsNew
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	switch {
	case in.ClearSubcategory:
		p.SubcategoryID = nil
	case in.SubcategoryID != nil:
		p.SubcategoryID = in.SubcategoryID
	}

	if err := s.checkProduct(ctx, p); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.events.ProductUpdated(ctx, p)

	s.logger.InfoContext(ctx, "product updated", slog.String("product_id", p.ID))
	return p, nil
}

// checkProduct enforces the compare-at price rule and that the subcategory,
// when set, belongs to the product's category.
func (s *ProductService) checkProduct(ctx context.Context, p *domain.Product) error {
	if p.OriginalPrice != nil && *p.OriginalPrice < p.Price {
		return apperrors.InvalidInput("original_price must be greater than or equal to price")
	}

	if _, err := s.categories.GetByID(ctx, p.CategoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.InvalidInput("category does not exist")
		}
		return fmt.Errorf("get category: %w", err)
	}

	if p.SubcategoryID == nil {
		return nil
	}
	sub, err := s.subcategories.GetByID(ctx, *p.SubcategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.InvalidInput("subcategory does not exist")
		}
		return fmt.Errorf("get subcategory: %w", err)
	}
	if sub.CategoryID != p.CategoryID {
		return apperrors.InvalidInput("subcategory does not belong to the product's category")
	}
	return nil
}

// Delete removes the product; images and variants cascade. Stored image
// objects are removed afterwards on a best-effort basis.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	keys := s.storedImageKeys(ctx, []string{id})
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.deleteObjects(ctx, keys)
	s.events.ProductDeleted(ctx, id)

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))
	return nil
}

// Bulk applies one action to many products in a single transaction. Any
// unknown id aborts the whole request.
func (s *ProductService) Bulk(ctx context.Context, in domain.BulkInput) (*domain.BulkResult, error) {
	if !domain.ValidProductBulkAction(in.Action) {
		return nil, apperrors.InvalidInput("unknown bulk action: " + in.Action)
	}
	if len(in.IDs) == 0 || len(in.IDs) > domain.MaxBulkIDs {
		return nil, apperrors.InvalidInput(fmt.Sprintf("ids must contain between 1 and %d entries", domain.MaxBulkIDs))
	}
	ids, err := normalizeIDs(in.IDs)
	if err != nil {
		return nil, err
	}

	var keys []string
	if in.Action == domain.BulkDelete {
		keys = s.storedImageKeys(ctx, ids)
	}

	affected, err := s.products.BulkApply(ctx, ids, in.Action)
	if err != nil {
		return nil, fmt.Errorf("bulk %s products: %w", in.Action, err)
	}
	s.deleteObjects(ctx, keys)
	s.events.BulkApplied(ctx, "product", in.Action, ids, affected)

	s.logger.InfoContext(ctx, "product bulk action applied",
		slog.String("action", in.Action),
		slog.Int("affected", affected),
	)
	return &domain.BulkResult{Action: in.Action, Affected: affected}, nil
}

func (s *ProductService) storedImageKeys(ctx context.Context, productIDs []string) []string {
	if s.storage == nil {
		return nil
	}
	var keys []string
	for _, id := range productIDs {
		images, err := s.images.ListByProduct(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to list images before delete",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		for _, img := range images {
			if img.StorageKey != nil {
				keys = append(keys, *img.StorageKey)
			}
		}
	}
	return keys
}

func (s *ProductService) deleteObjects(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "failed to delete stored image",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
}
