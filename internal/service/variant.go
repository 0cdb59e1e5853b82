package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/event"
	"github.com/KartikVerma96/paregrose/internal/repository"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

// VariantMatrix is the editor view of a product's variants.
type VariantMatrix struct {
	Sizes    []string         `json:"sizes"`
	Colors   []string         `json:"colors"`
	Variants []domain.Variant `json:"variants"`
	Layout   string           `json:"layout"`
	Warning  string           `json:"warning,omitempty"`
	Stock    int              `json:"stock_quantity"`
}

// SaveVariantsInput replaces a product's size and color labels. Variants
// carry per-combination overrides; combinations and fields not listed keep
// their stored values.
type SaveVariantsInput struct {
	Sizes    []string                 `json:"sizes" validate:"max=50,dive,max=50"`
	Colors   []string                 `json:"colors" validate:"max=50,dive,max=50"`
	Variants []domain.VariantOverride `json:"variants" validate:"max=2500,dive"`
}

type VariantService struct {
	products repository.ProductRepository
	variants repository.VariantRepository
	events   *event.Emitter
	logger   *slog.Logger
}

func NewVariantService(products repository.ProductRepository, variants repository.VariantRepository, events *event.Emitter, logger *slog.Logger) *VariantService {
	return &VariantService{products: products, variants: variants, events: events, logger: logger}
}

// Preview regenerates the matrix for the given labels without saving it.
// Values in current carry over for combinations that survive.
func Preview(sizes, colors []string, current []domain.Variant) *VariantMatrix {
	sizes = domain.CleanLabels(sizes)
	colors = domain.CleanLabels(colors)
	variants := domain.RegenerateVariants(current, sizes, colors)
	m := &VariantMatrix{
		Sizes:    sizes,
		Colors:   colors,
		Variants: variants,
		Layout:   domain.VariantLayout(sizes, colors),
		Stock:    domain.TotalStock(variants),
	}
	if m.Layout == domain.LayoutNone {
		m.Warning = domain.NoVariantsWarning
	}
	return m
}

// Preview is the unsaved editor preview. Supplied variants seed the
// regeneration so edited values survive a label change.
func (s *VariantService) Preview(in SaveVariantsInput) *VariantMatrix {
	return Preview(in.Sizes, in.Colors, domain.OverlayVariants(nil, in.Variants))
}

func (s *VariantService) List(ctx context.Context, productID string) (*VariantMatrix, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	variants, err := s.variants.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	m := &VariantMatrix{
		Sizes:    p.Sizes,
		Colors:   p.Colors,
		Variants: variants,
		Layout:   domain.VariantLayout(p.Sizes, p.Colors),
		Stock:    p.StockQuantity,
	}
	if m.Layout == domain.LayoutNone {
		m.Warning = domain.NoVariantsWarning
	}
	return m, nil
}

// Save regenerates and stores the product's variants. When the result has
// variants, product stock becomes their sum.
func (s *VariantService) Save(ctx context.Context, productID string, in SaveVariantsInput) (*VariantMatrix, error) {
	stored, err := s.stored(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, v := range in.Variants {
		if v.StockQuantity != nil && *v.StockQuantity < 0 {
			return nil, apperrors.InvalidInput("variant stock must not be negative")
		}
	}

	m := Preview(in.Sizes, in.Colors, domain.OverlayVariants(stored, in.Variants))
	saved, stock, err := s.variants.Replace(ctx, productID, m.Sizes, m.Colors, m.Variants)
	if err != nil {
		return nil, fmt.Errorf("replace variants: %w", err)
	}
	m.Variants = saved
	m.Stock = stock
	s.events.VariantsUpdated(ctx, productID, m.Sizes, m.Colors, len(saved), stock)

	s.logger.InfoContext(ctx, "product variants saved",
		slog.String("product_id", productID),
		slog.Int("count", len(saved)),
		slog.Int("stock", stock),
	)
	return m, nil
}

// Patch updates one variant and returns it with the recomputed product stock.
func (s *VariantService) Patch(ctx context.Context, productID, variantID string, patch domain.VariantPatch) (*domain.Variant, int, error) {
	v, err := s.variants.GetByID(ctx, productID, variantID)
	if err != nil {
		return nil, 0, fmt.Errorf("get variant: %w", err)
	}
	patch.Apply(v)
	if v.StockQuantity < 0 {
		return nil, 0, apperrors.InvalidInput("variant stock must not be negative")
	}
	stock, err := s.variants.Update(ctx, v)
	if err != nil {
		return nil, 0, fmt.Errorf("update variant: %w", err)
	}
	return v, stock, nil
}

func (s *VariantService) stored(ctx context.Context, productID string) ([]domain.Variant, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	variants, err := s.variants.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	return variants, nil
}
