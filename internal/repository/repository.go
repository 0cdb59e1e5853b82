package repository

import (
	"context"

	"github.com/KartikVerma96/paregrose/internal/domain"
)

// ProductFilter narrows product listings. Storefront listings set ActiveOnly;
// admin listings may filter on IsActive and Stock instead.
type ProductFilter struct {
	CategoryID      *string
	CategorySlug    *string
	SubcategorySlug *string
	Search          *string
	MinPrice        *int64
	MaxPrice        *int64
	Size            *string
	Color           *string
	Featured        *bool
	Bestseller      *bool
	New             *bool
	InStock         bool
	ActiveOnly      bool
	IsActive        *bool
	// Stock is domain.StockLow or domain.StockOut.
	Stock             string
	LowStockThreshold int
	Sort              string
	Page              int
	PerPage           int
}

// ProductRepository persists products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	// All returns every product ordered by name, for exports.
	All(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	// BulkApply runs one bulk action over ids in a single transaction. An
	// unknown id rolls everything back with ErrNotFound.
	BulkApply(ctx context.Context, ids []string, action string) (int, error)
}

// VariantRepository persists product variants.
type VariantRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]domain.Variant, error)
	GetByID(ctx context.Context, productID, variantID string) (*domain.Variant, error)
	// Replace swaps the product's variants for variants, stores sizes and
	// colors on the product and, when variants is non-empty, sets product
	// stock to their sum. It returns the stored variants and product stock.
	Replace(ctx context.Context, productID string, sizes, colors []string, variants []domain.Variant) ([]domain.Variant, int, error)
	// Update saves one variant and recomputes product stock, returning it.
	Update(ctx context.Context, variant *domain.Variant) (int, error)
}

// ImageRepository persists product images. Every mutation keeps exactly one
// primary image per product that has images.
type ImageRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]domain.ProductImage, error)
	GetByID(ctx context.Context, productID, imageID string) (*domain.ProductImage, error)
	// Add appends the image after the last one. The first image of a product
	// becomes primary.
	Add(ctx context.Context, image *domain.ProductImage) error
	SetPrimary(ctx context.Context, productID, imageID string) error
	// Reorder writes sort order, alt text and primary flag for every image.
	Reorder(ctx context.Context, productID string, images []domain.ProductImage) error
	// Delete removes the image, promoting the next one when it was primary.
	Delete(ctx context.Context, productID, imageID string) (*domain.ProductImage, error)
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
	BulkApply(ctx context.Context, ids []string, action string) (int, error)
}

// SubcategoryFilter narrows subcategory listings.
type SubcategoryFilter struct {
	CategoryID *string
	ActiveOnly bool
}

// SubcategoryRepository persists subcategories.
type SubcategoryRepository interface {
	Create(ctx context.Context, sub *domain.Subcategory) error
	GetByID(ctx context.Context, id string) (*domain.Subcategory, error)
	GetBySlug(ctx context.Context, categoryID, slug string) (*domain.Subcategory, error)
	List(ctx context.Context, filter SubcategoryFilter) ([]domain.Subcategory, error)
	Update(ctx context.Context, sub *domain.Subcategory) error
	Delete(ctx context.Context, id string) error
}

// CartRepository persists cart lines keyed by owner.
type CartRepository interface {
	// Lines returns the owner's cart joined with live product and variant data.
	Lines(ctx context.Context, owner string) ([]domain.CartLine, error)
	ListItems(ctx context.Context, owner string) ([]domain.CartItem, error)
	GetItem(ctx context.Context, owner, itemID string) (*domain.CartItem, error)
	// AddQuantity inserts the line or increments an existing one, never
	// letting the stored quantity exceed limit.
	AddQuantity(ctx context.Context, item *domain.CartItem, limit int) (*domain.CartItem, error)
	SetQuantity(ctx context.Context, owner, itemID string, quantity int) (*domain.CartItem, error)
	DeleteItem(ctx context.Context, owner, itemID string) error
	Clear(ctx context.Context, owner string) (int, error)
	// ReplaceOwner deletes every line of from and upserts merged, in one
	// transaction.
	ReplaceOwner(ctx context.Context, from string, merged []domain.CartItem) error
}

// UserFilter narrows admin user listings.
type UserFilter struct {
	Search  *string
	Role    *string
	Page    int
	PerPage int
}

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByProvider(ctx context.Context, provider, subject string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}

// WishlistRepository persists wishlist entries.
type WishlistRepository interface {
	List(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	// Add is idempotent and reports whether a new row was created.
	Add(ctx context.Context, userID, productID string) (bool, error)
	Remove(ctx context.Context, userID, productID string) error
}

// SettingsRepository persists the single store settings row.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.StoreSettings, error)
	Save(ctx context.Context, settings *domain.StoreSettings) error
}

// SettingsCache caches store settings.
type SettingsCache interface {
	Get(ctx context.Context) (*domain.StoreSettings, error)
	Set(ctx context.Context, settings *domain.StoreSettings) error
	Invalidate(ctx context.Context) error
}

// AnalyticsRepository computes the dashboard snapshot.
type AnalyticsRepository interface {
	Overview(ctx context.Context, lowStockThreshold int) (*domain.AnalyticsOverview, error)
}

// AnalyticsCache caches the dashboard snapshot.
type AnalyticsCache interface {
	Get(ctx context.Context) (*domain.AnalyticsOverview, error)
	Set(ctx context.Context, overview *domain.AnalyticsOverview) error
}
