package domain

import "time"

// Product is a catalog item. Prices are in paise.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	OriginalPrice *int64    `json:"original_price,omitempty"`
	StockQuantity int       `json:"stock_quantity"`
	Sizes         []string  `json:"sizes"`
	Colors        []string  `json:"colors"`
	Fabric        string    `json:"fabric"`
	IsFeatured    bool      `json:"is_featured"`
	IsBestseller  bool      `json:"is_bestseller"`
	IsNew         bool      `json:"is_new"`
	IsActive      bool      `json:"is_active"`
	CategoryID    string    `json:"category_id"`
	SubcategoryID *string   `json:"subcategory_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Populated by list queries only.
	PrimaryImageURL string `json:"primary_image_url,omitempty"`
}

// DiscountPercent returns the whole-number discount off the compare-at price,
// or 0 when there is none.
func (p *Product) DiscountPercent() int {
	if p.OriginalPrice == nil {
		return 0
	}
	return DiscountPercent(p.Price, *p.OriginalPrice)
}

// ProductDetail is the storefront view of a single product.
type ProductDetail struct {
	Product
	DiscountPercent int            `json:"discount_percent"`
	Category        *Category      `json:"category,omitempty"`
	Subcategory     *Subcategory   `json:"subcategory,omitempty"`
	Images          []ProductImage `json:"images"`
	Variants        []Variant      `json:"variants"`
	Layout          string         `json:"variant_layout"`
}

// CreateProductInput is the admin payload for a new product.
type CreateProductInput struct {
	Name          string   `json:"name" validate:"required,min=1,max=255"`
	Slug          string   `json:"slug" validate:"omitempty,slug,max=255"`
	Description   string   `json:"description" validate:"max=10000"`
	Price         int64    `json:"price" validate:"gte=0"`
	OriginalPrice *int64   `json:"original_price" validate:"omitempty,gte=0"`
	StockQuantity int      `json:"stock_quantity" validate:"gte=0"`
	Sizes         []string `json:"sizes" validate:"max=50,dive,max=50"`
	Colors        []string `json:"colors" validate:"max=50,dive,max=50"`
	Fabric        string   `json:"fabric" validate:"max=100"`
	IsFeatured    bool     `json:"is_featured"`
	IsBestseller  bool     `json:"is_bestseller"`
	IsNew         bool     `json:"is_new"`
	IsActive      *bool    `json:"is_active"`
	CategoryID    string   `json:"category_id" validate:"required,uuid"`
	SubcategoryID *string  `json:"subcategory_id" validate:"omitempty,uuid"`
}

// UpdateProductInput is a partial update; nil fields are left unchanged.
// ClearSubcategory detaches the product from its subcategory.
type UpdateProductInput struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=255"`
	Slug             *string `json:"slug" validate:"omitempty,slug,max=255"`
	Description      *string `json:"description" validate:"omitempty,max=10000"`
	Price            *int64  `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice    *int64  `json:"original_price" validate:"omitempty,gte=0"`
	ClearOriginal    bool    `json:"clear_original_price"`
	StockQuantity    *int    `json:"stock_quantity" validate:"omitempty,gte=0"`
	Fabric           *string `json:"fabric" validate:"omitempty,max=100"`
	IsFeatured       *bool   `json:"is_featured"`
	IsBestseller     *bool   `json:"is_bestseller"`
	IsNew            *bool   `json:"is_new"`
	IsActive         *bool   `json:"is_active"`
	CategoryID       *string `json:"category_id" validate:"omitempty,uuid"`
	SubcategoryID    *string `json:"subcategory_id" validate:"omitempty,uuid"`
	ClearSubcategory bool    `json:"clear_subcategory"`
}

// Product sort orders accepted by the storefront listing.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

// ValidProductSort reports whether s is a known sort key.
func ValidProductSort(s string) bool {
	switch s {
	case SortNewest, SortPriceAsc, SortPriceDesc, SortName:
		return true
	}
	return false
}

// Admin stock filters.
const (
	StockLow = "low"
	StockOut = "out"
)
