package domain

import "time"

// Category groups products at the top level (Sarees, Lehengas, ...).
type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Description   string        `json:"description"`
	ImageURL      string        `json:"image_url"`
	SortOrder     int           `json:"sort_order"`
	IsActive      bool          `json:"is_active"`
	ProductCount  int           `json:"product_count"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Subcategories []Subcategory `json:"subcategories,omitempty"`
}

// Subcategory belongs to exactly one category. Its slug is unique within
// the category.
type Subcategory struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"category_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Slug        string `json:"slug" validate:"omitempty,slug,max=255"`
	Description string `json:"description" validate:"max=5000"`
	ImageURL    string `json:"image_url" validate:"omitempty,url,max=2048"`
	SortOrder   int    `json:"sort_order" validate:"gte=0"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateCategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Slug        *string `json:"slug" validate:"omitempty,slug,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,max=2048"`
	SortOrder   *int    `json:"sort_order" validate:"omitempty,gte=0"`
	IsActive    *bool   `json:"is_active"`
}

type CreateSubcategoryInput struct {
	CategoryID  string `json:"category_id" validate:"required,uuid"`
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Slug        string `json:"slug" validate:"omitempty,slug,max=255"`
	Description string `json:"description" validate:"max=5000"`
	ImageURL    string `json:"image_url" validate:"omitempty,url,max=2048"`
	SortOrder   int    `json:"sort_order" validate:"gte=0"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateSubcategoryInput struct {
	CategoryID  *string `json:"category_id" validate:"omitempty,uuid"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Slug        *string `json:"slug" validate:"omitempty,slug,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,max=2048"`
	SortOrder   *int    `json:"sort_order" validate:"omitempty,gte=0"`
	IsActive    *bool   `json:"is_active"`
}

// AttachSubcategories groups subs under their categories, preserving order.
func AttachSubcategories(categories []Category, subs []Subcategory) []Category {
	byCategory := make(map[string][]Subcategory, len(categories))
	for _, s := range subs {
		byCategory[s.CategoryID] = append(byCategory[s.CategoryID], s)
	}
	out := make([]Category, len(categories))
	for i, c := range categories {
		c.Subcategories = byCategory[c.ID]
		if c.Subcategories == nil {
			c.Subcategories = []Subcategory{}
		}
		out[i] = c
	}
	return out
}
