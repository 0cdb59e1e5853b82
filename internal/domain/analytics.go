package domain

import "time"

// AnalyticsOverview is the admin dashboard snapshot.
type AnalyticsOverview struct {
	Products       ProductStats    `json:"products"`
	InventoryValue int64           `json:"inventory_value"`
	CategoryCount  int             `json:"category_count"`
	UsersByRole    map[string]int  `json:"users_by_role"`
	ActiveCarts    int             `json:"active_carts"`
	CartUnits      int             `json:"cart_units"`
	WishlistCount  int             `json:"wishlist_count"`
	TopCategories  []CategoryStat  `json:"top_categories"`
	RecentProducts []RecentProduct `json:"recent_products"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

type ProductStats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Featured   int `json:"featured"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
}

type CategoryStat struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ProductCount int    `json:"product_count"`
}

type RecentProduct struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}
