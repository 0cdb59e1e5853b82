package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/pkg/database"
)

// AnalyticsRepository implements repository.AnalyticsRepository with a
// handful of aggregate queries.
type AnalyticsRepository struct {
	db database.DBTX
}

func NewAnalyticsRepository(db database.DBTX) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) Overview(ctx context.Context, lowStockThreshold int) (*domain.AnalyticsOverview, error) {
	o := &domain.AnalyticsOverview{
		UsersByRole:    map[string]int{},
		TopCategories:  []domain.CategoryStat{},
		RecentProducts: []domain.RecentProduct{},
		GeneratedAt:    time.Now().UTC(),
	}

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE is_featured),
		       COUNT(*) FILTER (WHERE stock_quantity > 0 AND stock_quantity <= $1),
		       COUNT(*) FILTER (WHERE stock_quantity = 0),
		       COALESCE(SUM(price * stock_quantity) FILTER (WHERE is_active), 0)::bigint,
		       (SELECT COUNT(*) FROM categories),
		       (SELECT COUNT(DISTINCT owner_key) FROM cart_items),
		       (SELECT COALESCE(SUM(quantity), 0) FROM cart_items)::int,
		       (SELECT COUNT(*) FROM wishlist_items)
		FROM products`, lowStockThreshold).Scan(
		&o.Products.Total, &o.Products.Active, &o.Products.Featured, &o.Products.LowStock,
		&o.Products.OutOfStock, &o.InventoryValue, &o.CategoryCount, &o.ActiveCarts, &o.CartUnits,
		&o.WishlistCount,
	)
	if err != nil {
		return nil, fmt.Errorf("product stats: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("users by role: %w", err)
	}
	for rows.Next() {
		var (
			role  string
			count int
		)
		if err := rows.Scan(&role, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan role count: %w", err)
		}
		o.UsersByRole[role] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role counts: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT c.id, c.name, c.slug, COUNT(p.id) AS product_count
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY product_count DESC, c.name
		LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	for rows.Next() {
		var c domain.CategoryStat
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ProductCount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan category stat: %w", err)
		}
		o.TopCategories = append(o.TopCategories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category stats: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT id, name, slug, price, created_at
		FROM products
		ORDER BY created_at DESC
		LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("recent products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.RecentProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Price, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recent product: %w", err)
		}
		o.RecentProducts = append(o.RecentProducts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent products: %w", err)
	}
	return o, nil
}
