package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/KartikVerma96/paregrose/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func int64Ptr(n int64) *int64 { return &n }

var (
	now           = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	uniqueErr     = &pgconn.PgError{Code: "23505", ConstraintName: "products_slug_key"}
	foreignKeyErr = &pgconn.PgError{Code: "23503"}
)

var productCols = []string{
	"id", "name", "slug", "description", "price", "original_price", "stock_quantity",
	"sizes", "colors", "fabric", "is_featured", "is_bestseller", "is_new", "is_active",
	"category_id", "subcategory_id", "created_at", "updated_at", "primary_image_url",
}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:            "11111111-1111-1111-1111-111111111111",
		Name:          "Banarasi Silk Saree",
		Slug:          "banarasi-silk-saree",
		Description:   "Handwoven zari border",
		Price:         1249900,
		OriginalPrice: int64Ptr(1499900),
		StockQuantity: 12,
		Sizes:         []string{},
		Colors:        []string{"Maroon", "Gold"},
		Fabric:        "Silk",
		IsFeatured:    true,
		IsActive:      true,
		CategoryID:    "22222222-2222-2222-2222-222222222222",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func productRow(p domain.Product, primary string) []any {
	return []any{
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.OriginalPrice, p.StockQuantity,
		p.Sizes, p.Colors, p.Fabric, p.IsFeatured, p.IsBestseller, p.IsNew, p.IsActive,
		p.CategoryID, p.SubcategoryID, p.CreatedAt, p.UpdatedAt, primary,
	}
}

// anyArgs matches n arguments of any value.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}
