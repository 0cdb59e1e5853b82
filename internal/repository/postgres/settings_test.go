package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KartikVerma96/paregrose/internal/domain"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

var settingsCols = []string{"store_name", "support_email", "support_phone", "currency", "shipping_fee",
	"free_shipping_threshold", "tax_rate_percent", "low_stock_threshold", "announcement", "maintenance_mode", "updated_at"}

func TestSettingsRepository_Get(t *testing.T) {
	mock := newMock(t)
	repo := NewSettingsRepository(mock)

	mock.ExpectQuery("FROM store_settings WHERE id = 1").
		WillReturnRows(pgxmock.NewRows(settingsCols).
			AddRow("Paregrose", "care@paregrose.in", "+91 98", "INR", int64(9900), int64(99900), "12.50", 3, "Diwali sale", false, now))

	s, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, s.TaxRatePercent.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, 3, s.LowStockThreshold)
}

func TestSettingsRepository_Get_NeverSaved(t *testing.T) {
	mock := newMock(t)
	repo := NewSettingsRepository(mock)

	mock.ExpectQuery("FROM store_settings").WillReturnRows(pgxmock.NewRows(settingsCols))

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSettingsRepository_Save(t *testing.T) {
	mock := newMock(t)
	repo := NewSettingsRepository(mock)
	s := domain.DefaultSettings()

	mock.ExpectExec("INSERT INTO store_settings").
		WithArgs("Paregrose", "", "", "INR", int64(9900), int64(99900), "5.00", 5, "", false, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Save(context.Background(), s))
	assert.False(t, s.UpdatedAt.IsZero())
}

func TestAnalyticsRepository_Overview(t *testing.T) {
	mock := newMock(t)
	repo := NewAnalyticsRepository(mock)

	mock.ExpectQuery("FROM products").
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}).
			AddRow(10, 8, 3, 2, 1, int64(4500000), 4, 6, 11, 9))
	mock.ExpectQuery("FROM users GROUP BY role").
		WillReturnRows(pgxmock.NewRows([]string{"role", "count"}).
			AddRow("customer", 40).AddRow("admin", 1))
	mock.ExpectQuery("FROM categories c").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "slug", "product_count"}).
			AddRow("c1", "Sarees", "sarees", 7))
	mock.ExpectQuery("ORDER BY created_at DESC").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "slug", "price", "created_at"}).
			AddRow("p1", "Saree", "saree", int64(100), now))

	o, err := repo.Overview(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 10, o.Products.Total)
	assert.Equal(t, 2, o.Products.LowStock)
	assert.Equal(t, int64(4500000), o.InventoryValue)
	assert.Equal(t, 40, o.UsersByRole["customer"])
	require.Len(t, o.TopCategories, 1)
	require.Len(t, o.RecentProducts, 1)
	assert.Equal(t, 11, o.CartUnits)
	assert.NoError(t, mock.ExpectationsWereMet())
}
