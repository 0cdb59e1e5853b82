package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/pkg/database"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

// SettingsRepository implements repository.SettingsRepository over the
// single-row store_settings table.
type SettingsRepository struct {
	db database.DBTX
}

func NewSettingsRepository(db database.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns ErrNotFound when settings were never saved.
func (r *SettingsRepository) Get(ctx context.Context) (*domain.StoreSettings, error) {
	var (
		s   domain.StoreSettings
		tax string
	)
	err := r.db.QueryRow(ctx, `
		SELECT store_name, support_email, support_phone, currency, shipping_fee, free_shipping_threshold,
		       tax_rate_percent::text, low_stock_threshold, announcement, maintenance_mode, updated_at
		FROM store_settings WHERE id = 1`).Scan(
		&s.StoreName, &s.SupportEmail, &s.SupportPhone, &s.Currency, &s.ShippingFee, &s.FreeShippingThreshold,
		&tax, &s.LowStockThreshold, &s.Announcement, &s.MaintenanceMode, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	if s.TaxRatePercent, err = decimal.NewFromString(tax); err != nil {
		return nil, fmt.Errorf("parse tax rate %q: %w", tax, err)
	}
	return &s, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s *domain.StoreSettings) error {
	s.UpdatedAt = time.Now().UTC()
	_, err := r.db.Exec(ctx, `
		INSERT INTO store_settings (id, store_name, support_email, support_phone, currency, shipping_fee,
			free_shipping_threshold, tax_rate_percent, low_stock_threshold, announcement, maintenance_mode, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			store_name = EXCLUDED.store_name,
			support_email = EXCLUDED.support_email,
			support_phone = EXCLUDED.support_phone,
			currency = EXCLUDED.currency,
			shipping_fee = EXCLUDED.shipping_fee,
			free_shipping_threshold = EXCLUDED.free_shipping_threshold,
			tax_rate_percent = EXCLUDED.tax_rate_percent,
			low_stock_threshold = EXCLUDED.low_stock_threshold,
			announcement = EXCLUDED.announcement,
			maintenance_mode = EXCLUDED.maintenance_mode,
			updated_at = EXCLUDED.updated_at`,
		s.StoreName, s.SupportEmail, s.SupportPhone, s.Currency, s.ShippingFee,
		s.FreeShippingThreshold, s.TaxRatePercent.StringFixed(2), s.LowStockThreshold, s.Announcement,
		s.MaintenanceMode, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
