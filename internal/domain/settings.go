package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreSettings is the single row of store-wide configuration.
type StoreSettings struct {
	StoreName             string          `json:"store_name"`
	SupportEmail          string          `json:"support_email"`
	SupportPhone          string          `json:"support_phone"`
	Currency              string          `json:"currency"`
	ShippingFee           int64           `json:"shipping_fee"`
	FreeShippingThreshold int64           `json:"free_shipping_threshold"`
	TaxRatePercent        decimal.Decimal `json:"tax_rate_percent"`
	LowStockThreshold     int             `json:"low_stock_threshold"`
	Announcement          string          `json:"announcement"`
	MaintenanceMode       bool            `json:"maintenance_mode"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// DefaultSettings applies when no settings row has been saved yet.
func DefaultSettings() *StoreSettings {
	return &StoreSettings{
		StoreName:             "Paregrose",
		Currency:              "INR",
		ShippingFee:           9900,
		FreeShippingThreshold: 99900,
		TaxRatePercent:        decimal.RequireFromString("5.00"),
		LowStockThreshold:     5,
	}
}

// PublicSettings is the subset of settings exposed to the storefront.
type PublicSettings struct {
	StoreName             string          `json:"store_name"`
	SupportEmail          string          `json:"support_email"`
	SupportPhone          string          `json:"support_phone"`
	Currency              string          `json:"currency"`
	ShippingFee           int64           `json:"shipping_fee"`
	FreeShippingThreshold int64           `json:"free_shipping_threshold"`
	TaxRatePercent        decimal.Decimal `json:"tax_rate_percent"`
	Announcement          string          `json:"announcement"`
	MaintenanceMode       bool            `json:"maintenance_mode"`
}

// Public strips back-office fields.
func (s *StoreSettings) Public() PublicSettings {
	return PublicSettings{
		StoreName:             s.StoreName,
		SupportEmail:          s.SupportEmail,
		SupportPhone:          s.SupportPhone,
		Currency:              s.Currency,
		ShippingFee:           s.ShippingFee,
		FreeShippingThreshold: s.FreeShippingThreshold,
		TaxRatePercent:        s.TaxRatePercent,
		Announcement:          s.Announcement,
		MaintenanceMode:       s.MaintenanceMode,
	}
}

// UpdateSettingsInput is a partial settings update.
type UpdateSettingsInput struct {
	StoreName             *string          `json:"store_name" validate:"omitempty,min=1,max=255"`
	SupportEmail          *string          `json:"support_email" validate:"omitempty,email"`
	SupportPhone          *string          `json:"support_phone" validate:"omitempty,max=20"`
	Currency              *string          `json:"currency" validate:"omitempty,len=3"`
	ShippingFee           *int64           `json:"shipping_fee" validate:"omitempty,gte=0"`
	FreeShippingThreshold *int64           `json:"free_shipping_threshold" validate:"omitempty,gte=0"`
	TaxRatePercent        *decimal.Decimal `json:"tax_rate_percent"`
	LowStockThreshold     *int             `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	Announcement          *string          `json:"announcement" validate:"omitempty,max=500"`
	MaintenanceMode       *bool            `json:"maintenance_mode"`
}

// MaxTaxRatePercent fits NUMERIC(5,2).
var MaxTaxRatePercent = decimal.NewFromInt(100)

// Apply copies set fields onto s.
func (in UpdateSettingsInput) Apply(s *StoreSettings) {
	if in.StoreName != nil {
		s.StoreName = *in.StoreName
	}
	if in.SupportEmail != nil {
		s.SupportEmail = *in.SupportEmail
	}
	if in.SupportPhone != nil {
		s.SupportPhone = *in.SupportPhone
	}
	if in.Currency != nil {
		s.Currency = *in.Currency
	}
	if in.ShippingFee != nil {
		s.ShippingFee = *in.ShippingFee
	}
	if in.FreeShippingThreshold != nil {
		s.FreeShippingThreshold = *in.FreeShippingThreshold
	}
	if in.TaxRatePercent != nil {
		s.TaxRatePercent = in.TaxRatePercent.Round(2)
	}
	if in.LowStockThreshold != nil {
		s.LowStockThreshold = *in.LowStockThreshold
	}
	if in.Announcement != nil {
		s.Announcement = *in.Announcement
	}
	if in.MaintenanceMode != nil {
		s.MaintenanceMode = *in.MaintenanceMode
	}
}
