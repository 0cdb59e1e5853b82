package domain

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Tax returns subtotal × ratePercent / 100, rounded half-up to the paisa.
func Tax(subtotal int64, ratePercent decimal.Decimal) int64 {
	if subtotal <= 0 || !ratePercent.IsPositive() {
		return 0
	}
	return decimal.NewFromInt(subtotal).Mul(ratePercent).Div(hundred).Round(0).IntPart()
}

// ShippingFee is the flat fee from settings, waived at or above the free
// shipping threshold and for an empty cart.
func ShippingFee(subtotal int64, lines int, s *StoreSettings) int64 {
	if lines == 0 {
		return 0
	}
	if s.FreeShippingThreshold > 0 && subtotal >= s.FreeShippingThreshold {
		return 0
	}
	return s.ShippingFee
}

// DiscountPercent is the whole-number percentage off original, rounded down.
func DiscountPercent(price, original int64) int {
	if original <= 0 || price >= original {
		return 0
	}
	return int(decimal.NewFromInt(original - price).Mul(hundred).Div(decimal.NewFromInt(original)).Floor().IntPart())
}

// Rupees formats paise as a rupee amount with two decimals, e.g. 129900 → "1299.00".
func Rupees(paise int64) string {
	return decimal.New(paise, -2).StringFixed(2)
}
