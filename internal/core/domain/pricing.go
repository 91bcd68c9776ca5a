// internal/core/domain/pricing.go
package domain

// Pricing constants, whole Rupiah.
const (
	PriceMarkup       int64 = 3000
	PriceRoundingUnit int64 = 1000
	// PriceRoundingTie is the remainder at which rounding still goes down.
	PriceRoundingTie int64 = 500
)

// DeriveSellPrice returns the automatic sell price for a cost price: the cost
// plus a fixed markup, rounded to the nearest thousand with an exact tie of
// 500 rounding down. Non-positive costs derive to 0.
func DeriveSellPrice(cost int64) int64 {
	if cost <= 0 {
		return 0
	}

	raw := cost + PriceMarkup
	base := (raw / PriceRoundingUnit) * PriceRoundingUnit
	if raw%PriceRoundingUnit > PriceRoundingTie {
		return base + PriceRoundingUnit
	}
	return base
}
