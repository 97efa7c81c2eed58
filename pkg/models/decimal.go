package models

import "github.com/shopspring/decimal"

// ToFloat64 converts a money decimal to float64 for ratio math.
// Marketplace money amounts fit float64 comfortably, so the lost
// exactness flag is ignored.
func ToFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
