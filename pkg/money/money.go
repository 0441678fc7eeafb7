// Package money centralizes the decimal arithmetic of the ledger.
// Every conversion path rounds through Truncate so no two code paths
// round differently.
package money

import (
	"github.com/shopspring/decimal"
)

// Scale is the fixed precision of all stored amounts (numeric(20,10))
const Scale = 10

// Truncate cuts d to Scale decimal places, rounding toward zero. Never
// rounds up: converted amounts must not mint value.
func Truncate(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(Scale)
}

// Convert applies rate to amount and truncates the result
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return Truncate(amount.Mul(rate))
}

// Commission applies a commission rate to a settled amount and truncates
func Commission(amount, rate decimal.Decimal) decimal.Decimal {
	return Truncate(amount.Mul(rate))
}
