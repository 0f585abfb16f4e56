// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Round2 rounds to 2 decimal places, the scale used for all stored amounts.
func Round2(d Money) Money {
	return d.Round(2)
}

// Percent is a percentage value (0-100) stored with full precision.
type Percent = decimal.Decimal

// Hundred is the constant 100, used in discount and tax arithmetic.
var Hundred = decimal.NewFromInt(100)

// IsValidPercent reports whether v lies in the inclusive range [0, 100].
func IsValidPercent(v Percent) bool {
	return !v.IsNegative() && v.LessThanOrEqual(Hundred)
}
