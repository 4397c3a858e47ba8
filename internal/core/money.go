// Package core implements the monthly aggregation engine: month resolution,
// solvency totals, duplication of a month into an adjacent one, and the
// derived health indicators.
//
// This file defines the decimal money type shared by all of them.
package core

import (
	"github.com/shopspring/decimal"
)

// Amount is a decimal currency value. The zero value is 0.
//
// Unmarshalling is deliberately lenient: a missing or non-numeric value
// coerces to 0 instead of failing, so one corrupt field never makes a whole
// month document unreadable. The trade-off is that corrupt input is masked.
type Amount struct {
	decimal.Decimal
}

// NewAmount builds an Amount from a float, for literals and request parsing.
func NewAmount(v float64) Amount {
	return Amount{decimal.NewFromFloat(v)}
}

// NewAmountFromInt builds an Amount from whole currency units.
func NewAmountFromInt(v int64) Amount {
	return Amount{decimal.NewFromInt(v)}
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{a.Decimal.Add(b.Decimal)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{a.Decimal.Sub(b.Decimal)}
}

// Equals reports whether a and b represent the same value.
func (a Amount) Equals(b Amount) bool {
	return a.Decimal.Equal(b.Decimal)
}

// Float returns the closest float64, for ratio computations and display.
func (a Amount) Float() float64 {
	return a.Decimal.InexactFloat64()
}

// UnmarshalJSON coerces anything that does not parse as a number to 0.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = d
	return nil
}
