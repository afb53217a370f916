// Package money provides exact integer-cent monetary arithmetic.
//
// All balance computation in the service works on Cents values; floating
// point only appears at the request/response boundary where legacy clients
// send dollar amounts.
package money

import "fmt"

// Cents is a signed amount in minor currency units.
type Cents int64

// FromDollars converts a dollar amount to cents, rounding half away from
// zero. Only request adapters should call this; the core never holds dollars.
func FromDollars(dollars float64) Cents {
	if dollars < 0 {
		return Cents(dollars*100 - 0.5)
	}
	return Cents(dollars*100 + 0.5)
}

// Dollars returns the amount as a float64 dollar value for display.
func (c Cents) Dollars() float64 {
	return float64(c) / 100
}

// Abs returns the absolute value.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// IsPositive reports whether the amount is greater than zero.
func (c Cents) IsPositive() bool { return c > 0 }

// IsZero reports whether the amount is zero.
func (c Cents) IsZero() bool { return c == 0 }

// String formats the amount as dollars, e.g. 1050 -> "10.50", -5 -> "-0.05".
func (c Cents) String() string {
	sign := ""
	v := c
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
