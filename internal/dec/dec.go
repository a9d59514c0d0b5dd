// Package dec implements fixed-precision decimal arithmetic for the
// simulation core.
//
// All arithmetic goes through a Context, which rounds every result to a
// configured number of significant digits using banker's rounding. A Context
// is a small immutable value threaded explicitly through constructors, so two
// simulations with different precisions can coexist in one process without
// shared mutable state.
//
// The package builds on github.com/shopspring/decimal but never touches its
// package-level DivisionPrecision. Division computes enough fractional places
// for the quotient's leading significant digits plus a few guard digits, then
// rounds like every other operation.
package dec

import (
	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of significant digits used when no explicit
// precision is configured.
const DefaultPrecision = 50

// divGuardDigits is how many extra quotient digits a division computes before
// the final significant-digit rounding, so that rounding sees a correctly
// computed tail even when the quotient magnitude estimate is off by one.
const divGuardDigits = 4

// Context carries the significant-digit precision that every arithmetic
// result is rounded to.
type Context struct {
	prec int32
}

// New returns a Context that rounds results to precision significant digits.
func New(precision int) (Context, error) {
	if precision < 1 {
		return Context{}, ErrInvalidPrecision
	}
	return Context{prec: int32(precision)}, nil
}

// Default returns a Context with DefaultPrecision significant digits.
func Default() Context {
	return Context{prec: DefaultPrecision}
}

// Precision reports the context's significant-digit precision.
func (c Context) Precision() int {
	return int(c.prec)
}

// Parse converts a decimal string into a value rounded to the context
// precision, so over-precise input cannot smuggle extra digits into a
// simulation.
func (c Context) Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return c.round(d), nil
}

// Add returns a+b rounded to the context precision.
func (c Context) Add(a, b decimal.Decimal) decimal.Decimal {
	return c.round(a.Add(b))
}

// Sub returns a-b rounded to the context precision.
func (c Context) Sub(a, b decimal.Decimal) decimal.Decimal {
	return c.round(a.Sub(b))
}

// Mul returns a*b rounded to the context precision.
func (c Context) Mul(a, b decimal.Decimal) decimal.Decimal {
	return c.round(a.Mul(b))
}

// Div returns a/b rounded to the context precision. Like the underlying
// decimal package it panics when b is zero; callers guard divisors that can
// legitimately vanish.
func (c Context) Div(a, b decimal.Decimal) decimal.Decimal {
	places := c.prec - 1 - (adjustedExponent(a) - adjustedExponent(b)) + divGuardDigits
	if places < 0 {
		places = 0
	}
	return c.round(a.DivRound(b, places))
}

// round trims d to the context's significant-digit precision with banker's
// rounding. Values already within precision are returned unchanged.
func (c Context) round(d decimal.Decimal) decimal.Decimal {
	digits := int32(d.NumDigits())
	if digits <= c.prec {
		return d
	}
	return d.RoundBank(c.prec - digits - d.Exponent())
}

// adjustedExponent returns the exponent of d's most significant digit, i.e.
// floor(log10(|d|)) for nonzero d.
func adjustedExponent(d decimal.Decimal) int32 {
	return d.Exponent() + int32(d.NumDigits()) - 1
}
