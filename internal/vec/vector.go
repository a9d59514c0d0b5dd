// Package vec provides an immutable three-component vector over
// arbitrary-precision decimals. Every operation rounds through the dec.Context
// captured at construction, so vector algebra inherits the precision of the
// simulation that created it.
package vec

import (
	"fmt"

	"github.com/decsim/decsim/internal/dec"
	"github.com/shopspring/decimal"
)

// Vector3 is a three-component decimal vector. The zero value is unusable;
// construct through New, Zero or Parse. Operations on vectors from different
// contexts compute in the receiver's context.
type Vector3 struct {
	x, y, z decimal.Decimal
	ctx     dec.Context
}

// New returns the vector (x, y, z) computing in ctx.
func New(ctx dec.Context, x, y, z decimal.Decimal) Vector3 {
	return Vector3{x: x, y: y, z: z, ctx: ctx}
}

// Zero returns the zero vector in ctx.
func Zero(ctx dec.Context) Vector3 {
	return Vector3{ctx: ctx}
}

// Parse builds a vector from three decimal strings, so callers can state
// components exactly instead of routing them through floats.
func Parse(ctx dec.Context, x, y, z string) (Vector3, error) {
	dx, err := ctx.Parse(x)
	if err != nil {
		return Vector3{}, fmt.Errorf("%w: %q", ErrInvalidComponent, x)
	}
	dy, err := ctx.Parse(y)
	if err != nil {
		return Vector3{}, fmt.Errorf("%w: %q", ErrInvalidComponent, y)
	}
	dz, err := ctx.Parse(z)
	if err != nil {
		return Vector3{}, fmt.Errorf("%w: %q", ErrInvalidComponent, z)
	}
	return Vector3{x: dx, y: dy, z: dz, ctx: ctx}, nil
}

// X returns the first component.
func (v Vector3) X() decimal.Decimal { return v.x }

// Y returns the second component.
func (v Vector3) Y() decimal.Decimal { return v.y }

// Z returns the third component.
func (v Vector3) Z() decimal.Decimal { return v.z }

// Context returns the context the vector computes in.
func (v Vector3) Context() dec.Context { return v.ctx }

// Add returns v+o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{
		x:   v.ctx.Add(v.x, o.x),
		y:   v.ctx.Add(v.y, o.y),
		z:   v.ctx.Add(v.z, o.z),
		ctx: v.ctx,
	}
}

// Sub returns v-o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{
		x:   v.ctx.Sub(v.x, o.x),
		y:   v.ctx.Sub(v.y, o.y),
		z:   v.ctx.Sub(v.z, o.z),
		ctx: v.ctx,
	}
}

// Scale returns v multiplied by the scalar s.
func (v Vector3) Scale(s decimal.Decimal) Vector3 {
	return Vector3{
		x:   v.ctx.Mul(v.x, s),
		y:   v.ctx.Mul(v.y, s),
		z:   v.ctx.Mul(v.z, s),
		ctx: v.ctx,
	}
}

// Div returns v divided by the scalar s. It panics when s is zero, like the
// scalar division it is built on.
func (v Vector3) Div(s decimal.Decimal) Vector3 {
	return Vector3{
		x:   v.ctx.Div(v.x, s),
		y:   v.ctx.Div(v.y, s),
		z:   v.ctx.Div(v.z, s),
		ctx: v.ctx,
	}
}

// Neg returns v with every component negated.
func (v Vector3) Neg() Vector3 {
	return Vector3{x: v.x.Neg(), y: v.y.Neg(), z: v.z.Neg(), ctx: v.ctx}
}

// Dot returns the scalar product of v and o.
func (v Vector3) Dot(o Vector3) decimal.Decimal {
	sum := v.ctx.Add(v.ctx.Mul(v.x, o.x), v.ctx.Mul(v.y, o.y))
	return v.ctx.Add(sum, v.ctx.Mul(v.z, o.z))
}

// Cross returns the right-handed vector product of v and o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		x:   v.ctx.Sub(v.ctx.Mul(v.y, o.z), v.ctx.Mul(v.z, o.y)),
		y:   v.ctx.Sub(v.ctx.Mul(v.z, o.x), v.ctx.Mul(v.x, o.z)),
		z:   v.ctx.Sub(v.ctx.Mul(v.x, o.y), v.ctx.Mul(v.y, o.x)),
		ctx: v.ctx,
	}
}

// Magnitude returns the Euclidean length of v.
func (v Vector3) Magnitude() decimal.Decimal {
	m, err := v.ctx.Sqrt(v.Dot(v))
	if err != nil {
		// Dot(v, v) is a sum of squares; the root always exists.
		panic(err)
	}
	return m
}

// Normalize returns the unit vector along v, or ErrZeroVector when v has no
// direction to preserve.
func (v Vector3) Normalize() (Vector3, error) {
	m := v.Magnitude()
	if m.IsZero() {
		return Vector3{}, ErrZeroVector
	}
	return v.Div(m), nil
}

// IsZero reports whether every component is zero.
func (v Vector3) IsZero() bool {
	return v.x.IsZero() && v.y.IsZero() && v.z.IsZero()
}

// Equal reports whether v and o have equal component values, independent of
// representation.
func (v Vector3) Equal(o Vector3) bool {
	return v.x.Equal(o.x) && v.y.Equal(o.y) && v.z.Equal(o.z)
}

// Float64s reduces the components to display precision. Only reporting
// surfaces use this; nothing feeds the result back into the simulation.
func (v Vector3) Float64s() (x, y, z float64) {
	return v.x.InexactFloat64(), v.y.InexactFloat64(), v.z.InexactFloat64()
}

// String formats the vector for diagnostics.
func (v Vector3) String() string {
	return fmt.Sprintf("(%s, %s, %s)", v.x, v.y, v.z)
}
