package dec

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// sqrtToleranceOffset ties the convergence tolerance to the context
	// precision: the iteration stops once successive estimates agree to
	// within 10^-(precision-sqrtToleranceOffset), relative to the current
	// estimate.
	sqrtToleranceOffset = 5

	// sqrtMaxIterations bounds the Newton-Raphson loop. The seed is the
	// input itself, so the opening phase roughly halves the estimate once
	// per iteration; 2000 iterations cover inputs hundreds of orders of
	// magnitude away from their root, far beyond any physical quantity in
	// the simulation.
	sqrtMaxIterations = 2000
)

var two = decimal.New(2, 0)

// Sqrt returns the square root of d by Newton-Raphson iteration in the
// context's precision.
//
// The iteration is seeded with d itself and refines x through x' = (x+d/x)/2.
// It stops once |x'-x| < 10^-(precision-5) * x', i.e. when successive
// estimates agree to five significant digits short of the full context
// precision. The tolerance is relative so that the criterion is meaningful at
// every magnitude: once converged, context rounding keeps successive
// estimates within one unit in the last place of each other, which satisfies
// the criterion at any scale.
//
// The root of zero is zero. Negative input returns ErrNegativeSqrt.
func (c Context) Sqrt(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return decimal.Decimal{}, ErrNegativeSqrt
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	tol := decimal.New(1, sqrtToleranceOffset-c.prec)
	x := d
	for i := 0; i < sqrtMaxIterations; i++ {
		next := c.Div(c.Add(x, c.Div(d, x)), two)
		if next.Sub(x).Abs().Cmp(tol.Mul(next)) < 0 {
			return next, nil
		}
		x = next
	}
	return decimal.Decimal{}, fmt.Errorf("%w: sqrt(%s) after %d iterations",
		ErrNoConvergence, d, sqrtMaxIterations)
}
