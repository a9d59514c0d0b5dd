package dec

import "errors"

var (
	// ErrInvalidPrecision indicates a context precision below one significant digit.
	ErrInvalidPrecision = errors.New("dec: precision must be at least 1 significant digit")

	// ErrNegativeSqrt indicates a square root of a negative value.
	ErrNegativeSqrt = errors.New("dec: square root of negative value")

	// ErrNoConvergence indicates an iteration that failed to converge within
	// its iteration bound.
	ErrNoConvergence = errors.New("dec: iteration did not converge")
)
