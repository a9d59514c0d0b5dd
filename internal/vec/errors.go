package vec

import "errors"

var (
	// ErrInvalidComponent indicates a component string that does not parse
	// as a decimal.
	ErrInvalidComponent = errors.New("vec: invalid decimal component")

	// ErrZeroVector indicates an operation that requires a direction, such
	// as normalization, applied to the zero vector.
	ErrZeroVector = errors.New("vec: zero vector has no direction")
)
