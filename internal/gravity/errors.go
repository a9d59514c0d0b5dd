package gravity

import "errors"

var (
	// ErrDuplicateBody indicates an AddBody with a name the simulation
	// already tracks.
	ErrDuplicateBody = errors.New("gravity: body already exists")

	// ErrBodyNotFound indicates an operation on a body name the simulation
	// does not track.
	ErrBodyNotFound = errors.New("gravity: body not found")

	// ErrCoincidentPositions indicates a pairwise interaction between bodies
	// at exactly the same position, where the force law is singular.
	ErrCoincidentPositions = errors.New("gravity: bodies occupy the same position")

	// ErrInvalidMass indicates a body mass that is not strictly positive.
	ErrInvalidMass = errors.New("gravity: mass must be positive")

	// ErrInvalidTimeStep indicates a time step that is not strictly positive.
	ErrInvalidTimeStep = errors.New("gravity: time step must be positive")
)
