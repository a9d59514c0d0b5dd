package gravity

import (
	"fmt"

	"github.com/decsim/decsim/internal/vec"
	"github.com/shopspring/decimal"
)

// Body is a point mass tracked by a Simulator. The simulation mutates
// position, velocity and acceleration in place during steps; name and mass
// stay fixed for the body's lifetime.
type Body struct {
	Name         string
	Mass         decimal.Decimal
	Position     vec.Vector3
	Velocity     vec.Vector3
	Acceleration vec.Vector3
}

// NewBody returns a body with zero acceleration. The mass must be strictly
// positive; massless and negative-mass bodies have no meaning under the force
// law.
func NewBody(name string, mass decimal.Decimal, position, velocity vec.Vector3) (*Body, error) {
	if !mass.IsPositive() {
		return nil, fmt.Errorf("%w: %q has mass %s", ErrInvalidMass, name, mass)
	}
	return &Body{
		Name:         name,
		Mass:         mass,
		Position:     position,
		Velocity:     velocity,
		Acceleration: vec.Zero(position.Context()),
	}, nil
}
