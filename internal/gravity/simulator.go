// Package gravity implements an N-body point-mass simulation in
// arbitrary-precision decimal arithmetic.
//
// Every quantity the physics touches (masses, positions, velocities,
// accelerations, energies, the clock) is a decimal; floats appear only in
// snapshots, the one-way display reduction. Integration is explicit Euler
// with velocities updated strictly before positions, and forces come from
// plain Newtonian gravity over all O(N^2) pairs. The payoff for the expensive
// arithmetic is that total energy holds to the configured precision instead
// of drifting with float rounding.
//
// A Simulator is not safe for concurrent use; run one per goroutine.
package gravity

import (
	"context"
	"fmt"

	"github.com/decsim/decsim/internal/dec"
	"github.com/decsim/decsim/internal/phys"
	"github.com/decsim/decsim/internal/vec"
	"github.com/shopspring/decimal"
)

// DefaultTimeStep is the integration step used when none is configured,
// treated as read-only.
var DefaultTimeStep = decimal.New(1, -2)

// Simulator advances a set of named bodies under mutual gravitation. Bodies
// keep their insertion order, which fixes the pair enumeration order and
// makes runs reproducible digit for digit.
type Simulator struct {
	ctx      dec.Context
	bodies   []*Body
	index    map[string]int
	timeStep decimal.Decimal
	time     decimal.Decimal

	// totalEnergy is the value computed by the most recent TotalEnergy or
	// Step; it starts at zero and is what snapshots report.
	totalEnergy decimal.Decimal

	history []Snapshot
}

// New returns an empty simulation computing with the given number of
// significant digits and the default time step.
func New(precision int) (*Simulator, error) {
	ctx, err := dec.New(precision)
	if err != nil {
		return nil, err
	}
	return &Simulator{
		ctx:      ctx,
		index:    make(map[string]int),
		timeStep: DefaultTimeStep,
	}, nil
}

// Context returns the simulation's arithmetic context.
func (s *Simulator) Context() dec.Context { return s.ctx }

// Precision reports the significant-digit precision of the simulation.
func (s *Simulator) Precision() int { return s.ctx.Precision() }

// Time returns the simulation clock, exactly timeStep times the number of
// completed steps.
func (s *Simulator) Time() decimal.Decimal { return s.time }

// TimeStep returns the current integration step.
func (s *Simulator) TimeStep() decimal.Decimal { return s.timeStep }

// SetTimeStep replaces the integration step for subsequent steps. Completed
// steps are not rescaled.
func (s *Simulator) SetTimeStep(dt decimal.Decimal) error {
	if !dt.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidTimeStep, dt)
	}
	s.timeStep = dt
	return nil
}

// AddBody registers a body under its name. The simulation state is untouched
// when the name is already taken.
func (s *Simulator) AddBody(b *Body) error {
	if _, ok := s.index[b.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateBody, b.Name)
	}
	s.index[b.Name] = len(s.bodies)
	s.bodies = append(s.bodies, b)
	return nil
}

// RemoveBody drops the named body. The remaining bodies keep their relative
// order, and the simulation state is untouched when the name is unknown.
func (s *Simulator) RemoveBody(name string) error {
	i, ok := s.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrBodyNotFound, name)
	}
	delete(s.index, name)
	s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
	for j := i; j < len(s.bodies); j++ {
		s.index[s.bodies[j].Name] = j
	}
	return nil
}

// Body returns the named body, or false when it is not tracked. The returned
// body is live simulation state; callers must not mutate it.
func (s *Simulator) Body(name string) (*Body, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.bodies[i], true
}

// Bodies returns the tracked bodies in insertion order. The slice is a copy;
// the bodies are live simulation state.
func (s *Simulator) Bodies() []*Body {
	out := make([]*Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

// Names returns the body names in insertion order.
func (s *Simulator) Names() []string {
	names := make([]string, len(s.bodies))
	for i, b := range s.bodies {
		names[i] = b.Name
	}
	return names
}

// Len reports the number of tracked bodies.
func (s *Simulator) Len() int { return len(s.bodies) }

// GravitationalForce returns the force vector acting on a due to b: magnitude
// G*m_a*m_b/r^2, directed from a toward b. Bodies at exactly the same
// position have no defined force direction and return ErrCoincidentPositions.
func (s *Simulator) GravitationalForce(a, b *Body) (vec.Vector3, error) {
	disp := b.Position.Sub(a.Position)
	r := disp.Magnitude()
	if r.IsZero() {
		return vec.Vector3{}, fmt.Errorf("%w: %q and %q", ErrCoincidentPositions, a.Name, b.Name)
	}
	mag := s.ctx.Div(
		s.ctx.Mul(s.ctx.Mul(phys.GravitationalConstant, a.Mass), b.Mass),
		s.ctx.Mul(r, r),
	)
	return disp.Scale(s.ctx.Div(mag, r)), nil
}

// ApplyForces recomputes every body's acceleration from the current
// positions. Contributions are accumulated per body over all unordered pairs
// and written back once, so an error leaves every acceleration untouched.
// For each pair the acceleration of the first body is F/m_i, and the
// reaction on the second is the same vector scaled by m_i/m_j and subtracted,
// which is exactly F/m_j in the opposite direction.
func (s *Simulator) ApplyForces() error {
	accel := make([]vec.Vector3, len(s.bodies))
	for i := range accel {
		accel[i] = vec.Zero(s.ctx)
	}
	for i := 0; i < len(s.bodies); i++ {
		for j := i + 1; j < len(s.bodies); j++ {
			bi, bj := s.bodies[i], s.bodies[j]
			force, err := s.GravitationalForce(bi, bj)
			if err != nil {
				return err
			}
			ai := force.Div(bi.Mass)
			accel[i] = accel[i].Add(ai)
			accel[j] = accel[j].Sub(ai.Scale(bi.Mass).Div(bj.Mass))
		}
	}
	for i, b := range s.bodies {
		b.Acceleration = accel[i]
	}
	return nil
}

// UpdateVelocities advances every velocity by acceleration times the time
// step.
func (s *Simulator) UpdateVelocities() {
	for _, b := range s.bodies {
		b.Velocity = b.Velocity.Add(b.Acceleration.Scale(s.timeStep))
	}
}

// UpdatePositions advances every position by velocity times the time step.
// Step calls this after UpdateVelocities, so positions move by the freshly
// updated velocities.
func (s *Simulator) UpdatePositions() {
	for _, b := range s.bodies {
		b.Position = b.Position.Add(b.Velocity.Scale(s.timeStep))
	}
}

// Step advances the simulation by one time step: forces, then velocities,
// then positions, then the clock, then the cached total energy.
func (s *Simulator) Step() error {
	if err := s.ApplyForces(); err != nil {
		return err
	}
	s.UpdateVelocities()
	s.UpdatePositions()
	s.time = s.ctx.Add(s.time, s.timeStep)
	if _, err := s.TotalEnergy(); err != nil {
		return err
	}
	return nil
}

// Run advances the simulation by steps steps, appending one snapshot per
// completed step to the history and returning the new snapshots. A canceled
// context or a failing step returns the snapshots completed so far along
// with the error. Zero or negative steps is a no-op.
func (s *Simulator) Run(ctx context.Context, steps int) ([]Snapshot, error) {
	var snaps []Snapshot
	if steps > 0 {
		snaps = make([]Snapshot, 0, steps)
	}
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return snaps, ctx.Err()
		default:
		}
		if err := s.Step(); err != nil {
			return snaps, err
		}
		snap := s.Snapshot()
		s.history = append(s.history, snap)
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// History returns every snapshot recorded by Run since construction or the
// last Reset. The slice is shared; callers must not modify it.
func (s *Simulator) History() []Snapshot { return s.history }

// Reset rewinds the clock, clears the cached energy and the history, and
// zeroes all accelerations. Positions and velocities keep their current
// values.
func (s *Simulator) Reset() {
	s.time = decimal.Decimal{}
	s.totalEnergy = decimal.Decimal{}
	s.history = nil
	for _, b := range s.bodies {
		b.Acceleration = vec.Zero(s.ctx)
	}
}
