// Package floatref is a float64 shadow of the decimal engine. It runs
// the same force law and the same velocity-before-position Euler
// scheme, so a decimal run and a float run started from one scenario
// stay directly comparable. It exists for speed, not accuracy: the
// live view steps it per frame, and the compare command uses it to
// show where float64 starts to lose digits.
package floatref

import (
	"fmt"
	"math"
	"strconv"

	"github.com/decsim/decsim/internal/config"
	"github.com/decsim/decsim/internal/phys"
)

// G is the float64 rendering of the shared gravitational constant.
var G = phys.GravitationalConstant.InexactFloat64()

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(w Vec3) float64 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

type Body struct {
	Name         string
	Mass         float64
	Position     Vec3
	Velocity     Vec3
	Acceleration Vec3
}

// Simulator advances a set of bodies in float64. Bodies keep their
// insertion order. Not safe for concurrent use.
type Simulator struct {
	bodies   []*Body
	index    map[string]int
	timeStep float64
	time     float64
}

func New() *Simulator {
	return &Simulator{
		index:    make(map[string]int),
		timeStep: 0.01,
	}
}

// FromScenario builds a float simulator from the same scenario the
// decimal engine runs. The precision field is ignored.
func FromScenario(scn *config.Scenario) (*Simulator, error) {
	if err := scn.Validate(); err != nil {
		return nil, err
	}

	s := New()
	dt, err := strconv.ParseFloat(scn.TimeStep, 64)
	if err != nil {
		return nil, fmt.Errorf("time step %q: %w", scn.TimeStep, err)
	}
	s.timeStep = dt

	for _, bc := range scn.Bodies {
		mass, err := strconv.ParseFloat(bc.Mass, 64)
		if err != nil {
			return nil, fmt.Errorf("body %q mass: %w", bc.Name, err)
		}
		pos, err := parseVec(bc.Position)
		if err != nil {
			return nil, fmt.Errorf("body %q position: %w", bc.Name, err)
		}
		vel, err := parseVec(bc.Velocity)
		if err != nil {
			return nil, fmt.Errorf("body %q velocity: %w", bc.Name, err)
		}
		if err := s.AddBody(&Body{Name: bc.Name, Mass: mass, Position: pos, Velocity: vel}); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func parseVec(components [3]string) (Vec3, error) {
	var out [3]float64
	for i, c := range components {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return Vec3{}, err
		}
		out[i] = v
	}
	return Vec3{out[0], out[1], out[2]}, nil
}

func (s *Simulator) AddBody(b *Body) error {
	if _, exists := s.index[b.Name]; exists {
		return fmt.Errorf("duplicate body %q", b.Name)
	}
	s.index[b.Name] = len(s.bodies)
	s.bodies = append(s.bodies, b)
	return nil
}

func (s *Simulator) Body(name string) (*Body, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.bodies[i], true
}

func (s *Simulator) Bodies() []*Body {
	out := make([]*Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

func (s *Simulator) Len() int { return len(s.bodies) }

func (s *Simulator) Time() float64 { return s.time }

func (s *Simulator) TimeStep() float64 { return s.timeStep }

func (s *Simulator) SetTimeStep(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("time step must be positive, got %v", dt)
	}
	s.timeStep = dt
	return nil
}

// ApplyForces recomputes every acceleration from pairwise gravity.
// Each pair is visited once and the reaction applied symmetrically.
func (s *Simulator) ApplyForces() error {
	accel := make([]Vec3, len(s.bodies))

	for i, bi := range s.bodies {
		for j := i + 1; j < len(s.bodies); j++ {
			bj := s.bodies[j]

			disp := bj.Position.Sub(bi.Position)
			r2 := disp.Dot(disp)
			if r2 == 0 {
				return fmt.Errorf("bodies %q and %q share a position", bi.Name, bj.Name)
			}
			r := math.Sqrt(r2)

			// f/r gives the vector scale for the unit direction.
			f := G * bi.Mass * bj.Mass / r2
			dir := disp.Scale(f / r)

			accel[i] = accel[i].Add(dir.Scale(1 / bi.Mass))
			accel[j] = accel[j].Sub(dir.Scale(1 / bj.Mass))
		}
	}

	for i, b := range s.bodies {
		b.Acceleration = accel[i]
	}
	return nil
}

// Step advances one time step: forces, then velocities, then positions
// using the updated velocities, then the clock.
func (s *Simulator) Step() error {
	if err := s.ApplyForces(); err != nil {
		return err
	}
	for _, b := range s.bodies {
		b.Velocity = b.Velocity.Add(b.Acceleration.Scale(s.timeStep))
	}
	for _, b := range s.bodies {
		b.Position = b.Position.Add(b.Velocity.Scale(s.timeStep))
	}
	s.time += s.timeStep
	return nil
}

// TotalEnergy returns kinetic plus pairwise potential energy.
func (s *Simulator) TotalEnergy() float64 {
	ke := 0.0
	pe := 0.0

	for i, bi := range s.bodies {
		ke += 0.5 * bi.Mass * bi.Velocity.Dot(bi.Velocity)

		for j := i + 1; j < len(s.bodies); j++ {
			bj := s.bodies[j]
			r := bj.Position.Sub(bi.Position).Norm()
			if r == 0 {
				continue
			}
			pe -= G * bi.Mass * bj.Mass / r
		}
	}

	return ke + pe
}

func (s *Simulator) Momentum() Vec3 {
	var p Vec3
	for _, b := range s.bodies {
		p = p.Add(b.Velocity.Scale(b.Mass))
	}
	return p
}

func (s *Simulator) AngularMomentum() Vec3 {
	var l Vec3
	for _, b := range s.bodies {
		l = l.Add(b.Position.Cross(b.Velocity).Scale(b.Mass))
	}
	return l
}
