package gravity

import (
	"fmt"

	"github.com/decsim/decsim/internal/phys"
	"github.com/decsim/decsim/internal/vec"
	"github.com/shopspring/decimal"
)

var half = decimal.New(5, -1)

// KineticEnergy returns (1/2) m v.v for the body.
func (s *Simulator) KineticEnergy(b *Body) decimal.Decimal {
	return s.ctx.Mul(s.ctx.Mul(half, b.Mass), b.Velocity.Dot(b.Velocity))
}

// PotentialEnergy returns the pair potential -G*m_a*m_b/r, which is negative
// for any separated pair and singular for a coincident one.
func (s *Simulator) PotentialEnergy(a, b *Body) (decimal.Decimal, error) {
	r := b.Position.Sub(a.Position).Magnitude()
	if r.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("%w: %q and %q", ErrCoincidentPositions, a.Name, b.Name)
	}
	return s.ctx.Div(
		s.ctx.Mul(s.ctx.Mul(phys.GravitationalConstant.Neg(), a.Mass), b.Mass),
		r,
	), nil
}

// TotalEnergy returns the kinetic energy of every body plus the potential
// energy of every unordered pair, and caches the result for snapshots.
func (s *Simulator) TotalEnergy() (decimal.Decimal, error) {
	total := decimal.Decimal{}
	for _, b := range s.bodies {
		total = s.ctx.Add(total, s.KineticEnergy(b))
	}
	for i := 0; i < len(s.bodies); i++ {
		for j := i + 1; j < len(s.bodies); j++ {
			pe, err := s.PotentialEnergy(s.bodies[i], s.bodies[j])
			if err != nil {
				return decimal.Decimal{}, err
			}
			total = s.ctx.Add(total, pe)
		}
	}
	s.totalEnergy = total
	return total, nil
}

// Momentum returns the total linear momentum, the sum of m v over all bodies.
func (s *Simulator) Momentum() vec.Vector3 {
	p := vec.Zero(s.ctx)
	for _, b := range s.bodies {
		p = p.Add(b.Velocity.Scale(b.Mass))
	}
	return p
}

// AngularMomentum returns the total angular momentum about the origin, the
// sum of m (r x v) over all bodies.
func (s *Simulator) AngularMomentum() vec.Vector3 {
	l := vec.Zero(s.ctx)
	for _, b := range s.bodies {
		l = l.Add(b.Position.Cross(b.Velocity).Scale(b.Mass))
	}
	return l
}
