package gravity

import "github.com/decsim/decsim/internal/vec"

// Vec3F is a display-precision vector.
type Vec3F struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ObjectState is the display-precision state of one body.
type ObjectState struct {
	Position     Vec3F `json:"position"`
	Velocity     Vec3F `json:"velocity"`
	Acceleration Vec3F `json:"acceleration"`
}

// BodyState is the display-precision record of a single body, including the
// derived kinetic energy.
type BodyState struct {
	Name          string  `json:"name"`
	Mass          float64 `json:"mass"`
	Position      Vec3F   `json:"position"`
	Velocity      Vec3F   `json:"velocity"`
	Acceleration  Vec3F   `json:"acceleration"`
	KineticEnergy float64 `json:"kinetic_energy"`
}

// Snapshot is the lossy display record of the simulation after a completed
// step. The reduction to floats happens here and only here; nothing reads a
// snapshot back into the decimal state.
type Snapshot struct {
	Time        float64                `json:"time"`
	TotalEnergy float64                `json:"total_energy"`
	Objects     map[string]ObjectState `json:"objects"`
}

func displayVec(v vec.Vector3) Vec3F {
	x, y, z := v.Float64s()
	return Vec3F{X: x, Y: y, Z: z}
}

// Snapshot captures the current display state. The energy field is the
// cached value from the last Step or TotalEnergy call, zero before either.
func (s *Simulator) Snapshot() Snapshot {
	objs := make(map[string]ObjectState, len(s.bodies))
	for _, b := range s.bodies {
		objs[b.Name] = ObjectState{
			Position:     displayVec(b.Position),
			Velocity:     displayVec(b.Velocity),
			Acceleration: displayVec(b.Acceleration),
		}
	}
	return Snapshot{
		Time:        s.time.InexactFloat64(),
		TotalEnergy: s.totalEnergy.InexactFloat64(),
		Objects:     objs,
	}
}

// BodyState returns the display state of the named body.
func (s *Simulator) BodyState(name string) (BodyState, error) {
	b, ok := s.Body(name)
	if !ok {
		return BodyState{}, ErrBodyNotFound
	}
	return BodyState{
		Name:          b.Name,
		Mass:          b.Mass.InexactFloat64(),
		Position:      displayVec(b.Position),
		Velocity:      displayVec(b.Velocity),
		Acceleration:  displayVec(b.Acceleration),
		KineticEnergy: s.KineticEnergy(b).InexactFloat64(),
	}, nil
}
