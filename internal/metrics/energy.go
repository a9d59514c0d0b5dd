// Package metrics derives conservation diagnostics from simulation
// snapshot series. All arithmetic here is float64: snapshots already
// crossed the reporting boundary, so these numbers guide plots and run
// summaries rather than the integration itself.
package metrics

import (
	"math"

	"github.com/decsim/decsim/internal/gravity"
)

// EnergyDrift tracks how far total energy wanders from the first
// observed value over the course of a run.
type EnergyDrift struct {
	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{}
}

func (e *EnergyDrift) Observe(snap gravity.Snapshot) {
	if e.samples == 0 {
		e.initial = snap.TotalEnergy
	}
	e.current = snap.TotalEnergy
	e.samples++

	drift := RelativeDrift(e.initial, snap.TotalEnergy)
	e.maxDrift = math.Max(e.maxDrift, drift)
}

// Initial returns the energy of the first observed snapshot.
func (e *EnergyDrift) Initial() float64 { return e.initial }

// Final returns the energy of the most recent snapshot.
func (e *EnergyDrift) Final() float64 { return e.current }

// Max returns the worst relative drift seen so far.
func (e *EnergyDrift) Max() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	*e = EnergyDrift{}
}

// RelativeDrift returns |current-initial| / |initial|. When the initial
// energy is zero the relative form is undefined, so the absolute
// difference is returned instead.
func RelativeDrift(initial, current float64) float64 {
	if initial == 0 {
		return math.Abs(current)
	}
	return math.Abs(current-initial) / math.Abs(initial)
}

// EnergySeries extracts the total energy of each snapshot, in order.
func EnergySeries(history []gravity.Snapshot) []float64 {
	series := make([]float64, len(history))
	for i, snap := range history {
		series[i] = snap.TotalEnergy
	}
	return series
}

// DriftSeries returns the relative drift of every snapshot against the
// first one. The first element is always zero.
func DriftSeries(history []gravity.Snapshot) []float64 {
	series := make([]float64, len(history))
	if len(history) == 0 {
		return series
	}
	initial := history[0].TotalEnergy
	for i, snap := range history {
		series[i] = RelativeDrift(initial, snap.TotalEnergy)
	}
	return series
}
