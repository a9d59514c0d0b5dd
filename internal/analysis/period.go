package analysis

import "github.com/decsim/decsim/internal/gravity"

// DominantPeriod estimates the strongest periodicity in a uniformly
// sampled series. It reports false when the series is too short or no
// spectral peak stands clear of the background.
func DominantPeriod(series []float64, dt float64) (float64, bool) {
	if len(series) < 4 || dt <= 0 {
		return 0, false
	}

	ps := Spectrum(series)
	n := 2 * len(ps)

	peak, peakIdx := 0.0, 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > peak {
			peak, peakIdx = ps[k], k
		}
	}
	if peakIdx == 0 || peak == 0 {
		return 0, false
	}

	// A real orbit concentrates power in one bin; noise spreads it.
	background := 0.0
	for _, v := range ps[1:] {
		background += v
	}
	if peak < 4*background/float64(len(ps)-1) {
		return 0, false
	}

	return float64(n) * dt / float64(peakIdx), true
}

// BodyPeriods estimates an orbital period per body from its x
// coordinate across the run. Bodies without a clear period are left
// out of the result.
func BodyPeriods(history []gravity.Snapshot, bodies []string) map[string]float64 {
	periods := make(map[string]float64)
	if len(history) < 2 {
		return periods
	}
	dt := history[1].Time - history[0].Time

	for _, name := range bodies {
		series := make([]float64, len(history))
		for i, snap := range history {
			series[i] = snap.Objects[name].Position.X
		}
		if p, ok := DominantPeriod(series, dt); ok {
			periods[name] = p
		}
	}
	return periods
}
