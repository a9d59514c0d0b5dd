package runner

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/decsim/decsim/internal/config"
)

// TuneResult records one candidate time step tried by TuneTimeStep.
type TuneResult struct {
	TimeStep string
	Steps    int
	Drift    float64
	Elapsed  time.Duration
	OK       bool
}

// TuneTimeStep finds the largest candidate time step whose relative energy
// drift stays under limit. Candidates are tried from coarsest to finest and
// every run covers the same simulated span as the scenario itself, so the
// drifts compare like for like. The best candidate is "" when none passes.
func TuneTimeStep(ctx context.Context, scn *config.Scenario, candidates []string, limit float64) (string, []TuneResult, error) {
	if len(candidates) == 0 {
		return "", nil, fmt.Errorf("no candidate time steps")
	}
	if limit <= 0 {
		return "", nil, fmt.Errorf("drift limit must be positive")
	}

	baseDt, err := strconv.ParseFloat(scn.TimeStep, 64)
	if err != nil {
		return "", nil, fmt.Errorf("scenario time step: %w", err)
	}
	span := float64(scn.Steps) * baseDt

	type candidate struct {
		raw string
		dt  float64
	}
	parsed := make([]candidate, 0, len(candidates))
	for _, raw := range candidates {
		dt, err := strconv.ParseFloat(raw, 64)
		if err != nil || dt <= 0 {
			return "", nil, fmt.Errorf("bad time step %q", raw)
		}
		parsed = append(parsed, candidate{raw: raw, dt: dt})
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].dt > parsed[j].dt })

	best := ""
	results := make([]TuneResult, 0, len(parsed))
	for _, c := range parsed {
		steps := int(span/c.dt + 0.5)
		if steps < 1 {
			steps = 1
		}

		trial := *scn
		trial.TimeStep = c.raw
		trial.Steps = steps

		result, err := Run(ctx, &trial)
		if err != nil {
			return best, results, fmt.Errorf("dt %s: %w", c.raw, err)
		}

		ok := result.EnergyDrift <= limit
		if ok && best == "" {
			best = c.raw
		}
		results = append(results, TuneResult{
			TimeStep: c.raw,
			Steps:    steps,
			Drift:    result.EnergyDrift,
			Elapsed:  result.Elapsed,
			OK:       ok,
		})
	}

	return best, results, nil
}
