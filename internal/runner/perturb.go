package runner

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/decsim/decsim/internal/config"
)

// PerturbationConfig drives a sensitivity study: the same scenario run
// repeatedly with randomly nudged initial conditions.
type PerturbationConfig struct {
	Trials     int
	Relative   float64 // nudge size relative to the largest coordinate in the system
	Seed       int64   // 0 seeds from the clock
	DriftLimit float64 // energy drift above this marks a trial unstable
}

// TrialResult records one perturbed run. Stable means the system stayed
// gravitationally bound (negative total energy) and the drift stayed under
// the configured limit.
type TrialResult struct {
	Trial       int
	EnergyDrift float64
	FinalEnergy float64
	Stable      bool
}

// RunPerturbed executes cfg.Trials runs of scn, each with every position and
// velocity component nudged by a uniform random fraction of the system scale.
func RunPerturbed(ctx context.Context, scn *config.Scenario, cfg PerturbationConfig) ([]TrialResult, error) {
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("perturbation study needs at least one trial")
	}
	if cfg.Relative <= 0 {
		cfg.Relative = 1e-6
	}
	if cfg.DriftLimit <= 0 {
		cfg.DriftLimit = 1e-3
	}

	posScale, velScale, err := systemScales(scn)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	results := make([]TrialResult, 0, cfg.Trials)
	for trial := 0; trial < cfg.Trials; trial++ {
		perturbed, err := perturbScenario(scn, rng, cfg.Relative*posScale, cfg.Relative*velScale)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial+1, err)
		}

		result, err := Run(ctx, perturbed)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial+1, err)
		}

		results = append(results, TrialResult{
			Trial:       trial,
			EnergyDrift: result.EnergyDrift,
			FinalEnergy: result.FinalEnergy,
			Stable:      result.EnergyDrift <= cfg.DriftLimit && result.FinalEnergy < 0,
		})

		if (trial+1)%10 == 0 {
			fmt.Printf("perturbation: %d/%d trials complete\n", trial+1, cfg.Trials)
		}
	}

	return results, nil
}

// PerturbationStats counts bound and unbound outcomes.
func PerturbationStats(results []TrialResult) (stable, unstable int) {
	for _, r := range results {
		if r.Stable {
			stable++
		} else {
			unstable++
		}
	}
	return
}

// systemScales finds the largest position and velocity magnitudes so nudges
// can be sized to the system rather than to an absolute constant.
func systemScales(scn *config.Scenario) (posScale, velScale float64, err error) {
	for _, body := range scn.Bodies {
		for i := 0; i < 3; i++ {
			p, err := strconv.ParseFloat(body.Position[i], 64)
			if err != nil {
				return 0, 0, fmt.Errorf("body %q position: %w", body.Name, err)
			}
			v, err := strconv.ParseFloat(body.Velocity[i], 64)
			if err != nil {
				return 0, 0, fmt.Errorf("body %q velocity: %w", body.Name, err)
			}
			posScale = math.Max(posScale, math.Abs(p))
			velScale = math.Max(velScale, math.Abs(v))
		}
	}
	return posScale, velScale, nil
}

func perturbScenario(scn *config.Scenario, rng *rand.Rand, posNudge, velNudge float64) (*config.Scenario, error) {
	out := *scn
	out.Bodies = make([]config.BodyConfig, len(scn.Bodies))
	copy(out.Bodies, scn.Bodies)

	for i := range out.Bodies {
		for c := 0; c < 3; c++ {
			p, err := strconv.ParseFloat(out.Bodies[i].Position[c], 64)
			if err != nil {
				return nil, fmt.Errorf("body %q position: %w", out.Bodies[i].Name, err)
			}
			v, err := strconv.ParseFloat(out.Bodies[i].Velocity[c], 64)
			if err != nil {
				return nil, fmt.Errorf("body %q velocity: %w", out.Bodies[i].Name, err)
			}
			p += (rng.Float64() - 0.5) * 2 * posNudge
			v += (rng.Float64() - 0.5) * 2 * velNudge
			out.Bodies[i].Position[c] = strconv.FormatFloat(p, 'g', -1, 64)
			out.Bodies[i].Velocity[c] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	return &out, nil
}
