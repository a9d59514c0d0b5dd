// Package runner turns declarative scenarios into executed simulations
// and collects summary figures for storage and display.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/decsim/decsim/internal/config"
	"github.com/decsim/decsim/internal/gravity"
	"github.com/decsim/decsim/internal/metrics"
	"github.com/decsim/decsim/internal/vec"
)

// Result collects everything a finished run produced.
type Result struct {
	Scenario      string
	Precision     int
	TimeStep      string
	Steps         int
	Bodies        []string
	History       []gravity.Snapshot
	InitialEnergy float64
	FinalEnergy   float64
	EnergyDrift   float64
	Elapsed       time.Duration
}

// Build constructs a simulator from a scenario. The scenario is
// validated first, so malformed input surfaces here rather than mid-run.
func Build(scn *config.Scenario) (*gravity.Simulator, error) {
	if err := scn.Validate(); err != nil {
		return nil, err
	}

	sim, err := gravity.New(scn.Precision)
	if err != nil {
		return nil, err
	}

	dt, err := sim.Context().Parse(scn.TimeStep)
	if err != nil {
		return nil, fmt.Errorf("time step %q: %w", scn.TimeStep, err)
	}
	if err := sim.SetTimeStep(dt); err != nil {
		return nil, err
	}

	for _, bc := range scn.Bodies {
		mass, err := sim.Context().Parse(bc.Mass)
		if err != nil {
			return nil, fmt.Errorf("body %q mass: %w", bc.Name, err)
		}
		pos, err := vec.Parse(sim.Context(), bc.Position[0], bc.Position[1], bc.Position[2])
		if err != nil {
			return nil, fmt.Errorf("body %q position: %w", bc.Name, err)
		}
		vel, err := vec.Parse(sim.Context(), bc.Velocity[0], bc.Velocity[1], bc.Velocity[2])
		if err != nil {
			return nil, fmt.Errorf("body %q velocity: %w", bc.Name, err)
		}

		body, err := gravity.NewBody(bc.Name, mass, pos, vel)
		if err != nil {
			return nil, err
		}
		if err := sim.AddBody(body); err != nil {
			return nil, err
		}
	}

	return sim, nil
}

// Run builds a scenario and executes it to completion.
func Run(ctx context.Context, scn *config.Scenario) (*Result, error) {
	sim, err := Build(scn)
	if err != nil {
		return nil, err
	}

	e0, err := sim.TotalEnergy()
	if err != nil {
		return nil, err
	}
	initial := e0.InexactFloat64()

	start := time.Now()
	history, err := sim.Run(ctx, scn.Steps)
	if err != nil {
		return nil, err
	}

	final := initial
	if len(history) > 0 {
		final = history[len(history)-1].TotalEnergy
	}

	return &Result{
		Scenario:      scn.Name,
		Precision:     sim.Precision(),
		TimeStep:      scn.TimeStep,
		Steps:         scn.Steps,
		Bodies:        sim.Names(),
		History:       history,
		InitialEnergy: initial,
		FinalEnergy:   final,
		EnergyDrift:   metrics.RelativeDrift(initial, final),
		Elapsed:       time.Since(start),
	}, nil
}
