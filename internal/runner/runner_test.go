package runner

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/decsim/decsim/internal/config"
)

func testScenario() *config.Scenario {
	return &config.Scenario{
		Name:      "pair",
		Precision: 30,
		TimeStep:  "0.01",
		Steps:     10,
		Bodies: []config.BodyConfig{
			{Name: "alpha", Mass: "1.5E8", Position: [3]string{"1", "0", "0"}, Velocity: [3]string{"0", "0.05", "0"}},
			{Name: "beta", Mass: "1.5E8", Position: [3]string{"-1", "0", "0"}, Velocity: [3]string{"0", "-0.05", "0"}},
		},
	}
}

func TestBuild(t *testing.T) {
	sim, err := Build(testScenario())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if sim.Precision() != 30 {
		t.Errorf("expected precision 30, got %d", sim.Precision())
	}
	if sim.TimeStep().String() != "0.01" {
		t.Errorf("expected time step 0.01, got %s", sim.TimeStep())
	}

	names := sim.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("unexpected body order: %v", names)
	}

	alpha, ok := sim.Body("alpha")
	if !ok {
		t.Fatal("alpha not found")
	}
	if alpha.Mass.String() != "150000000" {
		t.Errorf("unexpected alpha mass: %s", alpha.Mass)
	}
}

func TestBuild_InvalidScenario(t *testing.T) {
	scn := testScenario()
	scn.Bodies[0].Mass = "-1"

	if _, err := Build(scn); err == nil {
		t.Error("expected error for non-positive mass")
	}
}

func TestRun(t *testing.T) {
	res, err := Run(context.Background(), testScenario())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if res.Scenario != "pair" {
		t.Errorf("expected scenario pair, got %s", res.Scenario)
	}
	if len(res.History) != 10 {
		t.Fatalf("expected 10 snapshots, got %d", len(res.History))
	}
	if got := res.History[9].Time; math.Abs(got-0.1) > 1e-12 {
		t.Errorf("expected final time 0.1, got %v", got)
	}
	if len(res.Bodies) != 2 {
		t.Errorf("expected 2 bodies, got %v", res.Bodies)
	}

	// The pair is bound, so the total energy is negative, and ten
	// near-circular steps barely move it.
	if res.InitialEnergy >= 0 {
		t.Errorf("expected negative total energy, got %v", res.InitialEnergy)
	}
	if res.EnergyDrift > 1e-3 {
		t.Errorf("energy drift too large: %v", res.EnergyDrift)
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, testScenario()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSweep(t *testing.T) {
	scn := testScenario()
	scn.Steps = 5
	precisions := []int{20, 40}

	results, err := Sweep(context.Background(), scn, precisions)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	for i, res := range results {
		if res.Precision != precisions[i] {
			t.Errorf("result %d: expected precision %d, got %d", i, precisions[i], res.Precision)
		}
		if len(res.History) != 5 {
			t.Errorf("result %d: expected 5 snapshots, got %d", i, len(res.History))
		}
	}

	// Both precisions resolve the same physics well beyond float64
	// resolution, so the reported energies agree.
	lo, hi := results[0].FinalEnergy, results[1].FinalEnergy
	if math.Abs(lo-hi) > math.Abs(hi)*1e-9 {
		t.Errorf("final energies diverge: %v vs %v", lo, hi)
	}
}

func TestSweep_InvalidPrecision(t *testing.T) {
	if _, err := Sweep(context.Background(), testScenario(), []int{0}); err == nil {
		t.Error("expected error for precision 0")
	}
}
