package runner

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decsim/decsim/internal/config"
	"github.com/decsim/decsim/internal/storage"
)

// Batch is a scripted sequence of runs loaded from a single yaml file.
// Each entry names a compiled-in preset or carries an inline scenario,
// optionally overriding steps, time step or precision.
type Batch struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Runs        []BatchEntry `yaml:"runs"`
}

type BatchEntry struct {
	Preset    string           `yaml:"preset,omitempty"`
	Scenario  *config.Scenario `yaml:"scenario,omitempty"`
	Steps     int              `yaml:"steps,omitempty"`
	TimeStep  string           `yaml:"time_step,omitempty"`
	Precision int              `yaml:"precision,omitempty"`
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parsing batch file: %w", err)
	}
	if len(batch.Runs) == 0 {
		return nil, fmt.Errorf("batch %q has no runs", batch.Name)
	}
	return &batch, nil
}

// resolve turns one entry into a standalone scenario. Entries never share
// state: presets are copied before any override is applied.
func (e *BatchEntry) resolve() (*config.Scenario, error) {
	var scn config.Scenario
	switch {
	case e.Preset != "" && e.Scenario != nil:
		return nil, fmt.Errorf("entry names preset %q and an inline scenario", e.Preset)
	case e.Preset != "":
		p := config.GetPreset(e.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q", e.Preset)
		}
		scn = *p
	case e.Scenario != nil:
		scn = *e.Scenario
	default:
		return nil, fmt.Errorf("entry has neither a preset nor a scenario")
	}

	if e.Steps > 0 {
		scn.Steps = e.Steps
	}
	if e.TimeStep != "" {
		scn.TimeStep = e.TimeStep
	}
	if e.Precision > 0 {
		scn.Precision = e.Precision
	}
	return &scn, nil
}

// RunBatch executes the entries in order, saving each completed run when a
// store is given. On failure it returns the results finished so far along
// with the error.
func RunBatch(ctx context.Context, batch *Batch, store *storage.Store) ([]*Result, error) {
	results := make([]*Result, 0, len(batch.Runs))

	for i, entry := range batch.Runs {
		scn, err := entry.resolve()
		if err != nil {
			return results, fmt.Errorf("run %d/%d: %w", i+1, len(batch.Runs), err)
		}

		fmt.Printf("running %d/%d: %s (%d steps at precision %d)\n",
			i+1, len(batch.Runs), scn.Name, scn.Steps, scn.Precision)

		result, err := Run(ctx, scn)
		if err != nil {
			return results, fmt.Errorf("run %d/%d %s: %w", i+1, len(batch.Runs), scn.Name, err)
		}

		if store != nil {
			if _, err := store.Save(result.Metadata(), result.History); err != nil {
				return results, fmt.Errorf("saving %s: %w", scn.Name, err)
			}
		}
		results = append(results, result)
	}

	return results, nil
}

// Metadata flattens a result into its stored form.
func (r *Result) Metadata() storage.RunMetadata {
	return storage.RunMetadata{
		Scenario:      r.Scenario,
		Precision:     r.Precision,
		TimeStep:      r.TimeStep,
		Steps:         r.Steps,
		Bodies:        r.Bodies,
		InitialEnergy: r.InitialEnergy,
		FinalEnergy:   r.FinalEnergy,
		EnergyDrift:   r.EnergyDrift,
	}
}
