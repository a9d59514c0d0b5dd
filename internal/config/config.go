package config

import (
	"fmt"
	"os"

	"github.com/decsim/decsim/internal/dec"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeStep = "0.01"
	DefaultSteps    = 1000
)

// Scenario describes one simulation setup. Every physical quantity is a
// decimal string, so a scenario file states values exactly and no float
// conversion happens before the engine parses them.
type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Precision   int          `yaml:"precision"`
	TimeStep    string       `yaml:"time_step"`
	Steps       int          `yaml:"steps"`
	Bodies      []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	Name     string    `yaml:"name"`
	Mass     string    `yaml:"mass"`
	Position [3]string `yaml:"position"`
	Velocity [3]string `yaml:"velocity"`
}

func DefaultScenario() *Scenario {
	return &Scenario{
		Name:      "custom",
		Precision: dec.DefaultPrecision,
		TimeStep:  DefaultTimeStep,
		Steps:     DefaultSteps,
	}
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scn := DefaultScenario()
	if err := yaml.Unmarshal(data, scn); err != nil {
		return nil, err
	}
	return scn, nil
}

func Save(path string, scn *Scenario) error {
	data, err := yaml.Marshal(scn)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the scenario before it reaches the engine, so that a broken
// file fails with the offending field named instead of partway through a run.
func (s *Scenario) Validate() error {
	if s.Precision < 1 {
		return fmt.Errorf("scenario %q: precision %d is below 1", s.Name, s.Precision)
	}
	dt, err := decimal.NewFromString(s.TimeStep)
	if err != nil {
		return fmt.Errorf("scenario %q: bad time step %q: %v", s.Name, s.TimeStep, err)
	}
	if !dt.IsPositive() {
		return fmt.Errorf("scenario %q: time step %s is not positive", s.Name, dt)
	}
	if s.Steps < 0 {
		return fmt.Errorf("scenario %q: negative step count %d", s.Name, s.Steps)
	}
	seen := make(map[string]bool, len(s.Bodies))
	for _, b := range s.Bodies {
		if b.Name == "" {
			return fmt.Errorf("scenario %q: body with empty name", s.Name)
		}
		if seen[b.Name] {
			return fmt.Errorf("scenario %q: duplicate body %q", s.Name, b.Name)
		}
		seen[b.Name] = true
		m, err := decimal.NewFromString(b.Mass)
		if err != nil {
			return fmt.Errorf("scenario %q: body %q: bad mass %q: %v", s.Name, b.Name, b.Mass, err)
		}
		if !m.IsPositive() {
			return fmt.Errorf("scenario %q: body %q: mass %s is not positive", s.Name, b.Name, m)
		}
		for _, c := range b.Position {
			if _, err := decimal.NewFromString(c); err != nil {
				return fmt.Errorf("scenario %q: body %q: bad position component %q", s.Name, b.Name, c)
			}
		}
		for _, c := range b.Velocity {
			if _, err := decimal.NewFromString(c); err != nil {
				return fmt.Errorf("scenario %q: body %q: bad velocity component %q", s.Name, b.Name, c)
			}
		}
	}
	return nil
}
