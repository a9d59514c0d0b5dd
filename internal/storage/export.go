package storage

import (
	"encoding/json"
	"io"

	"github.com/decsim/decsim/internal/gravity"
)

type ExportData struct {
	Scenario      string             `json:"scenario"`
	Precision     int                `json:"precision"`
	TimeStep      string             `json:"time_step"`
	Steps         int                `json:"steps"`
	Bodies        []string           `json:"bodies"`
	InitialEnergy float64            `json:"initial_energy"`
	FinalEnergy   float64            `json:"final_energy"`
	EnergyDrift   float64            `json:"energy_drift"`
	History       []gravity.Snapshot `json:"history"`
}

// WriteJSON exports a run with its metadata and full history as one
// indented JSON document.
func WriteJSON(w io.Writer, meta *RunMetadata, history []gravity.Snapshot) error {
	data := ExportData{
		Scenario:      meta.Scenario,
		Precision:     meta.Precision,
		TimeStep:      meta.TimeStep,
		Steps:         meta.Steps,
		Bodies:        meta.Bodies,
		InitialEnergy: meta.InitialEnergy,
		FinalEnergy:   meta.FinalEnergy,
		EnergyDrift:   meta.EnergyDrift,
		History:       history,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
