// Package storage persists completed runs as flat files: one directory per
// run holding the metadata, the full snapshot history and a CSV of per-step
// body states. Everything stored is display-precision float data; the decimal
// state never leaves the engine.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/decsim/decsim/internal/gravity"
)

// DefaultDir is where runs land unless the caller picks another base.
const DefaultDir = "decsim_data"

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string    `json:"id"`
	Scenario      string    `json:"scenario"`
	Timestamp     time.Time `json:"timestamp"`
	Precision     int       `json:"precision"`
	TimeStep      string    `json:"time_step"`
	Steps         int       `json:"steps"`
	Bodies        []string  `json:"bodies"`
	InitialEnergy float64   `json:"initial_energy"`
	FinalEnergy   float64   `json:"final_energy"`
	EnergyDrift   float64   `json:"energy_drift"`
}

// Save writes one run directory and returns its id. The id and timestamp
// fields of meta are filled here; Bodies must list the body names in
// simulation order so the CSV columns are deterministic.
func (s *Store) Save(meta RunMetadata, history []gravity.Snapshot) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "history.json"), history); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, meta.Bodies, history); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteCSV writes one row per snapshot: time, total energy, then position
// and velocity triples for each named body in order.
func WriteCSV(w io.Writer, bodies []string, history []gravity.Snapshot) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"time", "total_energy"}
	for _, name := range bodies {
		header = append(header,
			name+"_px", name+"_py", name+"_pz",
			name+"_vx", name+"_vy", name+"_vz")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	ff := func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	for _, snap := range history {
		row := []string{ff(snap.Time), ff(snap.TotalEnergy)}
		for _, name := range bodies {
			obj := snap.Objects[name]
			row = append(row,
				ff(obj.Position.X), ff(obj.Position.Y), ff(obj.Position.Z),
				ff(obj.Velocity.X), ff(obj.Velocity.Y), ff(obj.Velocity.Z))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns the metadata of every stored run, oldest first. Directories
// without readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadHistory(runID string) ([]gravity.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "history.json"))
	if err != nil {
		return nil, err
	}

	var history []gravity.Snapshot
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}
