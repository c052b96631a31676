package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/carsim/internal/physics"
	"github.com/san-kum/carsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was produced.
type RunInfo struct {
	Scenario string
	Vehicle  string
	Driver   string
	Seed     int64
	Dt       float64
	Duration float64
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Vehicle   string             `json:"vehicle"`
	Driver    string             `json:"driver"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

func newRunID(scenario string) string {
	if scenario == "" {
		scenario = "run"
	}
	return fmt.Sprintf("%s_%s", scenario, uuid.NewString()[:8])
}

// Save writes metadata.json and states.csv for result and returns the run id.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	runID := newRunID(info.Scenario)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  info.Scenario,
		Vehicle:   info.Vehicle,
		Driver:    info.Driver,
		Timestamp: time.Now().UTC(),
		Seed:      info.Seed,
		Dt:        info.Dt,
		Duration:  info.Duration,
		Steps:     result.StepsTaken,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result); err != nil {
		return "", fmt.Errorf("write states: %w", err)
	}
	return runID, nil
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadStates reads back the recorded trajectory of a run.
func (s *Store) LoadStates(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

// LoadResult rebuilds the run description and trajectory of a stored run.
// Only the recorded columns are restored; metrics come from metadata.
func (s *Store) LoadResult(runID string) (RunInfo, *sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return RunInfo{}, nil, err
	}
	samples, err := s.LoadStates(runID)
	if err != nil {
		return RunInfo{}, nil, err
	}

	result := &sim.Result{
		States:     make([]physics.State, len(samples)),
		Times:      make([]float64, len(samples)),
		Inputs:     make([]physics.Input, 0, len(samples)),
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
	}
	for i, smp := range samples {
		result.States[i] = smp.State
		result.Times[i] = smp.Time
		if i < len(samples)-1 {
			result.Inputs = append(result.Inputs, smp.Input)
		}
	}

	info := RunInfo{
		Scenario: meta.Scenario,
		Vehicle:  meta.Vehicle,
		Driver:   meta.Driver,
		Seed:     meta.Seed,
		Dt:       meta.Dt,
		Duration: meta.Duration,
	}
	return info, result, nil
}
