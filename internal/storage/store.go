// Package storage keeps headless runs on disk: one directory per run with
// the settings and final metrics in metadata.json and one row per frame in
// frames.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/quanta/internal/config"
	"github.com/san-kum/quanta/internal/metrics"
)

var ErrRunNotFound = errors.New("storage: run not found")

var frameHeader = []string{
	"frame", "time", "population", "floor", "joints", "contacts",
	"kinetic_energy", "gravity_pass", "spawned", "culled",
}

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
	ID        string             `json:"id"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      uint64             `json:"seed"`
	Frames    int                `json:"frames"`
	Duration  float64            `json:"duration"`
	Settings  *config.Settings   `json:"settings"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Log is a simulation observer that keeps every frame for Save.
type Log struct {
	Frames []metrics.FrameStats
}

func (l *Log) Observe(f metrics.FrameStats) { l.Frames = append(l.Frames, f) }

// Save writes a run and returns its id.
func (s *Store) Save(preset string, settings *config.Settings, seed uint64, frames []metrics.FrameStats, values map[string]float64) (string, error) {
	now := time.Now()
	name := preset
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    preset,
		Timestamp: now,
		Seed:      seed,
		Frames:    len(frames),
		Settings:  settings,
		Metrics:   values,
	}
	if len(frames) > 0 {
		meta.Duration = frames[len(frames)-1].Time.Seconds()
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, "frames.csv"), frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metadata: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	return nil
}

func writeFrames(path string, frames []metrics.FrameStats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frames: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(frameHeader); err != nil {
		return err
	}
	for _, fr := range frames {
		row := []string{
			strconv.FormatUint(fr.Frame, 10),
			strconv.FormatFloat(fr.Time.Seconds(), 'f', 6, 64),
			strconv.Itoa(fr.Population),
			strconv.Itoa(fr.Floor),
			strconv.Itoa(fr.Joints),
			strconv.Itoa(fr.Contacts),
			strconv.FormatFloat(fr.KineticEnergy, 'f', 6, 64),
			strconv.FormatBool(fr.GravityPass),
			strconv.Itoa(fr.Spawned),
			strconv.Itoa(fr.Culled),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &meta, nil
}

// LoadFrames reads frames.csv back. Malformed rows are skipped.
func (s *Store) LoadFrames(runID string) ([]metrics.FrameStats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []metrics.FrameStats{}, nil
	}

	frames := make([]metrics.FrameStats, 0, len(records)-1)
	for _, record := range records[1:] {
		fr, ok := parseFrame(record)
		if !ok {
			continue
		}
		frames = append(frames, fr)
	}
	return frames, nil
}

func parseFrame(record []string) (metrics.FrameStats, bool) {
	if len(record) != len(frameHeader) {
		return metrics.FrameStats{}, false
	}
	var (
		fr   metrics.FrameStats
		errs []error
	)
	atoi := func(s string) int {
		v, err := strconv.Atoi(s)
		errs = append(errs, err)
		return v
	}
	frame, err := strconv.ParseUint(record[0], 10, 64)
	errs = append(errs, err)
	secs, err := strconv.ParseFloat(record[1], 64)
	errs = append(errs, err)
	ke, err := strconv.ParseFloat(record[6], 64)
	errs = append(errs, err)
	pass, err := strconv.ParseBool(record[7])
	errs = append(errs, err)

	fr.Frame = frame
	fr.Time = time.Duration(secs * float64(time.Second))
	fr.Population = atoi(record[2])
	fr.Floor = atoi(record[3])
	fr.Joints = atoi(record[4])
	fr.Contacts = atoi(record[5])
	fr.KineticEnergy = ke
	fr.GravityPass = pass
	fr.Spawned = atoi(record[8])
	fr.Culled = atoi(record[9])
	return fr, errors.Join(errs...) == nil
}
