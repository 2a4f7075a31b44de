package automation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/quanta/internal/config"
	"github.com/san-kum/quanta/internal/sim"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func smallSettings() *config.Settings {
	s := config.Default()
	s.Population.Initial = 10
	s.Population.Min = 10
	s.Seed = 5
	return s
}

const scenarioYAML = `
name: build-up
description: assemblies on a small population
preset: calm
seed: 9
frames: 3
steps:
  - frame: 1
    command: ngon:4
    repeat: 2
  - frame: 0
    command: triplet
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "build-up" || sc.Frames != 3 || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if sc.Steps[0].Frame != 0 || sc.Steps[1].Frame != 1 {
		t.Error("expected steps ordered by frame")
	}
	if sc.Steps[0].Repeat != 1 {
		t.Errorf("expected repeat to default to 1, got %d", sc.Steps[0].Repeat)
	}
	if sc.Steps[1].cmd != (sim.Command{Kind: sim.SpawnCustom, Minors: 4}) {
		t.Errorf("unexpected parsed command %+v", sc.Steps[1].cmd)
	}
}

func TestParseScenarioInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no frames", "name: x\n"},
		{"step past end", "frames: 2\nsteps:\n  - frame: 2\n    command: hex\n"},
		{"negative frame", "frames: 2\nsteps:\n  - frame: -1\n    command: hex\n"},
		{"bad command", "frames: 2\nsteps:\n  - frame: 0\n    command: square\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.data))
			if !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("expected ErrInvalidScenario, got %v", err)
			}
		})
	}

	if _, err := ParseScenario([]byte("frames: [")); err == nil {
		t.Error("expected a decode error")
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Preset != "calm" {
		t.Errorf("expected calm, got %q", sc.Preset)
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestScenarioSettings(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	base := config.Default()
	s, err := sc.Settings(base)
	if err != nil {
		t.Fatal(err)
	}
	if s.Seed != 9 || s.Population.Initial != 256 {
		t.Errorf("expected calm with seed 9, got seed %d initial %d", s.Seed, s.Population.Initial)
	}
	if base.Population.Initial != config.DefaultInitial {
		t.Error("base settings should not change")
	}

	sc.Preset = "nope"
	if _, err := sc.Settings(base); !errors.Is(err, config.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	s, err := sim.New(smallSettings(), sim.WithLogger(quiet))
	if err != nil {
		t.Fatal(err)
	}
	if err := RunScenario(context.Background(), s, sc, quiet); err != nil {
		t.Fatal(err)
	}

	if s.Frame() != 3 {
		t.Errorf("expected 3 frames, got %d", s.Frame())
	}
	// 10 seeded + a triplet (1+3) + two 4-gons (1+4 each)
	if got := s.Collector().Count(); got != 24 {
		t.Errorf("expected 24 quanta, got %d", got)
	}
	if got := s.World().JointCount(); got != 11 {
		t.Errorf("expected 11 joints, got %d", got)
	}
}

func TestRunScenarioCancelled(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	s, err := sim.New(smallSettings(), sim.WithLogger(quiet))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := RunScenario(ctx, s, sc, quiet); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunSweep(t *testing.T) {
	sweep := ParameterSweep{Param: "gravity", Min: -50, Max: 50, Steps: 3, Frames: 5}
	results, err := RunSweep(context.Background(), smallSettings(), sweep, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []float64{-50, 0, 50}
	for i, r := range results {
		if r.Value != want[i] {
			t.Errorf("step %d: expected %g, got %g", i, want[i], r.Value)
		}
		if r.Final.Frame != 5 {
			t.Errorf("step %d: expected 5 frames, got %d", i, r.Final.Frame)
		}
		if r.MaxEnergy < r.MeanEnergy {
			t.Errorf("step %d: max energy %g below mean %g", i, r.MaxEnergy, r.MeanEnergy)
		}
	}

	single, err := RunSweep(context.Background(), smallSettings(), ParameterSweep{Param: "radius", Min: 4, Max: 9, Steps: 1, Frames: 2}, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if len(single) != 1 || single[0].Value != 4 {
		t.Errorf("expected a single run at the minimum, got %+v", single)
	}
}

func TestRunSweepErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := RunSweep(ctx, smallSettings(), ParameterSweep{Param: "mass", Steps: 2, Frames: 2}, quiet); err == nil {
		t.Error("expected an error for an unknown parameter")
	}
	if _, err := RunSweep(ctx, smallSettings(), ParameterSweep{Param: "gravity", Steps: 0, Frames: 2}, quiet); err == nil {
		t.Error("expected an error for zero steps")
	}
	if _, err := RunSweep(ctx, smallSettings(), ParameterSweep{Param: "radius", Min: -1, Max: -1, Steps: 1, Frames: 2}, quiet); !errors.Is(err, config.ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings, got %v", err)
	}
}

func TestSweepParams(t *testing.T) {
	names := SweepParams()
	if len(names) != len(sweepParams) {
		t.Fatalf("expected %d names, got %d", len(sweepParams), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("expected sorted names, got %v", names)
		}
	}
}

func TestRunMonteCarlo(t *testing.T) {
	cfg := MonteCarloConfig{Trials: 3, Frames: 3, Seed: 42}
	first, err := RunMonteCarlo(context.Background(), smallSettings(), cfg, quiet)
	if err != nil {
		t.Fatal(err)
	}
	second, err := RunMonteCarlo(context.Background(), smallSettings(), cfg, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 trials, got %d", len(first))
	}

	seen := make(map[uint64]bool)
	for i, r := range first {
		if r.Trial != i {
			t.Errorf("expected trial %d, got %d", i, r.Trial)
		}
		if r.Seed == 0 || seen[r.Seed] {
			t.Errorf("trial %d: seed %d is zero or repeated", i, r.Seed)
		}
		seen[r.Seed] = true
		if r.Seed != second[i].Seed {
			t.Errorf("trial %d: seeds differ across identical runs", i)
		}
	}

	contained, escaped := MonteCarloStats(first)
	if contained+escaped != 3 {
		t.Errorf("expected 3 classified trials, got %d", contained+escaped)
	}

	if _, err := RunMonteCarlo(context.Background(), smallSettings(), MonteCarloConfig{Trials: 0, Frames: 1}, quiet); err == nil {
		t.Error("expected an error for zero trials")
	}
}

func TestMonteCarloStats(t *testing.T) {
	results := []MonteCarloResult{{Contained: true}, {Contained: false}, {Contained: true}}
	contained, escaped := MonteCarloStats(results)
	if contained != 2 || escaped != 1 {
		t.Errorf("expected 2/1, got %d/%d", contained, escaped)
	}
}
