package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	s := Default()

	if err := s.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if s.World.Width != 1400 || s.World.Height != 950 {
		t.Errorf("expected 1400x950 world, got %gx%g", s.World.Width, s.World.Height)
	}
	if s.Population.Min > s.Population.Initial {
		t.Error("initial population should cover the floor")
	}
	if s.GravityInterval() != 250*time.Millisecond {
		t.Errorf("expected 250ms gravity interval, got %v", s.GravityInterval())
	}
	if s.Gravity.G >= 0 {
		t.Error("default gravity should attract")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		err    error
	}{
		{"ok", func(*Settings) {}, nil},
		{"zero width", func(s *Settings) { s.World.Width = 0 }, ErrInvalidSettings},
		{"negative min", func(s *Settings) { s.Population.Min = -1 }, ErrInvalidSettings},
		{"radius range", func(s *Settings) { s.Quantum.RadiusMax = 1 }, ErrInvalidSettings},
		{"impulse range", func(s *Settings) { s.Impulse.Min = 200 }, ErrInvalidSettings},
		{"negative interval", func(s *Settings) { s.Gravity.IntervalMS = -5 }, ErrInvalidSettings},
		{"batch k", func(s *Settings) { s.Assembly.BatchMinK = 0 }, ErrInvalidSettings},
		{"time step", func(s *Settings) { s.Physics.TimeStep = 0 }, ErrInvalidSettings},
		{"material", func(s *Settings) { s.Physics.Material = "rubber" }, ErrUnknownMaterial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			err := s.Validate()
			if tt.err == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quanta.yaml")
	s := Default()
	s.Seed = 99
	s.Gravity.G = 12.5
	s.Physics.Material = "bouncy"

	if err := Save(path, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Seed != 99 || got.Gravity.G != 12.5 || got.Physics.Material != "bouncy" {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("population:\n  min: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Population.Min != 10 {
		t.Errorf("expected min 10, got %d", s.Population.Min)
	}
	if s.Population.Initial != DefaultInitial || s.World.Width != DefaultWidth {
		t.Error("fields absent from the file should keep their defaults")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("world:\n  width: -3\n"), 0644)
	if _, err := Load(bad); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	s, err := GetPreset("repulsive")
	if err != nil {
		t.Fatalf("expected preset, got %v", err)
	}
	if s.Gravity.G <= 0 {
		t.Errorf("repulsive preset should have positive G, got %f", s.Gravity.G)
	}
	if s.World.Width != DefaultWidth {
		t.Error("presets should start from the defaults")
	}
}

func TestGetPresetNotFound(t *testing.T) {
	_, err := GetPreset("nonexistent")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestPresetsValidate(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d names, got %d", len(Presets), len(names))
	}
	for i, name := range names {
		if i > 0 && names[i-1] > name {
			t.Errorf("names not sorted: %v", names)
		}
		s, err := GetPreset(name)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestClone(t *testing.T) {
	s := Default()
	c := s.Clone()
	c.Population.Min = 1
	if s.Population.Min == 1 {
		t.Error("clone should not share state")
	}
}
