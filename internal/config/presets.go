package config

import (
	"fmt"
	"sort"
)

var Presets = map[string]func(*Settings){
	"calm": func(s *Settings) {
		s.Population.Initial = 256
		s.Population.Min = 128
		s.Gravity.G = -20
		s.Impulse.Max = 40
	},
	"dense": func(s *Settings) {
		s.Population.Initial = 1536
		s.Population.Min = 1024
		s.Quantum.RadiusMin = 4
		s.Quantum.RadiusMax = 4
	},
	"repulsive": func(s *Settings) {
		s.Gravity.G = 50
		s.Gravity.IntervalMS = 100
	},
	"sparse": func(s *Settings) {
		s.Population.Initial = 128
		s.Population.Min = 64
		s.Gravity.Cutoff = 400
		s.Physics.Material = "bouncy"
	},
	"billiards": func(s *Settings) {
		s.Population.Initial = 96
		s.Population.Min = 48
		s.Gravity.G = 0
		s.Quantum.RadiusMin = 10
		s.Quantum.RadiusMax = 10
		s.Physics.Material = "free"
	},
}

// GetPreset returns the defaults with the named preset applied.
func GetPreset(name string) (*Settings, error) {
	apply, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	s := Default()
	apply(s)
	return s, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
