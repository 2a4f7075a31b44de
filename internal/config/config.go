package config

import (
	"fmt"
	"os"
	"time"

	"github.com/san-kum/quanta/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 1400.0
	DefaultHeight     = 950.0
	DefaultCullMargin = 50.0
	DefaultInitial    = 1024
	DefaultMin        = 512
	DefaultRadius     = 6.0
	DefaultSpeed      = 100.0
	DefaultRotate     = 2.0
	DefaultBoundCount = 3
	DefaultImpulseMax = 100.0
	DefaultG          = -50.0
	DefaultCutoff     = 200.0
	DefaultIntervalMS = 250
	DefaultOffset     = 14.0
	DefaultBatchCount = 12
	DefaultBatchMinK  = 1
	DefaultBatchMaxK  = 5
	DefaultCustomK    = 4
	DefaultTimeStep   = 1.0 / 60.0
	DefaultMaterial   = "default"
)

// Settings is the whole simulation context. It is built once and replaced
// as a unit, never edited field by field while frames run.
type Settings struct {
	World      WorldSettings      `yaml:"world"`
	Population PopulationSettings `yaml:"population"`
	Quantum    QuantumSettings    `yaml:"quantum"`
	Impulse    ImpulseSettings    `yaml:"impulse"`
	Gravity    GravitySettings    `yaml:"gravity"`
	Assembly   AssemblySettings   `yaml:"assembly"`
	Physics    PhysicsSettings    `yaml:"physics"`
	Seed       uint64             `yaml:"seed"`
}

type WorldSettings struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Walls      bool    `yaml:"walls"`
	CullMargin float64 `yaml:"cull_margin"`
}

type PopulationSettings struct {
	Initial int `yaml:"initial"`
	Min     int `yaml:"min"`
}

type QuantumSettings struct {
	RadiusMin  float64 `yaml:"radius_min"`
	RadiusMax  float64 `yaml:"radius_max"`
	Speed      float64 `yaml:"speed"`
	Rotate     float64 `yaml:"rotate"`
	BoundCount int     `yaml:"bound_count"`
}

type ImpulseSettings struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type GravitySettings struct {
	G          float64 `yaml:"g"`
	Cutoff     float64 `yaml:"cutoff"`
	IntervalMS int     `yaml:"interval_ms"`
}

type AssemblySettings struct {
	Offset     float64 `yaml:"offset"`
	BatchCount int     `yaml:"batch_count"`
	BatchMinK  int     `yaml:"batch_min_k"`
	BatchMaxK  int     `yaml:"batch_max_k"`
	CustomK    int     `yaml:"custom_k"`
}

type PhysicsSettings struct {
	TimeStep float64 `yaml:"time_step"`
	Material string  `yaml:"material"`
}

func Default() *Settings {
	return &Settings{
		World: WorldSettings{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Walls:      true,
			CullMargin: DefaultCullMargin,
		},
		Population: PopulationSettings{
			Initial: DefaultInitial,
			Min:     DefaultMin,
		},
		Quantum: QuantumSettings{
			RadiusMin:  DefaultRadius,
			RadiusMax:  DefaultRadius,
			Speed:      DefaultSpeed,
			Rotate:     DefaultRotate,
			BoundCount: DefaultBoundCount,
		},
		Impulse: ImpulseSettings{Max: DefaultImpulseMax},
		Gravity: GravitySettings{
			G:          DefaultG,
			Cutoff:     DefaultCutoff,
			IntervalMS: DefaultIntervalMS,
		},
		Assembly: AssemblySettings{
			Offset:     DefaultOffset,
			BatchCount: DefaultBatchCount,
			BatchMinK:  DefaultBatchMinK,
			BatchMaxK:  DefaultBatchMaxK,
			CustomK:    DefaultCustomK,
		},
		Physics: PhysicsSettings{
			TimeStep: DefaultTimeStep,
			Material: DefaultMaterial,
		},
	}
}

// Load reads a yaml file over the defaults and validates the result.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Marshal encodes s as yaml.
func Marshal(s *Settings) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return data, nil
}

func Save(path string, s *Settings) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Settings) Validate() error {
	switch {
	case s.World.Width <= 0 || s.World.Height <= 0:
		return fmt.Errorf("%w: world size %gx%g", ErrInvalidSettings, s.World.Width, s.World.Height)
	case s.Population.Initial < 0 || s.Population.Min < 0:
		return fmt.Errorf("%w: negative population", ErrInvalidSettings)
	case s.Quantum.RadiusMin <= 0 || s.Quantum.RadiusMax < s.Quantum.RadiusMin:
		return fmt.Errorf("%w: radius range [%g, %g]", ErrInvalidSettings, s.Quantum.RadiusMin, s.Quantum.RadiusMax)
	case s.Impulse.Min < 0 || s.Impulse.Max < s.Impulse.Min:
		return fmt.Errorf("%w: impulse range [%g, %g]", ErrInvalidSettings, s.Impulse.Min, s.Impulse.Max)
	case s.Gravity.Cutoff < 0 || s.Gravity.IntervalMS < 0:
		return fmt.Errorf("%w: gravity cutoff %g interval %dms", ErrInvalidSettings, s.Gravity.Cutoff, s.Gravity.IntervalMS)
	case s.Assembly.Offset <= 0:
		return fmt.Errorf("%w: assembly offset %g", ErrInvalidSettings, s.Assembly.Offset)
	case s.Assembly.BatchMinK < 1 || s.Assembly.BatchMaxK < s.Assembly.BatchMinK:
		return fmt.Errorf("%w: batch k range [%d, %d]", ErrInvalidSettings, s.Assembly.BatchMinK, s.Assembly.BatchMaxK)
	case s.Physics.TimeStep <= 0:
		return fmt.Errorf("%w: time step %g", ErrInvalidSettings, s.Physics.TimeStep)
	}
	if _, ok := physics.Material(s.Physics.Material); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMaterial, s.Physics.Material)
	}
	return nil
}

func (s *Settings) GravityInterval() time.Duration {
	return time.Duration(s.Gravity.IntervalMS) * time.Millisecond
}

// Properties resolves the material name. Unknown names fall back to the
// default material; Validate reports them.
func (s *Settings) Properties() physics.Properties {
	if p, ok := physics.Material(s.Physics.Material); ok {
		return p
	}
	return physics.DefaultProperties()
}

// Clone returns an independent copy.
func (s *Settings) Clone() *Settings {
	c := *s
	return &c
}
