// Package automation drives simulations without a front-end: scripted
// scenarios, parameter sweeps and seeded trial batches.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"sort"
	"time"

	"github.com/san-kum/quanta/internal/config"
	"github.com/san-kum/quanta/internal/metrics"
	"github.com/san-kum/quanta/internal/sim"
	"gopkg.in/yaml.v3"
)

// FrameDt is the fixed frame length used by every automated run.
const FrameDt = time.Second / 60

var ErrInvalidScenario = errors.New("automation: invalid scenario")

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Preset      string         `yaml:"preset"`
	Seed        uint64         `yaml:"seed"`
	Frames      int            `yaml:"frames"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep queues Command Repeat times once Frame frames have run.
type ScenarioStep struct {
	Frame   int    `yaml:"frame"`
	Command string `yaml:"command"`
	Repeat  int    `yaml:"repeat"`

	cmd sim.Command
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Validate parses every step command and orders steps by frame.
func (sc *Scenario) Validate() error {
	if sc.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidScenario, sc.Frames)
	}
	for i := range sc.Steps {
		step := &sc.Steps[i]
		if step.Frame < 0 || step.Frame >= sc.Frames {
			return fmt.Errorf("%w: step %d at frame %d outside [0, %d)", ErrInvalidScenario, i+1, step.Frame, sc.Frames)
		}
		cmd, err := sim.ParseCommand(step.Command)
		if err != nil {
			return fmt.Errorf("%w: step %d: %v", ErrInvalidScenario, i+1, err)
		}
		step.cmd = cmd
		if step.Repeat <= 0 {
			step.Repeat = 1
		}
	}
	sort.SliceStable(sc.Steps, func(i, j int) bool { return sc.Steps[i].Frame < sc.Steps[j].Frame })
	return nil
}

// Settings resolves the scenario's preset and seed over base.
func (sc *Scenario) Settings(base *config.Settings) (*config.Settings, error) {
	s := base.Clone()
	if sc.Preset != "" {
		apply, ok := config.Presets[sc.Preset]
		if !ok {
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownPreset, sc.Preset)
		}
		apply(s)
	}
	if sc.Seed != 0 {
		s.Seed = sc.Seed
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// RunScenario executes every step of sc against s. Steps at frame 0 are
// queued before the first frame.
func RunScenario(ctx context.Context, s *sim.Simulation, sc *Scenario, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("scenario", sc.Name)

	var queue sim.CommandQueue
	next, done := 0, 0
	enqueue := func() {
		for next < len(sc.Steps) && sc.Steps[next].Frame == done {
			step := sc.Steps[next]
			for i := 0; i < step.Repeat; i++ {
				queue.Push(step.cmd)
			}
			log.Debug("step queued", "frame", done, "command", step.cmd.Kind, "repeat", step.Repeat)
			next++
		}
	}

	enqueue()
	err := s.Run(ctx, sc.Frames, FrameDt, &queue, func(metrics.FrameStats) bool {
		done++
		enqueue()
		return true
	})
	if err != nil {
		return fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	log.Info("scenario complete", "frames", done, "steps", len(sc.Steps))
	return nil
}

// sweepParams maps a sweepable name to the settings field it drives.
var sweepParams = map[string]func(*config.Settings, float64){
	"gravity": func(s *config.Settings, v float64) { s.Gravity.G = v },
	"cutoff":  func(s *config.Settings, v float64) { s.Gravity.Cutoff = v },
	"radius": func(s *config.Settings, v float64) {
		s.Quantum.RadiusMin = v
		s.Quantum.RadiusMax = v
	},
	"impulse": func(s *config.Settings, v float64) {
		s.Impulse.Min = min(s.Impulse.Min, v)
		s.Impulse.Max = v
	},
}

func SweepParams() []string {
	names := make([]string, 0, len(sweepParams))
	for name := range sweepParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParameterSweep runs simulations across a range of parameter values
type ParameterSweep struct {
	Param  string
	Min    float64
	Max    float64
	Steps  int
	Frames int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	Value      float64
	Final      metrics.FrameStats
	MeanEnergy float64
	MaxEnergy  float64
	Contacts   int
	Culled     int
}

// RunSweep executes a parameter sweep. Every run shares base's seed so
// only the swept value differs.
func RunSweep(ctx context.Context, base *config.Settings, sweep ParameterSweep, log *slog.Logger) ([]SweepResult, error) {
	apply, ok := sweepParams[sweep.Param]
	if !ok {
		return nil, fmt.Errorf("unknown sweep parameter %q (available: %v)", sweep.Param, SweepParams())
	}
	if sweep.Steps <= 0 || sweep.Frames <= 0 {
		return nil, fmt.Errorf("sweep needs positive steps and frames, got %d and %d", sweep.Steps, sweep.Frames)
	}
	if log == nil {
		log = slog.Default()
	}

	seed := base.Seed
	if seed == 0 {
		seed = 1
	}
	paramStep := 0.0
	if sweep.Steps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.Steps-1)
	}

	results := make([]SweepResult, 0, sweep.Steps)
	for i := 0; i < sweep.Steps; i++ {
		value := sweep.Min + float64(i)*paramStep
		s := base.Clone()
		s.Seed = seed
		apply(s, value)

		result, err := runTrial(ctx, s, sweep.Frames, log)
		if err != nil {
			return results, fmt.Errorf("sweep %s=%g: %w", sweep.Param, value, err)
		}
		result.Value = value
		results = append(results, result)

		log.Info("sweep step", "step", i+1, "of", sweep.Steps, sweep.Param, value)
	}
	return results, nil
}

func runTrial(ctx context.Context, s *config.Settings, frames int, log *slog.Logger) (SweepResult, error) {
	simulation, err := sim.New(s, sim.WithLogger(log))
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	var energy float64
	err = simulation.Run(ctx, frames, FrameDt, nil, func(f metrics.FrameStats) bool {
		energy += f.KineticEnergy
		result.MaxEnergy = max(result.MaxEnergy, f.KineticEnergy)
		result.Contacts += f.Contacts
		result.Culled += f.Culled
		return true
	})
	if err != nil {
		return SweepResult{}, err
	}
	result.Final = simulation.Stats()
	result.MeanEnergy = energy / float64(frames)
	return result, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Trials int
	Frames int
	Seed   uint64
}

// MonteCarloResult holds statistics from one seeded trial.
type MonteCarloResult struct {
	Trial      int
	Seed       uint64
	Final      metrics.FrameStats
	MeanEnergy float64
	Culled     int
	Contained  bool // no quantum left the world
}

// RunMonteCarlo repeats base with a fresh seed per trial.
func RunMonteCarlo(ctx context.Context, base *config.Settings, cfg MonteCarloConfig, log *slog.Logger) ([]MonteCarloResult, error) {
	if cfg.Trials <= 0 || cfg.Frames <= 0 {
		return nil, fmt.Errorf("monte carlo needs positive trials and frames, got %d and %d", cfg.Trials, cfg.Frames)
	}
	if log == nil {
		log = slog.Default()
	}

	master := cfg.Seed
	if master == 0 {
		master = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(master, master>>1))

	results := make([]MonteCarloResult, 0, cfg.Trials)
	for trial := 0; trial < cfg.Trials; trial++ {
		s := base.Clone()
		s.Seed = rng.Uint64() | 1

		r, err := runTrial(ctx, s, cfg.Frames, log)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}
		results = append(results, MonteCarloResult{
			Trial:      trial,
			Seed:       s.Seed,
			Final:      r.Final,
			MeanEnergy: r.MeanEnergy,
			Culled:     r.Culled,
			Contained:  r.Culled == 0,
		})

		if (trial+1)%10 == 0 {
			log.Info("monte carlo progress", "done", trial+1, "of", cfg.Trials)
		}
	}
	return results, nil
}

// MonteCarloStats counts trials that kept every quantum in the world.
func MonteCarloStats(results []MonteCarloResult) (contained int, escaped int) {
	for _, r := range results {
		if r.Contained {
			contained++
		} else {
			escaped++
		}
	}
	return
}
