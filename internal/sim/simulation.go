package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/quanta/internal/config"
	"github.com/san-kum/quanta/internal/draw"
	"github.com/san-kum/quanta/internal/entity"
	"github.com/san-kum/quanta/internal/gravity"
	"github.com/san-kum/quanta/internal/metrics"
	"github.com/san-kum/quanta/internal/physics"
)

const (
	gridSpacing   = 50.0
	boundsOutline = 4.0
)

// FrameInput is everything a front-end hands to one frame.
type FrameInput struct {
	Dt       time.Duration
	Pointer  mgl64.Vec2
	Commands *CommandQueue
}

type Observer interface {
	Observe(s metrics.FrameStats)
}

type Option func(*Simulation)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

// WithRand overrides the generator derived from the settings seed.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulation) { s.rng = r }
}

func WithObserver(o Observer) Option {
	return func(s *Simulation) { s.observers = append(s.observers, o) }
}

// Simulation runs the sandbox one frame at a time. It is not safe for
// concurrent use; front-ends drive it from a single goroutine.
type Simulation struct {
	settings  *config.Settings
	world     *physics.World
	collector *entity.Collector
	links     []*entity.JointLink
	field     *gravity.Field
	observers []Observer
	rng       *rand.Rand
	log       *slog.Logger
	seed      uint64

	pointer mgl64.Vec2
	elapsed time.Duration
	frame   uint64
	stats   metrics.FrameStats
}

// New builds a simulation and seeds its initial population.
func New(settings *config.Settings, opts ...Option) (*Simulation, error) {
	if settings == nil {
		settings = config.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("new simulation: %w", err)
	}
	s := &Simulation{
		settings: settings.Clone(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seed = settings.Seed
	if s.seed == 0 {
		s.seed = uint64(time.Now().UnixNano())
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
	}
	s.log = s.log.With("component", "sim")

	s.world = physics.NewWorld(s.worldOptions())
	s.collector = entity.NewCollector(s.spawnConfig(), s.rng)
	s.field = gravity.New(s.settings.Gravity.G, s.settings.Gravity.Cutoff, s.settings.GravityInterval())

	s.collector.AddMany(s.settings.Population.Initial, s.world)
	s.log.Info("simulation created",
		"seed", s.seed,
		"quanta", s.collector.Count(),
		"floor", s.settings.Population.Min,
		"gravity", s.settings.Gravity.G)
	return s, nil
}

func (s *Simulation) worldOptions() physics.Options {
	return physics.Options{
		Width:      s.settings.World.Width,
		Height:     s.settings.World.Height,
		TimeStep:   s.settings.Physics.TimeStep,
		ImpulseMin: s.settings.Impulse.Min,
		ImpulseMax: s.settings.Impulse.Max,
		Walls:      s.settings.World.Walls,
		Rand:       s.rng,
		Logger:     s.log,
	}
}

func (s *Simulation) spawnConfig() entity.SpawnConfig {
	return entity.SpawnConfig{
		RadiusMin:  s.settings.Quantum.RadiusMin,
		RadiusMax:  s.settings.Quantum.RadiusMax,
		Speed:      s.settings.Quantum.Speed,
		Rotate:     s.settings.Quantum.Rotate,
		BoundCount: s.settings.Quantum.BoundCount,
		Color:      draw.White,
		Props:      s.settings.Properties(),
	}
}

// Update runs one frame: input sync, commands, population floor, entity
// refresh, culling, gravity, then one physics step.
func (s *Simulation) Update(in FrameInput) metrics.FrameStats {
	s.pointer = in.Pointer
	s.elapsed += in.Dt
	s.frame++

	if in.Commands != nil {
		for _, cmd := range in.Commands.Drain() {
			s.execute(cmd)
		}
	}

	spawned := 0
	if s.collector.Count() < s.settings.Population.Min {
		s.collector.AddRandom(s.world)
		spawned = 1
	}

	s.collector.Update(s.world)
	s.refreshLinks()
	culled := s.cull()

	passed := s.field.Advance(in.Dt, s.world)
	events := s.world.Step()

	s.stats = metrics.FrameStats{
		Frame:         s.frame,
		Time:          s.elapsed,
		Population:    s.collector.Count(),
		Floor:         s.settings.Population.Min,
		Joints:        s.world.JointCount(),
		Contacts:      len(events),
		KineticEnergy: s.kineticEnergy(),
		GravityPass:   passed,
		Spawned:       spawned,
		Culled:        culled,
	}
	for _, o := range s.observers {
		o.Observe(s.stats)
	}
	return s.stats
}

func (s *Simulation) execute(cmd Command) {
	s.log.Debug("command", "kind", cmd.Kind.String(), "minors", cmd.Minors)
	switch cmd.Kind {
	case SpawnTriplet:
		s.SpawnAssembly(entity.Triplet())
	case SpawnHex:
		s.SpawnAssembly(entity.Hex())
	case SpawnCustom:
		k := cmd.Minors
		if k <= 0 {
			k = s.settings.Assembly.CustomK
		}
		s.SpawnAssembly(entity.NGon(k))
	case SpawnBatch:
		lo, hi := s.settings.Assembly.BatchMinK, s.settings.Assembly.BatchMaxK
		for i := 0; i < s.settings.Assembly.BatchCount; i++ {
			s.SpawnAssembly(entity.NGon(lo + s.rng.IntN(hi-lo+1)))
		}
	case Reset:
		s.Reset()
	default:
		s.log.Warn("unknown command", "kind", int(cmd.Kind))
	}
}

// SpawnAssembly builds spec at a random anchor cell near the world centre.
func (s *Simulation) SpawnAssembly(spec entity.AssemblySpec) entity.Assembly {
	spec.Offset = s.settings.Assembly.Offset
	spec.BoundCount = s.settings.Quantum.BoundCount
	spec.Props = s.settings.Properties()
	center := entity.AnchorCell(s.world, s.rng)
	asm := entity.BuildAssembly(s.world, s.collector, center, spec, s.rng)
	s.links = append(s.links, asm.Links...)
	s.log.Debug("assembly built", "name", spec.Name, "minors", len(asm.Minors), "links", len(asm.Links))
	return asm
}

// refreshLinks pulls endpoints for every link and drops the ones whose joint
// or bodies are gone.
func (s *Simulation) refreshLinks() {
	n := 0
	for _, l := range s.links {
		l.Update(s.world)
		if l.IsValid(s.world) {
			s.links[n] = l
			n++
		}
	}
	if n == len(s.links) {
		return
	}
	for i := n; i < len(s.links); i++ {
		s.links[i] = nil
	}
	s.links = s.links[:n]
	s.collector.EachMut(func(q *entity.Quantum) {
		if len(q.Bounds) > 0 {
			q.Unbind(s.world.JointValid)
		}
	})
}

// cull destroys quanta that left the world rectangle by more than the
// configured margin.
func (s *Simulation) cull() int {
	margin := s.settings.World.CullMargin
	if margin <= 0 {
		return 0
	}
	min, max := s.world.Bounds()
	min = min.Sub(mgl64.Vec2{margin, margin})
	max = max.Add(mgl64.Vec2{margin, margin})

	var out []physics.BodyHandle
	s.collector.Each(func(q entity.Quantum) {
		p := q.Position
		if p.X() < min.X() || p.Y() < min.Y() || p.X() > max.X() || p.Y() > max.Y() {
			out = append(out, q.Handle)
		}
	})
	for _, h := range out {
		s.DestroyQuantum(h)
	}
	if len(out) > 0 {
		s.log.Debug("culled quanta", "count", len(out))
	}
	return len(out)
}

// DestroyQuantum removes the registry entry, the body and its joints
// together. It reports whether the quantum existed.
func (s *Simulation) DestroyQuantum(h physics.BodyHandle) bool {
	if _, ok := s.collector.Get(h); !ok {
		return false
	}
	s.collector.Remove(h)
	s.world.RemoveBody(h)
	s.refreshLinks()
	s.log.Debug("quantum destroyed", "handle", h.String())
	return true
}

// Reset empties the world and the registry in one call. The floor refills
// the population one quantum per frame afterwards.
func (s *Simulation) Reset() {
	quanta := s.collector.Count()
	s.world.Reset()
	s.collector = entity.NewCollector(s.spawnConfig(), s.rng)
	s.links = nil
	s.field.Reset()
	s.log.Info("simulation reset", "removed", quanta)
}

// ApplySettings swaps in a new settings value. Changes to the world itself
// (size, walls, step, impulses) rebuild it empty; everything else applies in
// place.
func (s *Simulation) ApplySettings(settings *config.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("apply settings: %w", err)
	}
	prev := s.settings
	s.settings = settings.Clone()

	s.field.G = s.settings.Gravity.G
	s.field.Cutoff = s.settings.Gravity.Cutoff
	s.field.Interval = s.settings.GravityInterval()
	s.collector.SetSpawn(s.spawnConfig())

	rebuild := prev.World != s.settings.World ||
		prev.Physics.TimeStep != s.settings.Physics.TimeStep ||
		prev.Impulse != s.settings.Impulse
	if rebuild {
		s.world = physics.NewWorld(s.worldOptions())
		s.collector = entity.NewCollector(s.spawnConfig(), s.rng)
		s.links = nil
		s.field.Reset()
	}
	s.log.Info("settings applied", "rebuild", rebuild, "floor", s.settings.Population.Min, "gravity", s.settings.Gravity.G)
	return nil
}

// Run drives frames fixed-dt frames, stopping early when ctx is done or fn
// returns false. A non-positive frames runs until one of those happens.
func (s *Simulation) Run(ctx context.Context, frames int, dt time.Duration, cmds *CommandQueue, fn func(metrics.FrameStats) bool) error {
	if dt <= 0 {
		return fmt.Errorf("dt must be positive, got %v", dt)
	}
	for i := 0; frames <= 0 || i < frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		stats := s.Update(FrameInput{Dt: dt, Pointer: s.pointer, Commands: cmds})
		if fn != nil && !fn(stats) {
			return nil
		}
	}
	return nil
}

// Draw renders the boundary, the dot grid, links and quanta from cached
// state only.
func (s *Simulation) Draw(surface draw.Surface) {
	min, max := s.world.Bounds()
	surface.RectOutline(min, max, boundsOutline, draw.Gray)
	for x := min.X(); x <= max.X(); x += gridSpacing {
		for y := min.Y(); y <= max.Y(); y += gridSpacing {
			surface.Dot(mgl64.Vec2{x, y}, draw.DarkGray)
		}
	}
	for _, l := range s.links {
		l.Draw(surface)
	}
	s.collector.Draw(surface)
}

func (s *Simulation) kineticEnergy() float64 {
	total := 0.0
	s.collector.Each(func(q entity.Quantum) {
		total += s.world.KineticEnergy(q.Handle)
	})
	return total
}

// Nearest returns the quantum closest to h within rangeR.
func (s *Simulation) Nearest(h physics.BodyHandle, rangeR float64) (*entity.Quantum, bool) {
	other, ok := s.world.NearestOther(h, rangeR)
	if !ok {
		return nil, false
	}
	return s.collector.Get(other)
}

func (s *Simulation) World() *physics.World        { return s.world }
func (s *Simulation) Collector() *entity.Collector { return s.collector }
func (s *Simulation) Links() []*entity.JointLink   { return s.links }
func (s *Simulation) Field() *gravity.Field        { return s.field }
func (s *Simulation) Stats() metrics.FrameStats    { return s.stats }
func (s *Simulation) Frame() uint64                { return s.frame }
func (s *Simulation) Elapsed() time.Duration       { return s.elapsed }
func (s *Simulation) Pointer() mgl64.Vec2          { return s.pointer }
func (s *Simulation) Seed() uint64                 { return s.seed }
func (s *Simulation) Settings() *config.Settings   { return s.settings.Clone() }
