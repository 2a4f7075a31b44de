package entity

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/quanta/internal/draw"
	"github.com/san-kum/quanta/internal/physics"
)

// Collider radius as a fraction of the drawn radius.
const (
	RandomShapeScale = 0.75
	CustomShapeScale = 0.9
)

// Quantum is a cached view of one physics body plus how to draw it. The
// world owns the body; the quantum is refreshed from it once per frame.
type Quantum struct {
	Key             uint64
	Position        mgl64.Vec2
	Rotation        float64
	Mass            float64
	Velocity        float64
	AngularVelocity float64
	Radius          float64
	Color           color.RGBA
	Handle          physics.BodyHandle
	BoundCount      int
	Bounds          []physics.JointHandle
}

// SpawnConfig drives random spawns.
type SpawnConfig struct {
	RadiusMin  float64
	RadiusMax  float64
	Speed      float64
	Rotate     float64
	BoundCount int
	Color      color.RGBA
	Props      physics.Properties
}

func DefaultSpawnConfig() SpawnConfig {
	return SpawnConfig{
		RadiusMin:  6,
		RadiusMax:  6,
		Speed:      100,
		Rotate:     2,
		BoundCount: DefaultBoundCount,
		Color:      draw.White,
		Props:      physics.DefaultProperties(),
	}
}

// NewRandom places a quantum at a random point inside the world bounds.
func NewRandom(w *physics.World, cfg SpawnConfig, rng *rand.Rand) *Quantum {
	radius := cfg.RadiusMin
	if cfg.RadiusMax > cfg.RadiusMin {
		radius += rng.Float64() * (cfg.RadiusMax - cfg.RadiusMin)
	}
	min, max := w.Bounds()
	pos := mgl64.Vec2{
		uniform(rng, min.X()+radius, max.X()-radius),
		uniform(rng, min.Y()+radius, max.Y()-radius),
	}
	rot := rng.Float64() * 2 * math.Pi

	h := w.AddDynamicBody(pos, rot, physics.Shape{Radius: radius * RandomShapeScale}, cfg.Props)
	q := &Quantum{
		Key:             h.Key(),
		Position:        pos,
		Rotation:        rot,
		Velocity:        rng.Float64() * cfg.Speed,
		AngularVelocity: uniform(rng, -cfg.Rotate, cfg.Rotate),
		Radius:          radius,
		Color:           cfg.Color,
		Handle:          h,
		BoundCount:      cfg.BoundCount,
	}
	q.Mass = w.Mass(h)
	return q
}

// NewAt places a quantum at an explicit position, as assemblies do.
func NewAt(w *physics.World, pos mgl64.Vec2, radius float64, boundCount int, c color.RGBA, props physics.Properties) *Quantum {
	h := w.AddDynamicBody(pos, 0, physics.Shape{Radius: radius * CustomShapeScale}, props)
	return &Quantum{
		Key:        h.Key(),
		Position:   pos,
		Mass:       w.Mass(h),
		Radius:     radius,
		Color:      c,
		Handle:     h,
		BoundCount: boundCount,
	}
}

// Update pulls position, rotation and mass from the world. It never writes
// back, so the cached velocity scalars do not move the body.
func (q *Quantum) Update(w *physics.World) {
	if !w.BodyValid(q.Handle) {
		return
	}
	d := w.Data(q.Handle)
	q.Position = d.Position
	q.Rotation = d.Rotation
	q.Mass = d.Mass
}

// Bind records a joint the quantum participates in.
func (q *Quantum) Bind(j physics.JointHandle) {
	q.Bounds = append(q.Bounds, j)
}

// Unbind drops joints that fail keep.
func (q *Quantum) Unbind(keep func(physics.JointHandle) bool) {
	n := 0
	for _, j := range q.Bounds {
		if keep(j) {
			q.Bounds[n] = j
			n++
		}
	}
	q.Bounds = q.Bounds[:n]
}

func (q *Quantum) Draw(s draw.Surface) {
	s.FillCircle(q.Position, q.Radius, q.Color)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return (lo + hi) / 2
	}
	return lo + rng.Float64()*(hi-lo)
}
