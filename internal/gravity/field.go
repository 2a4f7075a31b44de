// Package gravity implements the short-range pairwise force field that is
// recomputed on a fixed cadence and injected into the physics world.
package gravity

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/quanta/internal/physics"
)

const (
	DefaultG        = -50.0
	DefaultCutoff   = 200.0
	DefaultInterval = 250 * time.Millisecond
)

// Target is the part of the physics world a pass reads and writes.
type Target interface {
	DynamicBodies() []physics.BodyState
	ResetForce(h physics.BodyHandle)
	ApplyForce(h physics.BodyHandle, f mgl64.Vec2)
}

// Field holds the constants of the pass and its time accumulator. A positive
// G pushes bodies apart, a negative G pulls them together.
type Field struct {
	G        float64
	Cutoff   float64
	Interval time.Duration

	acc    time.Duration
	passes int
}

func New(g, cutoff float64, interval time.Duration) *Field {
	return &Field{G: g, Cutoff: cutoff, Interval: interval}
}

func Default() *Field {
	return New(DefaultG, DefaultCutoff, DefaultInterval)
}

// Advance adds dt to the accumulator and runs at most one pass once it
// reaches Interval. The remainder carries over to the next call.
func (f *Field) Advance(dt time.Duration, t Target) bool {
	if f.Interval <= 0 {
		f.Pass(t)
		return true
	}
	f.acc += dt
	if f.acc < f.Interval {
		return false
	}
	f.acc -= f.Interval
	f.Pass(t)
	return true
}

// Pass replaces every body's pending force with its net field force.
func (f *Field) Pass(t Target) {
	bodies := t.DynamicBodies()
	forces := f.Forces(bodies)
	for i, b := range bodies {
		t.ResetForce(b.Handle)
		t.ApplyForce(b.Handle, forces[i])
	}
	f.passes++
}

// Forces computes the net force on each body:
// sum over j of G * unit(p_i - p_j) * (r_i + r_j) / d^2 for d < Cutoff.
func (f *Field) Forces(bodies []physics.BodyState) []mgl64.Vec2 {
	n := len(bodies)
	out := make([]mgl64.Vec2, n)
	cutoff2 := f.Cutoff * f.Cutoff

	for i := 0; i < n; i++ {
		pi := bodies[i].Position
		for j := i + 1; j < n; j++ {
			d := pi.Sub(bodies[j].Position)
			d2 := d.LenSqr()
			if d2 == 0 || d2 >= cutoff2 {
				continue
			}
			fij := d.Normalize().Mul(f.G * (bodies[i].Radius + bodies[j].Radius) / d2)
			out[i] = out[i].Add(fij)
			out[j] = out[j].Sub(fij)
		}
	}
	return out
}

func (f *Field) Reset() {
	f.acc = 0
	f.passes = 0
}

func (f *Field) Passes() int                { return f.passes }
func (f *Field) Accumulator() time.Duration { return f.acc }
