// Package draw defines the primitives entities use to render themselves and
// the shared colour palette.
package draw

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Surface receives world-space draw calls. Implementations map them to a
// terminal canvas or a window.
type Surface interface {
	FillCircle(center mgl64.Vec2, radius float64, c color.RGBA)
	Line(a, b mgl64.Vec2, thickness float64, c color.RGBA)
	RectOutline(min, max mgl64.Vec2, thickness float64, c color.RGBA)
	Dot(p mgl64.Vec2, c color.RGBA)
}

type Op int

const (
	OpCircle Op = iota
	OpLine
	OpRect
	OpDot
)

type Call struct {
	Op        Op
	A, B      mgl64.Vec2
	Radius    float64
	Thickness float64
	Color     color.RGBA
}

// Recorder is a Surface that keeps every call, for tests and headless runs.
type Recorder struct {
	Calls []Call
}

func (r *Recorder) FillCircle(center mgl64.Vec2, radius float64, c color.RGBA) {
	r.Calls = append(r.Calls, Call{Op: OpCircle, A: center, Radius: radius, Color: c})
}

func (r *Recorder) Line(a, b mgl64.Vec2, thickness float64, c color.RGBA) {
	r.Calls = append(r.Calls, Call{Op: OpLine, A: a, B: b, Thickness: thickness, Color: c})
}

func (r *Recorder) RectOutline(min, max mgl64.Vec2, thickness float64, c color.RGBA) {
	r.Calls = append(r.Calls, Call{Op: OpRect, A: min, B: max, Thickness: thickness, Color: c})
}

func (r *Recorder) Dot(p mgl64.Vec2, c color.RGBA) {
	r.Calls = append(r.Calls, Call{Op: OpDot, A: p, Color: c})
}

func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }
