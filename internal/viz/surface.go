package viz

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Surface draws world-space calls onto a Canvas. The world rectangle is
// stretched over the whole canvas.
type Surface struct {
	Canvas   *Canvas
	Min, Max mgl64.Vec2
	// ShowGrid lets Dot calls through. The background grid is too dense for
	// most terminals, so it is off by default.
	ShowGrid bool
}

func NewSurface(c *Canvas, min, max mgl64.Vec2) *Surface {
	return &Surface{Canvas: c, Min: min, Max: max}
}

func (s *Surface) scale() (float64, float64) {
	w, h := s.Canvas.Dots()
	span := s.Max.Sub(s.Min)
	sx, sy := 1.0, 1.0
	if span.X() > 0 {
		sx = float64(w) / span.X()
	}
	if span.Y() > 0 {
		sy = float64(h) / span.Y()
	}
	return sx, sy
}

// Project maps a world point to canvas sub-pixels.
func (s *Surface) Project(p mgl64.Vec2) (int, int) {
	sx, sy := s.scale()
	d := p.Sub(s.Min)
	return int(math.Floor(d.X() * sx)), int(math.Floor(d.Y() * sy))
}

// Unproject maps a terminal cell back to the world point at its centre.
func (s *Surface) Unproject(col, row int) mgl64.Vec2 {
	sx, sy := s.scale()
	x := (float64(col)*2 + 1) / sx
	y := (float64(row)*4 + 2) / sy
	return s.Min.Add(mgl64.Vec2{x, y})
}

func (s *Surface) FillCircle(center mgl64.Vec2, radius float64, c color.RGBA) {
	sx, sy := s.scale()
	x, y := s.Project(center)
	s.Canvas.FillEllipse(x, y, radius*sx, radius*sy, c)
}

func (s *Surface) Line(a, b mgl64.Vec2, _ float64, c color.RGBA) {
	x0, y0 := s.Project(a)
	x1, y1 := s.Project(b)
	s.Canvas.DrawLine(x0, y0, x1, y1, c)
}

// RectOutline hugs the canvas edge for the last row and column so the world
// boundary stays on screen.
func (s *Surface) RectOutline(min, max mgl64.Vec2, _ float64, c color.RGBA) {
	w, h := s.Canvas.Dots()
	x0, y0 := s.Project(min)
	x1, y1 := s.Project(max)
	x1, y1 = clampInt(x1, 0, w-1), clampInt(y1, 0, h-1)
	s.Canvas.DrawLine(x0, y0, x1, y0, c)
	s.Canvas.DrawLine(x1, y0, x1, y1, c)
	s.Canvas.DrawLine(x1, y1, x0, y1, c)
	s.Canvas.DrawLine(x0, y1, x0, y0, c)
}

func (s *Surface) Dot(p mgl64.Vec2, c color.RGBA) {
	if !s.ShowGrid {
		return
	}
	x, y := s.Project(p)
	s.Canvas.Set(x, y, c)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
