package window

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColBar     = rl.NewColor(24, 24, 24, 235)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColTitle   = rl.NewColor(230, 41, 55, 255)
)

// Surface draws world-space calls with raylib. It must be used between
// BeginMode2D and EndMode2D.
type Surface struct{}

func toColor(c color.RGBA) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }

func toVec(v mgl64.Vec2) rl.Vector2 { return rl.NewVector2(float32(v.X()), float32(v.Y())) }

func (Surface) FillCircle(center mgl64.Vec2, radius float64, c color.RGBA) {
	rl.DrawCircleV(toVec(center), float32(radius), toColor(c))
}

func (Surface) Line(a, b mgl64.Vec2, thickness float64, c color.RGBA) {
	rl.DrawLineEx(toVec(a), toVec(b), float32(thickness), toColor(c))
}

func (Surface) RectOutline(min, max mgl64.Vec2, thickness float64, c color.RGBA) {
	size := max.Sub(min)
	rect := rl.NewRectangle(float32(min.X()), float32(min.Y()), float32(size.X()), float32(size.Y()))
	rl.DrawRectangleLinesEx(rect, float32(thickness), toColor(c))
}

func (Surface) Dot(p mgl64.Vec2, c color.RGBA) {
	rl.DrawCircleV(toVec(p), 1, toColor(c))
}

// drawTelemetry plots values as a line strip in the rectangle at (x, y).
func drawTelemetry(values []float64, x, y, w, h float32, col rl.Color) {
	if len(values) < 2 {
		return
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	points := make([]rl.Vector2, len(values))
	for i, v := range values {
		px := x + float32(i)/float32(len(values)-1)*w
		norm := (v - lo) / (hi - lo)
		py := y + h - float32(norm)*h
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, col)
}
