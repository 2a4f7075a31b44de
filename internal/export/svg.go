package export

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/quanta/internal/draw"
)

// SVG is a draw.Surface that records one frame as vector markup. World
// units map to SVG units times Scale.
type SVG struct {
	Min, Max mgl64.Vec2
	Scale    float64
	// Grid keeps Dot calls; a full background grid is a few hundred
	// circles per frame.
	Grid bool
	body strings.Builder
	n    int
}

func NewSVG(min, max mgl64.Vec2, scale float64) *SVG {
	if scale <= 0 {
		scale = 1
	}
	return &SVG{Min: min, Max: max, Scale: scale}
}

func (s *SVG) point(p mgl64.Vec2) (float64, float64) {
	d := p.Sub(s.Min).Mul(s.Scale)
	return d.X(), d.Y()
}

func fill(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf(`fill="%s"`, draw.Hex(c))
	}
	return fmt.Sprintf(`fill="%s" fill-opacity="%.2f"`, draw.Hex(c), float64(c.A)/255)
}

func (s *SVG) FillCircle(center mgl64.Vec2, radius float64, c color.RGBA) {
	x, y := s.point(center)
	fmt.Fprintf(&s.body, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" %s/>\n", x, y, radius*s.Scale, fill(c))
	s.n++
}

func (s *SVG) Line(a, b mgl64.Vec2, thickness float64, c color.RGBA) {
	x0, y0 := s.point(a)
	x1, y1 := s.point(b)
	fmt.Fprintf(&s.body, "<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\" stroke-width=\"%.1f\"/>\n",
		x0, y0, x1, y1, draw.Hex(c), thickness*s.Scale)
	s.n++
}

func (s *SVG) RectOutline(min, max mgl64.Vec2, thickness float64, c color.RGBA) {
	x0, y0 := s.point(min)
	x1, y1 := s.point(max)
	fmt.Fprintf(&s.body, "<rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" fill=\"none\" stroke=\"%s\" stroke-width=\"%.1f\"/>\n",
		x0, y0, x1-x0, y1-y0, draw.Hex(c), thickness*s.Scale)
	s.n++
}

func (s *SVG) Dot(p mgl64.Vec2, c color.RGBA) {
	if !s.Grid {
		return
	}
	x, y := s.point(p)
	fmt.Fprintf(&s.body, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" %s/>\n", x, y, s.Scale, fill(c))
	s.n++
}

// Elements is the number of shapes recorded so far.
func (s *SVG) Elements() int { return s.n }

func (s *SVG) String() string {
	size := s.Max.Sub(s.Min).Mul(s.Scale)
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size.X(), size.Y(), size.X(), size.Y())
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// SeriesToSVG plots values against their index as a polyline, for example
// kinetic energy per frame.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	rangeY := hi - lo
	if rangeY == 0 {
		rangeY = 1
	}
	lo -= rangeY * 0.1
	hi += rangeY * 0.1
	rangeY = hi - lo
	rangeX := float64(len(values) - 1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-lo)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
