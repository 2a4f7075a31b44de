package window

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	panStep = 50.0
	// zoomStep is a fraction of the home zoom.
	zoomStep     = 0.1
	zoomDuration = float32(0.25)
)

// Camera is a 2D view onto the world. Zoom changes are eased over
// zoomDuration seconds; pans are immediate.
type Camera struct {
	Target mgl64.Vec2
	Zoom   float64

	home     mgl64.Vec2
	homeZoom float64
	goal     float64
	tween    *gween.Tween
}

// NewCamera centres on center at zoom. zoom is also the home zoom Reset
// returns to.
func NewCamera(center mgl64.Vec2, zoom float64) *Camera {
	return &Camera{
		Target:   center,
		Zoom:     zoom,
		home:     center,
		homeZoom: zoom,
		goal:     zoom,
	}
}

// FitZoom is the zoom that shows a world of size world on a screen of size
// screen.
func FitZoom(screen, world mgl64.Vec2) float64 {
	if world.X() <= 0 || world.Y() <= 0 {
		return 1
	}
	return min(screen.X()/world.X(), screen.Y()/world.Y())
}

func (c *Camera) ZoomIn() { c.zoomTo(c.goal + c.homeZoom*zoomStep) }

// ZoomOut stops one step above zero.
func (c *Camera) ZoomOut() {
	next := c.goal - c.homeZoom*zoomStep
	if next < c.homeZoom*zoomStep/2 {
		return
	}
	c.zoomTo(next)
}

// Reset eases back to the home zoom and recentres immediately.
func (c *Camera) Reset() {
	c.Target = c.home
	c.zoomTo(c.homeZoom)
}

func (c *Camera) Pan(dx, dy float64) {
	c.Target = c.Target.Add(mgl64.Vec2{dx * panStep, dy * panStep})
}

func (c *Camera) zoomTo(z float64) {
	c.goal = z
	c.tween = gween.New(float32(c.Zoom), float32(z), zoomDuration, ease.OutQuad)
}

// Goal is the zoom the camera is easing towards.
func (c *Camera) Goal() float64 { return c.goal }

func (c *Camera) Animating() bool { return c.tween != nil }

// Update advances the zoom tween by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.tween == nil {
		return
	}
	z, done := c.tween.Update(dt)
	c.Zoom = float64(z)
	if done {
		c.Zoom = c.goal
		c.tween = nil
	}
}

// ScreenToWorld maps a screen point to the world for a camera whose target
// is drawn at offset.
func (c *Camera) ScreenToWorld(p, offset mgl64.Vec2) mgl64.Vec2 {
	return p.Sub(offset).Mul(1 / c.Zoom).Add(c.Target)
}
