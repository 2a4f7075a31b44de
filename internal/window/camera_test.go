package window

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/quanta/internal/sim"
)

func settle(c *Camera) {
	for i := 0; i < 100 && c.Animating(); i++ {
		c.Update(0.05)
	}
}

func TestCameraZoomEases(t *testing.T) {
	c := NewCamera(mgl64.Vec2{700, 475}, 1)
	c.ZoomIn()
	if c.Zoom != 1 {
		t.Errorf("expected zoom to start at 1, got %f", c.Zoom)
	}
	if math.Abs(c.Goal()-1.1) > 1e-9 {
		t.Errorf("expected goal 1.1, got %f", c.Goal())
	}

	c.Update(zoomDuration / 2)
	if c.Zoom <= 1 || c.Zoom >= 1.1 {
		t.Errorf("expected zoom between 1 and 1.1 mid-tween, got %f", c.Zoom)
	}
	settle(c)
	if c.Animating() || c.Zoom != c.Goal() {
		t.Errorf("expected the tween to land on the goal, got %f", c.Zoom)
	}
}

func TestCameraZoomOutFloor(t *testing.T) {
	c := NewCamera(mgl64.Vec2{}, 1)
	for i := 0; i < 20; i++ {
		c.ZoomOut()
	}
	if math.Abs(c.Goal()-0.1) > 1e-9 {
		t.Errorf("expected zoom to stop at one step, got %f", c.Goal())
	}
	settle(c)
	if c.Zoom <= 0 {
		t.Errorf("expected positive zoom, got %f", c.Zoom)
	}
}

func TestCameraPanAndReset(t *testing.T) {
	home := mgl64.Vec2{700, 475}
	c := NewCamera(home, 0.5)
	c.Pan(-1, 0)
	c.Pan(0, 1)
	if c.Target != (mgl64.Vec2{650, 525}) {
		t.Errorf("expected (650, 525), got %v", c.Target)
	}
	c.ZoomIn()
	settle(c)
	c.Reset()
	if c.Target != home {
		t.Errorf("expected reset to recentre, got %v", c.Target)
	}
	settle(c)
	if c.Zoom != 0.5 {
		t.Errorf("expected home zoom, got %f", c.Zoom)
	}
}

func TestScreenToWorld(t *testing.T) {
	c := NewCamera(mgl64.Vec2{700, 475}, 2)
	offset := mgl64.Vec2{400, 300}
	if got := c.ScreenToWorld(offset, offset); got != c.Target {
		t.Errorf("expected the offset to map to the target, got %v", got)
	}
	got := c.ScreenToWorld(mgl64.Vec2{500, 300}, offset)
	if got != (mgl64.Vec2{750, 475}) {
		t.Errorf("expected (750, 475), got %v", got)
	}
}

func TestFitZoom(t *testing.T) {
	tests := []struct {
		screen, world mgl64.Vec2
		want          float64
	}{
		{mgl64.Vec2{1400, 950}, mgl64.Vec2{1400, 950}, 1},
		{mgl64.Vec2{700, 950}, mgl64.Vec2{1400, 950}, 0.5},
		{mgl64.Vec2{1400, 475}, mgl64.Vec2{1400, 950}, 0.5},
		{mgl64.Vec2{100, 100}, mgl64.Vec2{}, 1},
	}
	for _, tt := range tests {
		if got := FitZoom(tt.screen, tt.world); got != tt.want {
			t.Errorf("FitZoom(%v, %v) = %f, want %f", tt.screen, tt.world, got, tt.want)
		}
	}
}

func TestMenuButtons(t *testing.T) {
	buttons := MenuButtons(4)
	want := []sim.CommandKind{sim.SpawnTriplet, sim.SpawnBatch, sim.SpawnHex, sim.SpawnCustom, sim.Reset}
	if len(buttons) != len(want) {
		t.Fatalf("expected %d buttons, got %d", len(want), len(buttons))
	}
	for i, b := range buttons {
		if b.Command.Kind != want[i] {
			t.Errorf("button %d: expected %v, got %v", i, want[i], b.Command.Kind)
		}
		if b.Rect.Y+b.Rect.Height > barHeight {
			t.Errorf("button %s leaves the bar", b.Label)
		}
		if i > 0 && b.Rect.X <= buttons[i-1].Rect.X+buttons[i-1].Rect.Width {
			t.Errorf("button %s overlaps its neighbour", b.Label)
		}
	}
	if buttons[3].Command.Minors != 4 {
		t.Errorf("expected the n-gon button to carry k=4, got %d", buttons[3].Command.Minors)
	}

	hex := buttons[2].Rect
	b, ok := HitButton(buttons, rl.NewVector2(hex.X+hex.Width/2, hex.Y+hex.Height/2))
	if !ok || b.Command.Kind != sim.SpawnHex {
		t.Errorf("expected a hit on HEX, got %v, %v", b.Label, ok)
	}
	if _, ok := HitButton(buttons, rl.NewVector2(5, 300)); ok {
		t.Error("expected no hit below the bar")
	}
	if !OverMenu(rl.NewVector2(5, 10)) || OverMenu(rl.NewVector2(5, 300)) {
		t.Error("OverMenu disagrees with the bar height")
	}
}
