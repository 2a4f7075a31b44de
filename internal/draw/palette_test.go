package draw

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestHex(t *testing.T) {
	tests := []struct {
		name string
		in   [3]uint8
		want string
	}{
		{"white", [3]uint8{255, 255, 255}, "#ffffff"},
		{"black", [3]uint8{0, 0, 0}, "#000000"},
		{"blue", [3]uint8{0, 121, 241}, "#0079f1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := White
			c.R, c.G, c.B = tt.in[0], tt.in[1], tt.in[2]
			if got := Hex(c); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRandomColorFromPalette(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 100; i++ {
		c := RandomColor(rng)
		found := false
		for _, p := range Palette {
			if p == c {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("colour %v not in palette", c)
		}
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.FillCircle(mgl64.Vec2{1, 2}, 3, Red)
	r.Line(mgl64.Vec2{}, mgl64.Vec2{1, 1}, 2, Green)
	r.Dot(mgl64.Vec2{}, Gray)
	r.Dot(mgl64.Vec2{5, 5}, Gray)

	if r.Count(OpCircle) != 1 || r.Count(OpLine) != 1 || r.Count(OpDot) != 2 {
		t.Errorf("unexpected counts in %+v", r.Calls)
	}
	r.Reset()
	if len(r.Calls) != 0 {
		t.Error("reset should drop calls")
	}
}
