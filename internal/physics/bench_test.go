package physics

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func benchWorld(n int) *World {
	opts := DefaultOptions()
	opts.Rand = rand.New(rand.NewPCG(3, 4))
	w := NewWorld(opts)
	for i := 0; i < n; i++ {
		pos := mgl64.Vec2{opts.Rand.Float64() * opts.Width, opts.Rand.Float64() * opts.Height}
		w.AddDynamicBody(pos, 0, unit(3), DefaultProperties())
	}
	return w
}

func BenchmarkStep256(b *testing.B) {
	w := benchWorld(256)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Step()
	}
}

func BenchmarkStep1024(b *testing.B) {
	w := benchWorld(1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Step()
	}
}
