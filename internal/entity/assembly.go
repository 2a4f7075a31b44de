package entity

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/quanta/internal/draw"
	"github.com/san-kum/quanta/internal/physics"
)

const (
	DefaultOffset  = 14.0
	AnchorCellSize = 100.0

	// DefaultBoundCount is the bound count every spawned quantum carries
	// unless settings say otherwise.
	DefaultBoundCount = 3
)

// AssemblySpec describes a major quantum with k minors tethered around it.
type AssemblySpec struct {
	Name        string
	Minors      int
	Offset      float64
	BoundCount  int
	MajorRadius float64
	MinorRadius float64
	MajorColor  color.RGBA
	MinorColor  color.RGBA
	Props       physics.Properties
}

func Triplet() AssemblySpec {
	return AssemblySpec{
		Name:        "triplet",
		Minors:      3,
		Offset:      DefaultOffset,
		BoundCount:  DefaultBoundCount,
		MajorRadius: 7,
		MinorRadius: 7,
		MajorColor:  draw.Blue,
		MinorColor:  draw.Green,
		Props:       physics.DefaultProperties(),
	}
}

func Hex() AssemblySpec {
	s := Triplet()
	s.Name = "hex"
	s.Minors = 6
	return s
}

func NGon(k int) AssemblySpec {
	if k < 1 {
		k = 1
	}
	return AssemblySpec{
		Name:        fmt.Sprintf("%d-gon", k),
		Minors:      k,
		Offset:      DefaultOffset,
		BoundCount:  DefaultBoundCount,
		MajorRadius: 9,
		MinorRadius: 6,
		MajorColor:  draw.Red,
		MinorColor:  draw.Green,
		Props:       physics.DefaultProperties(),
	}
}

type Assembly struct {
	Major  physics.BodyHandle
	Minors []physics.BodyHandle
	Links  []*JointLink
}

// BuildAssembly spawns the major at center and the minors evenly around it,
// each joined to the major by a prismatic joint along the offset axis.
func BuildAssembly(w *physics.World, c *Collector, center mgl64.Vec2, spec AssemblySpec, rng *rand.Rand) Assembly {
	major := NewAt(w, center, spec.MajorRadius, spec.BoundCount, spec.MajorColor, spec.Props)
	c.Add(major)

	asm := Assembly{
		Major:  major.Handle,
		Minors: make([]physics.BodyHandle, 0, spec.Minors),
		Links:  make([]*JointLink, 0, spec.Minors),
	}
	step := 2 * math.Pi / float64(spec.Minors)
	for i := 0; i < spec.Minors; i++ {
		a := float64(i) * step
		pos := center.Add(mgl64.Vec2{math.Cos(a), math.Sin(a)}.Mul(spec.Offset))
		minor := NewAt(w, pos, spec.MinorRadius, spec.BoundCount, spec.MinorColor, spec.Props)
		c.Add(minor)
		asm.Minors = append(asm.Minors, minor.Handle)

		vr := pos.Sub(center).Mul(0.5)
		link, ok := NewJointLink(w, major.Handle, minor.Handle, vr, vr.Mul(-1), draw.RandomColor(rng))
		if !ok {
			continue
		}
		major.Bind(link.Handle)
		minor.Bind(link.Handle)
		asm.Links = append(asm.Links, link)
	}
	return asm
}

// AnchorCell picks a random point in the square of side AnchorCellSize
// centred on the world centre.
func AnchorCell(w *physics.World, rng *rand.Rand) mgl64.Vec2 {
	half := AnchorCellSize / 2
	return w.Center().Add(mgl64.Vec2{
		uniform(rng, -half, half),
		uniform(rng, -half, half),
	})
}
