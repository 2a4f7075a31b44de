package entity

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/quanta/internal/draw"
	"github.com/san-kum/quanta/internal/physics"
)

const linkThickness = 3.0

// JointLink is a cached view of one joint: the centres of the two bodies it
// joins.
type JointLink struct {
	Color  color.RGBA
	Handle physics.JointHandle
	A, B   mgl64.Vec2
}

// NewJointLink joins a and b with a prismatic joint. It reports false when
// the world refused the joint.
func NewJointLink(w *physics.World, a, b physics.BodyHandle, anchorA, anchorB mgl64.Vec2, c color.RGBA) (*JointLink, bool) {
	j := w.AddPrismaticJoint(a, b, anchorA, anchorB)
	if j.IsZero() {
		return nil, false
	}
	l := &JointLink{Color: c, Handle: j}
	l.Update(w)
	return l, true
}

// Update caches both body centres when the joint and its bodies resolve and
// keeps the previous values otherwise.
func (l *JointLink) Update(w *physics.World) {
	a, b, ok := w.JointBodies(l.Handle)
	if !ok || !w.BodyValid(a) || !w.BodyValid(b) {
		return
	}
	l.A, _ = w.Transform(a)
	l.B, _ = w.Transform(b)
}

func (l *JointLink) IsValid(w *physics.World) bool {
	_, _, ok := w.JointEndpoints(l.Handle)
	return ok
}

func (l *JointLink) Draw(s draw.Surface) {
	s.Line(l.A, l.B, linkThickness, l.Color)
}
