package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAddPrismaticJoint(t *testing.T) {
	w := newTestWorld(0)
	center := w.Center()
	major := w.AddDynamicBody(center, 0, unit(6), DefaultProperties())
	minorPos := center.Add(mgl64.Vec2{0, 14})
	minor := w.AddDynamicBody(minorPos, 0, unit(6), DefaultProperties())

	vr := minorPos.Sub(center).Mul(0.5)
	j := w.AddPrismaticJoint(major, minor, vr, vr.Mul(-1))
	if j.IsZero() || !w.JointValid(j) {
		t.Fatal("expected a valid joint")
	}

	axis, ok := w.JointAxis(j)
	if !ok || !axis.ApproxEqual(mgl64.Vec2{0, 1}) {
		t.Errorf("expected axis (0,1), got %v", axis)
	}
	lo, hi, ok := w.JointLimits(j)
	if !ok || lo != 0 || hi != 1 {
		t.Errorf("expected limits [0,1], got [%f,%f]", lo, hi)
	}
	a, b, ok := w.JointBodies(j)
	if !ok || a != major || b != minor {
		t.Errorf("unexpected joint bodies %v %v", a, b)
	}

	pa, pb, ok := w.JointEndpoints(j)
	if !ok {
		t.Fatal("endpoints should resolve")
	}
	mid := center.Add(vr)
	if !pa.ApproxEqual(mid) || !pb.ApproxEqual(mid) {
		t.Errorf("anchors should meet at %v, got %v and %v", mid, pa, pb)
	}
}

func TestPrismaticJointHoldsTravel(t *testing.T) {
	w := newTestWorld(0)
	center := w.Center()
	major := w.AddDynamicBody(center, 0, unit(6), FreeProperties())
	minorPos := center.Add(mgl64.Vec2{14, 0})
	minor := w.AddDynamicBody(minorPos, 0, unit(6), FreeProperties())
	vr := mgl64.Vec2{7, 0}
	w.AddPrismaticJoint(major, minor, vr, vr.Mul(-1))

	w.ApplyForce(minor, mgl64.Vec2{1e6, 0})
	for i := 0; i < 60; i++ {
		w.Step()
	}
	pa, _ := w.Transform(major)
	pb, _ := w.Transform(minor)
	if d := pb.Sub(pa).Len(); d > 17 {
		t.Errorf("minor escaped the travel limit, distance %f", d)
	}
}

func TestAddPrismaticJointInvalid(t *testing.T) {
	w := newTestWorld(0)
	a := w.AddDynamicBody(w.Center(), 0, unit(1), DefaultProperties())
	b := w.AddDynamicBody(w.Center().Add(mgl64.Vec2{5, 0}), 0, unit(1), DefaultProperties())
	w.RemoveBody(b)

	tests := []struct {
		name string
		a, b BodyHandle
	}{
		{"removed body", a, b},
		{"zero handle", a, BodyHandle{}},
		{"same body", a, a},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := w.AddPrismaticJoint(tt.a, tt.b, mgl64.Vec2{1, 0}, mgl64.Vec2{-1, 0})
			if !j.IsZero() {
				t.Errorf("expected zero handle, got %v", j)
			}
		})
	}
	if w.JointCount() != 0 {
		t.Errorf("expected no joints, got %d", w.JointCount())
	}
}

func TestRemoveBodyRemovesJoints(t *testing.T) {
	w := newTestWorld(0)
	center := w.Center()
	major := w.AddDynamicBody(center, 0, unit(6), DefaultProperties())
	var joints []JointHandle
	for i := 0; i < 4; i++ {
		a := float64(i) * math.Pi / 2
		pos := center.Add(mgl64.Vec2{14 * math.Cos(a), 14 * math.Sin(a)})
		minor := w.AddDynamicBody(pos, 0, unit(4), DefaultProperties())
		vr := pos.Sub(center).Mul(0.5)
		joints = append(joints, w.AddPrismaticJoint(major, minor, vr, vr.Mul(-1)))
	}
	if got := len(w.BodyJoints(major)); got != 4 {
		t.Fatalf("expected 4 joints on the major, got %d", got)
	}

	w.RemoveBody(major)
	if w.JointCount() != 0 {
		t.Errorf("expected joints removed with the body, got %d", w.JointCount())
	}
	for _, j := range joints {
		if _, _, ok := w.JointEndpoints(j); ok {
			t.Errorf("joint %v endpoints still resolve", j)
		}
	}
	if w.BodyCount() != 4 {
		t.Errorf("expected 4 minors left, got %d", w.BodyCount())
	}
	w.Step()
}
