package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

const (
	jointLower = 0.0
	jointUpper = 1.0
)

// AddPrismaticJoint slides b along normalize(anchorA-anchorB) in a's frame,
// with travel limited to [0, 1] and relative rotation locked. Anchors are
// body-local. The zero handle is returned when either body is invalid.
func (w *World) AddPrismaticJoint(a, b BodyHandle, anchorA, anchorB mgl64.Vec2) JointHandle {
	recA, okA := w.bodies.get(a.Handle)
	recB, okB := w.bodies.get(b.Handle)
	if !okA || !okB || a == b {
		return JointHandle{}
	}
	bodyA, bodyB := w.mustBody(recA), w.mustBody(recB)

	axis := anchorA.Sub(anchorB)
	if axis.LenSqr() == 0 {
		axis = mgl64.Vec2{1, 0}
	} else {
		axis = axis.Normalize()
	}

	grooveStart := anchorA.Add(axis.Mul(jointLower))
	grooveEnd := anchorA.Add(axis.Mul(jointUpper))
	groove := cp.NewGrooveJoint(bodyA, bodyB, toCP(grooveStart), toCP(grooveEnd), toCP(anchorB))
	gear := cp.NewGearJoint(bodyA, bodyB, bodyB.Angle()-bodyA.Angle(), 1)
	w.space.AddConstraint(groove)
	w.space.AddConstraint(gear)

	j := JointHandle{w.joints.insert(&jointRecord{
		groove:  groove,
		gear:    gear,
		a:       a,
		b:       b,
		anchorA: anchorA,
		anchorB: anchorB,
		axis:    axis,
		lower:   jointLower,
		upper:   jointUpper,
	})}
	recA.joints[j] = struct{}{}
	recB.joints[j] = struct{}{}
	return j
}

// RemoveJoint detaches the joint from both bodies; invalid handles are ignored.
func (w *World) RemoveJoint(j JointHandle) {
	rec, ok := w.joints.remove(j.Handle)
	if !ok {
		return
	}
	w.space.RemoveConstraint(rec.groove)
	w.space.RemoveConstraint(rec.gear)
	if a, ok := w.bodies.get(rec.a.Handle); ok {
		delete(a.joints, j)
	}
	if b, ok := w.bodies.get(rec.b.Handle); ok {
		delete(b.joints, j)
	}
}

func (w *World) JointValid(j JointHandle) bool {
	_, ok := w.joints.get(j.Handle)
	return ok
}

func (w *World) JointCount() int { return w.joints.len() }

func (w *World) JointBodies(j JointHandle) (a, b BodyHandle, ok bool) {
	rec, ok := w.joints.get(j.Handle)
	if !ok {
		return BodyHandle{}, BodyHandle{}, false
	}
	return rec.a, rec.b, true
}

// JointEndpoints returns the world positions of both anchors. ok is false
// when the joint or either body no longer resolves.
func (w *World) JointEndpoints(j JointHandle) (pa, pb mgl64.Vec2, ok bool) {
	rec, ok := w.joints.get(j.Handle)
	if !ok {
		return pa, pb, false
	}
	ra, okA := w.bodies.get(rec.a.Handle)
	rb, okB := w.bodies.get(rec.b.Handle)
	if !okA || !okB {
		return pa, pb, false
	}
	pa = fromCP(w.mustBody(ra).LocalToWorld(toCP(rec.anchorA)))
	pb = fromCP(w.mustBody(rb).LocalToWorld(toCP(rec.anchorB)))
	return pa, pb, true
}

func (w *World) JointAxis(j JointHandle) (mgl64.Vec2, bool) {
	rec, ok := w.joints.get(j.Handle)
	if !ok {
		return mgl64.Vec2{}, false
	}
	return rec.axis, true
}

func (w *World) JointLimits(j JointHandle) (lower, upper float64, ok bool) {
	rec, ok := w.joints.get(j.Handle)
	if !ok {
		return 0, 0, false
	}
	return rec.lower, rec.upper, true
}

// BodyJoints lists the joints attached to a body.
func (w *World) BodyJoints(h BodyHandle) []JointHandle {
	rec, ok := w.bodies.get(h.Handle)
	if !ok {
		return nil
	}
	out := make([]JointHandle, 0, len(rec.joints))
	for j := range rec.joints {
		out = append(out, j)
	}
	return out
}
