package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// ContactSet returns the bodies whose shapes reach within radius of the
// body's centre. The body itself, sensors and static geometry are excluded,
// and a sensor body never reports contacts.
func (w *World) ContactSet(h BodyHandle, radius float64) map[BodyHandle]struct{} {
	out := make(map[BodyHandle]struct{})
	rec, ok := w.bodies.get(h.Handle)
	if !ok || rec.sensor {
		return out
	}
	center := w.mustBody(rec).Position()
	w.circleQuery(center, radius, func(shape *cp.Shape) {
		other, ok := w.queryable(shape, h)
		if ok {
			out[other] = struct{}{}
		}
	})
	return out
}

// NearestOther returns the dynamic, non-sensor body with the closest centre
// inside rangeR. Ties keep the first body found.
func (w *World) NearestOther(h BodyHandle, rangeR float64) (BodyHandle, bool) {
	rec, ok := w.bodies.get(h.Handle)
	if !ok {
		return BodyHandle{}, false
	}
	center := fromCP(w.mustBody(rec).Position())

	var (
		best  BodyHandle
		bestD float64
		found bool
	)
	w.circleQuery(toCP(center), rangeR, func(shape *cp.Shape) {
		other, ok := w.queryable(shape, h)
		if !ok {
			return
		}
		d := w.centerDistSqr(center, other)
		if !found || d < bestD {
			best, bestD, found = other, d, true
		}
	})
	return best, found
}

// circleQuery calls fn for every shape that overlaps the circle: a bounding
// box query narrowed by each shape's signed distance to center.
func (w *World) circleQuery(center cp.Vector, radius float64, fn func(*cp.Shape)) {
	if radius <= 0 {
		return
	}
	w.space.BBQuery(cp.NewBBForCircle(center, radius), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		if shape.PointQuery(center).Distance < radius {
			fn(shape)
		}
	}, nil)
}

// queryable maps a shape hit to a body handle, skipping self, sensors and
// shapes the world does not track.
func (w *World) queryable(shape *cp.Shape, self BodyHandle) (BodyHandle, bool) {
	other, ok := w.shapes[shape]
	if !ok || other == self {
		return BodyHandle{}, false
	}
	rec, ok := w.bodies.get(other.Handle)
	if !ok || rec.sensor {
		return BodyHandle{}, false
	}
	return other, true
}

func (w *World) centerDistSqr(p mgl64.Vec2, h BodyHandle) float64 {
	rec, _ := w.bodies.get(h.Handle)
	return fromCP(w.mustBody(rec).Position()).Sub(p).LenSqr()
}
