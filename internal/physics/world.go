package physics

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

const (
	DefaultTimeStep  = 1.0 / 60.0
	solverIterations = 10
	wallThickness    = 2.0
)

const collisionQuantum cp.CollisionType = 1

type Options struct {
	Width      float64
	Height     float64
	TimeStep   float64
	ImpulseMin float64
	ImpulseMax float64
	Walls      bool
	Rand       *rand.Rand
	Logger     *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Width:      1400,
		Height:     950,
		TimeStep:   DefaultTimeStep,
		ImpulseMin: 0,
		ImpulseMax: 100,
		Walls:      true,
	}
}

// ContactEvent reports two quantum bodies that started touching during a step.
type ContactEvent struct {
	A, B   BodyHandle
	Sensor bool
}

// Data bundles the per-body state readers usually want together.
type Data struct {
	Position        mgl64.Vec2
	Rotation        float64
	Mass            float64
	KineticEnergy   float64
	Force           mgl64.Vec2
	Velocity        mgl64.Vec2
	AngularVelocity float64
}

// BodyState is the snapshot the gravity field works from.
type BodyState struct {
	Handle   BodyHandle
	Position mgl64.Vec2
	Radius   float64
}

type bodyRecord struct {
	body   *cp.Body
	shape  *cp.Shape
	radius float64
	sensor bool
	props  Properties
	joints map[JointHandle]struct{}
}

type jointRecord struct {
	groove  *cp.Constraint
	gear    *cp.Constraint
	a, b    BodyHandle
	anchorA mgl64.Vec2
	anchorB mgl64.Vec2
	axis    mgl64.Vec2
	lower   float64
	upper   float64
}

// World owns every body, shape and joint of the sandbox. Handles are the only
// way callers refer to them.
type World struct {
	opts   Options
	space  *cp.Space
	walls  []*cp.Shape
	bodies arena[*bodyRecord]
	joints arena[*jointRecord]
	shapes map[*cp.Shape]BodyHandle
	events []ContactEvent
	rng    *rand.Rand
	log    *slog.Logger
}

func NewWorld(opts Options) *World {
	if opts.TimeStep <= 0 {
		opts.TimeStep = DefaultTimeStep
	}
	if opts.ImpulseMax < opts.ImpulseMin {
		opts.ImpulseMin, opts.ImpulseMax = opts.ImpulseMax, opts.ImpulseMin
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	w := &World{
		opts:   opts,
		shapes: make(map[*cp.Shape]BodyHandle),
		rng:    rng,
		log:    log,
	}
	w.space = w.newSpace()
	return w
}

func (w *World) newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = solverIterations
	space.SetGravity(cp.Vector{})

	handler := space.NewCollisionHandler(collisionQuantum, collisionQuantum)
	handler.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		sa, sb := arb.Shapes()
		a, okA := w.shapes[sa]
		b, okB := w.shapes[sb]
		if okA && okB {
			w.events = append(w.events, ContactEvent{A: a, B: b, Sensor: w.isSensor(a) || w.isSensor(b)})
		}
		return true
	}

	w.walls = w.walls[:0]
	if w.opts.Walls {
		width, height := w.opts.Width, w.opts.Height
		segs := []struct{ a, b cp.Vector }{
			{cp.Vector{X: 0, Y: 0}, cp.Vector{X: width, Y: 0}},
			{cp.Vector{X: 0, Y: height}, cp.Vector{X: width, Y: height}},
			{cp.Vector{X: 0, Y: 0}, cp.Vector{X: 0, Y: height}},
			{cp.Vector{X: width, Y: 0}, cp.Vector{X: width, Y: height}},
		}
		for _, seg := range segs {
			shape := cp.NewSegment(space.StaticBody, seg.a, seg.b, wallThickness)
			shape.SetFriction(0.5)
			shape.SetElasticity(0.8)
			space.AddShape(shape)
			w.walls = append(w.walls, shape)
		}
	}
	return space
}

// Step advances the solver by one fixed tick and returns the contacts that
// began during it.
func (w *World) Step() []ContactEvent {
	w.space.Step(w.opts.TimeStep)
	events := w.events
	w.events = nil
	return events
}

// TimeStep is the fixed solver step in seconds. Step always advances by it,
// whatever the frame's wall time.
func (w *World) TimeStep() float64 { return w.opts.TimeStep }

// AddDynamicBody creates a circular dynamic body and gives it one random kick.
func (w *World) AddDynamicBody(pos mgl64.Vec2, rot float64, shape Shape, props Properties) BodyHandle {
	radius := shape.Radius
	if radius <= 0 {
		radius = 1
	}
	density := props.Density
	if density <= 0 {
		density = 1
	}
	mass := density * math.Pi * radius * radius

	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(toCP(pos))
	body.SetAngle(rot)
	body.SetVelocityUpdateFunc(dampedVelocity(props.LinearDamping, props.AngularDamping))

	circle := cp.NewCircle(body, radius, cp.Vector{})
	circle.SetFriction(props.Friction)
	circle.SetElasticity(props.Restitution)
	circle.SetCollisionType(collisionQuantum)
	if shape.Sensor {
		circle.SetSensor(true)
	}

	w.space.AddBody(body)
	w.space.AddShape(circle)

	h := BodyHandle{w.bodies.insert(&bodyRecord{
		body:   body,
		shape:  circle,
		radius: radius,
		sensor: shape.Sensor,
		props:  props,
		joints: make(map[JointHandle]struct{}),
	})}
	w.shapes[circle] = h

	angle := w.rng.Float64() * 2 * math.Pi
	magnitude := w.opts.ImpulseMin + w.rng.Float64()*(w.opts.ImpulseMax-w.opts.ImpulseMin)
	impulse := cp.Vector{X: math.Cos(angle) * magnitude, Y: math.Sin(angle) * magnitude}
	body.ApplyImpulseAtWorldPoint(impulse, body.Position())

	return h
}

// dampedVelocity integrates like the solver's default and then applies the
// body's own linear and angular damping as v /= 1 + dt*c.
func dampedVelocity(linear, angular float64) func(*cp.Body, cp.Vector, float64, float64) {
	return func(body *cp.Body, gravity cp.Vector, damping, dt float64) {
		w0 := body.AngularVelocity()
		body.UpdateVelocity(gravity, damping/(1+dt*linear), dt)
		body.SetAngularVelocity(w0 * damping / (1 + dt*angular))
	}
}

// RemoveBody removes the body, its shape and every joint attached to it.
func (w *World) RemoveBody(h BodyHandle) {
	rec, ok := w.bodies.get(h.Handle)
	if !ok {
		return
	}
	for j := range rec.joints {
		w.RemoveJoint(j)
	}
	w.mustBody(rec)
	delete(w.shapes, rec.shape)
	w.space.RemoveShape(rec.shape)
	w.space.RemoveBody(rec.body)
	w.bodies.remove(h.Handle)
}

// Reset drops every body, shape and joint and starts from a fresh solver
// space. Handles issued before the reset never resolve afterwards.
func (w *World) Reset() {
	bodies, joints := w.bodies.len(), w.joints.len()
	w.bodies.clear()
	w.joints.clear()
	w.shapes = make(map[*cp.Shape]BodyHandle)
	w.events = nil
	w.space = w.newSpace()
	w.log.Debug("physics world reset", "bodies", bodies, "joints", joints)
}

// BodyValid reports whether h still resolves to a live body.
func (w *World) BodyValid(h BodyHandle) bool {
	_, ok := w.bodies.get(h.Handle)
	return ok
}

func (w *World) BodyCount() int { return w.bodies.len() }

func (w *World) isSensor(h BodyHandle) bool {
	rec, ok := w.bodies.get(h.Handle)
	return ok && rec.sensor
}

// Transform returns the body's centre and rotation, or the world centre and
// zero for an invalid handle.
func (w *World) Transform(h BodyHandle) (mgl64.Vec2, float64) {
	rec, ok := w.bodies.get(h.Handle)
	if !ok {
		return w.Center(), 0
	}
	body := w.mustBody(rec)
	return fromCP(body.Position()), body.Angle()
}

// Radius returns the collider radius. ok is false for an invalid handle.
func (w *World) Radius(h BodyHandle) (float64, bool) {
	rec, ok := w.bodies.get(h.Handle)
	if !ok {
		return 0, false
	}
	return rec.radius, true
}

// Data snapshots the body's state. An invalid handle yields a zero Data
// positioned at the world centre.
func (w *World) Data(h BodyHandle) Data {
	rec, ok := w.bodies.get(h.Handle)
	if !ok {
		return Data{Position: w.Center()}
	}
	body := w.mustBody(rec)
	return Data{
		Position:        fromCP(body.Position()),
		Rotation:        body.Angle(),
		Mass:            body.Mass(),
		KineticEnergy:   kineticEnergy(body),
		Force:           fromCP(body.Force()),
		Velocity:        fromCP(body.Velocity()),
		AngularVelocity: body.AngularVelocity(),
	}
}

// Mass returns the body's mass, or 0 for an invalid handle.
func (w *World) Mass(h BodyHandle) float64 {
	rec, ok := w.bodies.get(h.Handle)
	if !ok {
		return 0
	}
	return w.mustBody(rec).Mass()
}

// KineticEnergy sums the linear and angular terms, or returns 0 for an
// invalid handle.
func (w *World) KineticEnergy(h BodyHandle) float64 {
	rec, ok := w.bodies.get(h.Handle)
	if !ok {
		return 0
	}
	return kineticEnergy(w.mustBody(rec))
}

// Force returns the force accumulated since the last step, or zero for an
// invalid handle.
func (w *World) Force(h BodyHandle) mgl64.Vec2 {
	rec, ok := w.bodies.get(h.Handle)
	if !ok {
		return mgl64.Vec2{}
	}
	return fromCP(w.mustBody(rec).Force())
}

func kineticEnergy(body *cp.Body) float64 {
	v := body.Velocity()
	av := body.AngularVelocity()
	return 0.5*body.Mass()*(v.X*v.X+v.Y*v.Y) + 0.5*body.Moment()*av*av
}

// DynamicBodies lists every live body in slot order.
func (w *World) DynamicBodies() []BodyState {
	out := make([]BodyState, 0, w.bodies.len())
	w.bodies.each(func(h Handle, rec *bodyRecord) {
		body := w.mustBody(rec)
		out = append(out, BodyState{
			Handle:   BodyHandle{h},
			Position: fromCP(body.Position()),
			Radius:   rec.radius,
		})
	})
	return out
}

func (w *World) ResetForce(h BodyHandle) {
	if rec, ok := w.bodies.get(h.Handle); ok {
		w.mustBody(rec).SetForce(cp.Vector{})
	}
}

// ApplyForce adds f at the body centre. The solver clears forces after each
// step, so the force acts for the next step only.
func (w *World) ApplyForce(h BodyHandle, f mgl64.Vec2) {
	if rec, ok := w.bodies.get(h.Handle); ok {
		body := w.mustBody(rec)
		body.ApplyForceAtWorldPoint(toCP(f), body.Position())
	}
}

// Bounds returns the world rectangle.
func (w *World) Bounds() (min, max mgl64.Vec2) {
	return mgl64.Vec2{}, mgl64.Vec2{w.opts.Width, w.opts.Height}
}

func (w *World) Center() mgl64.Vec2 {
	return mgl64.Vec2{w.opts.Width / 2, w.opts.Height / 2}
}

// mustBody panics when a live record lost its solver body. Records are only
// created here, so this is an internal invariant break.
func (w *World) mustBody(rec *bodyRecord) *cp.Body {
	if rec == nil || rec.body == nil {
		panic("physics: body record without solver body")
	}
	return rec.body
}

func toCP(v mgl64.Vec2) cp.Vector { return cp.Vector{X: v.X(), Y: v.Y()} }

func fromCP(v cp.Vector) mgl64.Vec2 { return mgl64.Vec2{v.X, v.Y} }
