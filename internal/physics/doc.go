// Package physics wraps the rigid-body solver behind generational handles.
//
// A [World] owns every body, circle shape and joint. Callers hold
// [BodyHandle] and [JointHandle] values; a handle stops resolving once its
// entry is removed or the world is reset, and operations on such handles
// fall back to defaults instead of failing:
//
//	w := physics.NewWorld(physics.DefaultOptions())
//	h := w.AddDynamicBody(w.Center(), 0, physics.Shape{Radius: 4}, physics.DefaultProperties())
//	pos, rot := w.Transform(h)
//	w.RemoveBody(h)
//	pos, rot = w.Transform(h) // world centre, 0
//
// Forces applied with [World.ApplyForce] last for the next [World.Step] only.
package physics
