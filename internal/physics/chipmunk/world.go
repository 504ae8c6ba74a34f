// Package chipmunk implements physics.Adapter on top of the cp port of
// Chipmunk2D. The world has no gravity: arcade bodies are steered by the
// engine through their velocity.
package chipmunk

import (
	"github.com/jakecoffman/cp"

	"github.com/vovakirdan/arcade-core/internal/core"
	"github.com/vovakirdan/arcade-core/internal/physics"
)

// every shape shares one collision type so a single handler sees all pairs
const bodyType cp.CollisionType = 1

type entry struct {
	body  *cp.Body
	shape *cp.Shape
}

// World is a cp.Space wrapped as a physics.Adapter.
type World struct {
	space   *cp.Space
	bodies  map[physics.Handle]*entry
	next    physics.Handle
	onTouch physics.ContactFunc
	pending []physics.Contact
}

// New creates an empty world.
func New() *World {
	w := &World{
		space:  cp.NewSpace(),
		bodies: make(map[physics.Handle]*entry),
	}
	w.space.SetGravity(cp.Vector{})

	h := w.space.NewCollisionHandler(bodyType, bodyType)
	h.BeginFunc = w.begin
	return w
}

// begin runs inside cp's step with the space locked, so contacts are only
// buffered here and delivered once the sub-step returns.
func (w *World) begin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	sa, sb := arb.Shapes()
	ha, okA := sa.UserData.(physics.Handle)
	hb, okB := sb.UserData.(physics.Handle)
	if !okA || !okB {
		return true
	}
	ba, bb := arb.Bodies()
	impact := ba.Velocity().Sub(bb.Velocity()).Length()
	w.pending = append(w.pending, physics.Contact{A: ha, B: hb, Impact: impact})
	return true
}

func (w *World) AddBody(spec physics.BodySpec) (physics.Handle, error) {
	var body *cp.Body
	switch {
	case spec.Static:
		body = cp.NewStaticBody()
	case spec.Mass <= 0:
		body = cp.NewKinematicBody()
	default:
		body = cp.NewBody(spec.Mass, moment(spec))
	}

	var shape *cp.Shape
	switch spec.Shape.Kind {
	case physics.ShapeCircle:
		if spec.Shape.Radius <= 0 {
			return 0, physics.ErrInvalidShape
		}
		shape = cp.NewCircle(body, spec.Shape.Radius, cp.Vector{})
	case physics.ShapeBox:
		if spec.Shape.W <= 0 || spec.Shape.H <= 0 {
			return 0, physics.ErrInvalidShape
		}
		shape = cp.NewBox(body, spec.Shape.W, spec.Shape.H, 0)
	default:
		return 0, physics.ErrInvalidShape
	}

	body.SetPosition(vec(spec.Position))
	body.SetAngle(spec.Angle)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(spec.Group), uint(spec.Mask)))
	shape.SetSensor(spec.Sensor)
	shape.SetCollisionType(bodyType)

	w.next++
	h := w.next
	shape.UserData = h
	body.UserData = h

	w.space.AddBody(body)
	w.space.AddShape(shape)
	w.bodies[h] = &entry{body: body, shape: shape}
	return h, nil
}

func moment(spec physics.BodySpec) float64 {
	if spec.Shape.Kind == physics.ShapeBox {
		return cp.MomentForBox(spec.Mass, spec.Shape.W, spec.Shape.H)
	}
	return cp.MomentForCircle(spec.Mass, 0, spec.Shape.Radius, cp.Vector{})
}

func (w *World) RemoveBody(h physics.Handle) {
	e, ok := w.bodies[h]
	if !ok {
		return
	}
	w.space.RemoveShape(e.shape)
	w.space.RemoveBody(e.body)
	delete(w.bodies, h)
}

func (w *World) Step(fixedDt, elapsedDt float64, maxSubSteps int) int {
	steps := physics.Plan(fixedDt, elapsedDt, maxSubSteps)
	for _, dt := range steps {
		w.space.Step(dt)
		w.flush()
	}
	return len(steps)
}

func (w *World) flush() {
	if len(w.pending) == 0 {
		return
	}
	batch := w.pending
	w.pending = nil
	if w.onTouch == nil {
		return
	}
	for _, c := range batch {
		w.onTouch(c)
	}
}

func (w *World) OnContact(fn physics.ContactFunc) { w.onTouch = fn }

func (w *World) Position(h physics.Handle) (core.Vec2, bool) {
	e, ok := w.bodies[h]
	if !ok {
		return core.Vec2{}, false
	}
	return fromVec(e.body.Position()), true
}

func (w *World) SetPosition(h physics.Handle, p core.Vec2) {
	if e, ok := w.bodies[h]; ok && e.body.GetType() != cp.BODY_STATIC {
		e.body.SetPosition(vec(p))
	}
}

func (w *World) Velocity(h physics.Handle) (core.Vec2, bool) {
	e, ok := w.bodies[h]
	if !ok {
		return core.Vec2{}, false
	}
	return fromVec(e.body.Velocity()), true
}

func (w *World) SetVelocity(h physics.Handle, v core.Vec2) {
	if e, ok := w.bodies[h]; ok && e.body.GetType() != cp.BODY_STATIC {
		e.body.SetVelocity(v.X, v.Y)
	}
}

func (w *World) Angle(h physics.Handle) float64 {
	if e, ok := w.bodies[h]; ok {
		return e.body.Angle()
	}
	return 0
}

func (w *World) SetAngle(h physics.Handle, a float64) {
	if e, ok := w.bodies[h]; ok {
		e.body.SetAngle(a)
	}
}

func (w *World) Bodies() int { return len(w.bodies) }

func vec(v core.Vec2) cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }

func fromVec(v cp.Vector) core.Vec2 { return core.Vec2{X: v.X, Y: v.Y} }

var _ physics.Adapter = (*World)(nil)
