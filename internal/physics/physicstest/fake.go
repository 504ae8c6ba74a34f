// Package physicstest provides a scripted physics.Adapter for engine tests.
// Bodies move by their velocity and contacts are only reported when queued.
package physicstest

import (
	"github.com/vovakirdan/arcade-core/internal/core"
	"github.com/vovakirdan/arcade-core/internal/physics"
)

type body struct {
	spec physics.BodySpec
	pos  core.Vec2
	vel  core.Vec2
	ang  float64
}

// World is a fake physics.Adapter.
type World struct {
	bodies  map[physics.Handle]*body
	next    physics.Handle
	onTouch physics.ContactFunc
	queued  [][]physics.Contact

	// Steps records the size of every sub-step taken.
	Steps []float64
	// Removed records removed handles in order.
	Removed []physics.Handle
}

// New returns an empty fake world.
func New() *World {
	return &World{bodies: make(map[physics.Handle]*body)}
}

// Queue schedules contacts for delivery after the next sub-step. Each call
// fills one sub-step; contacts may reference handles that no longer exist.
func (w *World) Queue(contacts ...physics.Contact) {
	w.queued = append(w.queued, contacts)
}

// Spec returns the spec a body was created with.
func (w *World) Spec(h physics.Handle) (physics.BodySpec, bool) {
	b, ok := w.bodies[h]
	if !ok {
		return physics.BodySpec{}, false
	}
	return b.spec, true
}

func (w *World) AddBody(spec physics.BodySpec) (physics.Handle, error) {
	switch spec.Shape.Kind {
	case physics.ShapeCircle:
		if spec.Shape.Radius <= 0 {
			return 0, physics.ErrInvalidShape
		}
	case physics.ShapeBox:
		if spec.Shape.W <= 0 || spec.Shape.H <= 0 {
			return 0, physics.ErrInvalidShape
		}
	}
	w.next++
	w.bodies[w.next] = &body{spec: spec, pos: spec.Position, ang: spec.Angle}
	return w.next, nil
}

func (w *World) RemoveBody(h physics.Handle) {
	if _, ok := w.bodies[h]; !ok {
		return
	}
	delete(w.bodies, h)
	w.Removed = append(w.Removed, h)
}

func (w *World) Step(fixedDt, elapsedDt float64, maxSubSteps int) int {
	steps := physics.Plan(fixedDt, elapsedDt, maxSubSteps)
	for _, dt := range steps {
		w.Steps = append(w.Steps, dt)
		for _, b := range w.bodies {
			if !b.spec.Static {
				b.pos = b.pos.Add(b.vel.Scale(dt))
			}
		}
		if len(w.queued) == 0 {
			continue
		}
		batch := w.queued[0]
		w.queued = w.queued[1:]
		if w.onTouch == nil {
			continue
		}
		for _, c := range batch {
			w.onTouch(c)
		}
	}
	return len(steps)
}

func (w *World) OnContact(fn physics.ContactFunc) { w.onTouch = fn }

func (w *World) Position(h physics.Handle) (core.Vec2, bool) {
	b, ok := w.bodies[h]
	if !ok {
		return core.Vec2{}, false
	}
	return b.pos, true
}

func (w *World) SetPosition(h physics.Handle, p core.Vec2) {
	if b, ok := w.bodies[h]; ok {
		b.pos = p
	}
}

func (w *World) Velocity(h physics.Handle) (core.Vec2, bool) {
	b, ok := w.bodies[h]
	if !ok {
		return core.Vec2{}, false
	}
	return b.vel, true
}

func (w *World) SetVelocity(h physics.Handle, v core.Vec2) {
	if b, ok := w.bodies[h]; ok {
		b.vel = v
	}
}

func (w *World) Angle(h physics.Handle) float64 {
	if b, ok := w.bodies[h]; ok {
		return b.ang
	}
	return 0
}

func (w *World) SetAngle(h physics.Handle, a float64) {
	if b, ok := w.bodies[h]; ok {
		b.ang = a
	}
}

func (w *World) Bodies() int { return len(w.bodies) }

var _ physics.Adapter = (*World)(nil)
