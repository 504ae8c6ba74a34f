// Package physics defines the contract the engine needs from a rigid-body
// simulation. Implementations live in subpackages.
package physics

import (
	"errors"

	"github.com/vovakirdan/arcade-core/internal/core"
)

// Handle identifies a body owned by an Adapter. Zero is never a valid handle.
type Handle uint64

// ShapeKind selects the collision shape of a body.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeBox
)

// Shape describes a body's collision geometry in field units.
type Shape struct {
	Kind   ShapeKind
	Radius float64 // ShapeCircle
	W, H   float64 // ShapeBox
}

// Circle returns a circle shape.
func Circle(r float64) Shape { return Shape{Kind: ShapeCircle, Radius: r} }

// Box returns an axis-aligned box shape.
func Box(w, h float64) Shape { return Shape{Kind: ShapeBox, W: w, H: h} }

// BodySpec is everything needed to create a body.
//
// Group is the single category bit the body belongs to and Mask the set of
// categories it may touch. A contact is only reported when each body's
// group is in the other's mask.
type BodySpec struct {
	Shape    Shape
	Mass     float64 // <= 0 means kinematic: moved only by its velocity
	Group    uint32
	Mask     uint32
	Static   bool
	Sensor   bool // reports contacts without a physical response
	Position core.Vec2
	Angle    float64
}

// Contact is one resolved touch between two bodies during a step.
type Contact struct {
	A, B   Handle
	Impact float64 // relative speed at first contact
}

// ContactFunc receives contacts after each sub-step.
type ContactFunc func(Contact)

// ErrInvalidShape is returned by AddBody for shapes with no area.
var ErrInvalidShape = errors.New("physics: shape has no area")

// Adapter is a rigid-body world.
type Adapter interface {
	AddBody(spec BodySpec) (Handle, error)
	RemoveBody(h Handle)

	// Step advances the world. When elapsedDt fits in a single fixedDt the
	// world takes one step of elapsedDt; otherwise it takes fixed steps
	// until elapsedDt is covered or maxSubSteps is reached. Nothing carries
	// over to the next call. It returns the number of sub-steps taken.
	Step(fixedDt, elapsedDt float64, maxSubSteps int) int

	// OnContact installs the contact callback. Contacts are delivered after
	// each sub-step, outside the solver, so the callback may add or remove
	// bodies.
	OnContact(fn ContactFunc)

	Position(h Handle) (core.Vec2, bool)
	SetPosition(h Handle, p core.Vec2)
	Velocity(h Handle) (core.Vec2, bool)
	SetVelocity(h Handle, v core.Vec2)
	Angle(h Handle) float64
	SetAngle(h Handle, a float64)
	Bodies() int
}

// Plan splits elapsedDt into the step sizes an Adapter should take.
// Every returned step is at most max(fixedDt, elapsedDt when it fits in one
// step) and the list never exceeds maxSubSteps entries.
func Plan(fixedDt, elapsedDt float64, maxSubSteps int) []float64 {
	if elapsedDt <= 0 || fixedDt <= 0 {
		return nil
	}
	if maxSubSteps < 1 {
		maxSubSteps = 1
	}
	if elapsedDt <= fixedDt || maxSubSteps == 1 {
		return []float64{min(elapsedDt, fixedDt)}
	}

	steps := make([]float64, 0, maxSubSteps)
	remaining := elapsedDt
	for len(steps) < maxSubSteps && remaining > 1e-9 {
		dt := min(fixedDt, remaining)
		steps = append(steps, dt)
		remaining -= dt
	}
	return steps
}
