package chipmunk

import (
	"testing"

	"github.com/vovakirdan/arcade-core/internal/core"
	"github.com/vovakirdan/arcade-core/internal/physics"
)

const (
	groupPlayer uint32 = 1 << iota
	groupEnemy
	groupProjectile
)

func addCircle(t *testing.T, w *World, pos core.Vec2, group, mask uint32) physics.Handle {
	t.Helper()
	h, err := w.AddBody(physics.BodySpec{
		Shape:    physics.Circle(1),
		Group:    group,
		Mask:     mask,
		Position: pos,
	})
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	return h
}

func TestContactReportedOncePerTouch(t *testing.T) {
	w := New()
	var contacts []physics.Contact
	w.OnContact(func(c physics.Contact) { contacts = append(contacts, c) })

	a := addCircle(t, w, core.V(0, 0), groupPlayer, groupEnemy)
	b := addCircle(t, w, core.V(3, 0), groupEnemy, groupPlayer)
	w.SetVelocity(a, core.V(30, 0))

	for i := 0; i < 10; i++ {
		w.Step(1.0/60, 1.0/60, 1)
	}

	if len(contacts) != 1 {
		t.Fatalf("got %d contacts, expected 1: %+v", len(contacts), contacts)
	}
	c := contacts[0]
	if !(c.A == a && c.B == b) && !(c.A == b && c.B == a) {
		t.Errorf("contact %+v does not reference both bodies", c)
	}
	if c.Impact <= 0 {
		t.Errorf("Impact = %v, expected positive relative speed", c.Impact)
	}
}

func TestMaskFiltersContacts(t *testing.T) {
	w := New()
	count := 0
	w.OnContact(func(physics.Contact) { count++ })

	// Projectiles do not list each other in their mask.
	a := addCircle(t, w, core.V(0, 0), groupProjectile, groupEnemy)
	addCircle(t, w, core.V(0.5, 0), groupProjectile, groupEnemy)
	w.SetVelocity(a, core.V(1, 0))

	w.Step(1.0/60, 1.0/60, 1)
	if count != 0 {
		t.Errorf("got %d contacts between filtered bodies, expected 0", count)
	}
}

func TestRemoveBodyInsideCallbackIsSafe(t *testing.T) {
	w := New()
	a := addCircle(t, w, core.V(0, 0), groupPlayer, groupEnemy)
	b := addCircle(t, w, core.V(1.5, 0), groupEnemy, groupPlayer)

	w.OnContact(func(c physics.Contact) {
		w.RemoveBody(c.B)
		w.RemoveBody(c.A)
	})
	w.Step(1.0/60, 1.0/60, 1)

	if w.Bodies() != 0 {
		t.Errorf("Bodies() = %d, expected 0", w.Bodies())
	}
	if _, ok := w.Position(a); ok {
		t.Error("removed body should not report a position")
	}
	// Removing twice is a no-op.
	w.RemoveBody(b)
}

func TestStepSubSteps(t *testing.T) {
	w := New()
	h := addCircle(t, w, core.V(0, 0), groupPlayer, 0)
	w.SetVelocity(h, core.V(60, 0))

	if n := w.Step(1.0/60, 0.5, 3); n != 3 {
		t.Errorf("Step returned %d sub-steps, expected 3", n)
	}
	p, _ := w.Position(h)
	// Three 1/60 s steps at 60 units/s.
	if p.X < 2.9 || p.X > 3.1 {
		t.Errorf("X = %v, expected about 3", p.X)
	}
}

func TestStaticBodyAndInvalidShape(t *testing.T) {
	w := New()
	if _, err := w.AddBody(physics.BodySpec{Shape: physics.Circle(0)}); err == nil {
		t.Error("expected error for zero radius")
	}

	wall, err := w.AddBody(physics.BodySpec{
		Shape:    physics.Box(10, 1),
		Static:   true,
		Group:    groupEnemy,
		Mask:     groupProjectile,
		Position: core.V(5, 5),
	})
	if err != nil {
		t.Fatalf("AddBody static: %v", err)
	}
	w.SetVelocity(wall, core.V(100, 0))
	w.Step(1.0/60, 1.0/60, 1)
	if p, _ := w.Position(wall); p != core.V(5, 5) {
		t.Errorf("static body moved to %v", p)
	}
	w.RemoveBody(wall)
	if w.Bodies() != 0 {
		t.Errorf("Bodies() = %d after removing static body", w.Bodies())
	}
}
