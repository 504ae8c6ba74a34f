package engine

import (
	"math"

	"github.com/vovakirdan/arcade-core/internal/config"
	"github.com/vovakirdan/arcade-core/internal/core"
)

// PlayerControl is the player's steering setup, taken from config.
type PlayerControl struct {
	Steering     string  // config.SteerFree or config.SteerTank
	TurnRate     float64 // radians per second
	FireCooldown float64
	Projectile   string
	LockHeading  bool
	Heading      float64 // radians, used when LockHeading is set
}

// Env is the read-only frame context passed to Update.
type Env struct {
	Input   core.InputFrame
	Field   core.Bounds
	Margin  float64
	Control PlayerControl
}

// Update advances every unmarked entity by dt and returns the signals the
// behaviors raised. Marked entities are skipped; nothing is removed here.
func (r *Registry) Update(dt float64, env Env) []Signal {
	var out []Signal
	// Entities spawned by signals are created after Update returns, so the
	// slice can be iterated directly.
	for _, e := range r.entities {
		if e.marked {
			continue
		}
		e.age += dt

		if e.Lifetime > 0 {
			e.Lifetime -= dt
			if e.Lifetime <= 0 {
				e.marked = true
				continue
			}
		}

		switch e.Kind {
		case KindPlayer:
			out = r.updatePlayer(e, dt, env, out)
		case KindEnemy:
			r.move(e, dt, env.Field)
			out = r.enemyFire(e, dt, out)
		case KindProjectile, KindPickup:
			r.move(e, dt, env.Field)
		case KindStatic:
			continue
		}

		if e.Kind != KindPlayer && !env.Field.Contains(e.Position, env.Margin) {
			e.marked = true
			if e.Kind == KindEnemy {
				out = append(out, EscapeSignal{Entity: e.ID})
			}
			continue
		}

		r.phys.SetVelocity(e.Body, e.Velocity)
		r.phys.SetAngle(e.Body, e.Angle)
	}
	return out
}

func (r *Registry) updatePlayer(e *Entity, dt float64, env Env, out []Signal) []Signal {
	in := env.Input
	ctl := env.Control

	switch ctl.Steering {
	case config.SteerTank:
		turn := 0.0
		if in.Has(core.ActionLeft) {
			turn--
		}
		if in.Has(core.ActionRight) {
			turn++
		}
		e.Angle += turn * ctl.TurnRate * dt
		throttle := 0.0
		if in.Has(core.ActionUp) {
			throttle++
		}
		if in.Has(core.ActionDown) {
			throttle -= 0.5
		}
		e.Velocity = core.FromAngle(e.Angle).Scale(throttle * e.Speed)
	default:
		axis := in.Axis()
		e.Velocity = axis.Scale(e.Speed)
		if axis != (core.Vec2{}) && !ctl.LockHeading {
			e.Angle = axis.Angle()
		}
	}
	if ctl.LockHeading {
		e.Angle = ctl.Heading
	}

	if p := env.Field.Clamp(e.Position); p != e.Position {
		e.Position = p
		r.phys.SetPosition(e.Body, p)
	}
	next := e.Position.Add(e.Velocity.Scale(dt))
	if clamped := env.Field.Clamp(next); clamped != next {
		if clamped.X != next.X {
			e.Velocity.X = 0
		}
		if clamped.Y != next.Y {
			e.Velocity.Y = 0
		}
	}

	if e.Cooldown > 0 {
		e.Cooldown -= dt
	}
	if in.Has(core.ActionFire) && e.Cooldown <= 0 && ctl.Projectile != "" {
		e.Cooldown = ctl.FireCooldown
		out = append(out, FireSignal{
			Template: ctl.Projectile,
			From:     e.Position,
			Heading:  e.Angle,
			Owner:    KindPlayer,
		})
	}
	return out
}

func (r *Registry) enemyFire(e *Entity, dt float64, out []Signal) []Signal {
	if e.FireEvery <= 0 || e.Projectile == "" {
		return out
	}
	e.Cooldown -= dt
	if e.Cooldown > 0 {
		return out
	}
	e.Cooldown = e.FireEvery

	heading := e.Angle
	if p, ok := r.Player(); ok && !p.marked {
		heading = p.Position.Sub(e.Position).Angle()
	}
	return append(out, FireSignal{
		Template: e.Projectile,
		From:     e.Position,
		Heading:  heading,
		Owner:    KindEnemy,
	})
}

// move sets the entity's velocity for its movement pattern.
func (r *Registry) move(e *Entity, dt float64, field core.Bounds) {
	switch e.Movement {
	case MoveNone:
		e.Velocity = core.Vec2{}
	case MoveLinear:
		e.Velocity = e.dir.Scale(e.Speed)
	case MovePursue:
		if p, ok := r.Player(); ok && !p.marked {
			d := p.Position.Sub(e.Position).Norm()
			e.Velocity = d.Scale(e.Speed)
			if d != (core.Vec2{}) {
				e.Angle = d.Angle()
			}
		} else {
			e.Velocity = core.Vec2{}
		}
	case MoveSinusoidal:
		w := 2 * math.Pi * e.Frequency
		perp := core.V(-e.dir.Y, e.dir.X)
		e.Velocity = e.dir.Scale(e.Speed).Add(perp.Scale(e.Amplitude * w * math.Cos(w*e.age)))
	case MoveDiagonal:
		if e.dir == (core.Vec2{}) {
			e.dir = core.V(1, 1).Norm()
		}
		next := e.Position.Add(e.dir.Scale(e.Speed * dt))
		if next.X < field.Min.X || next.X > field.Max.X {
			e.dir.X = -e.dir.X
		}
		if next.Y < field.Min.Y || next.Y > field.Max.Y {
			e.dir.Y = -e.dir.Y
		}
		e.Velocity = e.dir.Scale(e.Speed)
	case MoveFall:
		e.Velocity = core.V(0, e.Speed)
	case MoveOrbit:
		radius := e.Amplitude
		if radius <= 0 {
			radius = math.Min(field.Width(), field.Height()) / 3
		}
		if radius > 0 {
			e.phase += e.Speed / radius * dt
		}
		target := field.Center().Add(core.FromAngle(e.phase).Scale(radius))
		v := target.Sub(e.Position)
		if dt > 0 {
			v = v.Scale(1 / dt)
		}
		if limit := 2 * e.Speed; v.Len() > limit {
			v = v.Norm().Scale(limit)
		}
		e.Velocity = v
	}
	if e.Movement != MovePursue && e.Velocity != (core.Vec2{}) {
		e.Angle = e.Velocity.Angle()
	}
}
