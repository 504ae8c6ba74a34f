package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/vovakirdan/arcade-core/internal/config"
	"github.com/vovakirdan/arcade-core/internal/core"
	"github.com/vovakirdan/arcade-core/internal/physics"
)

// EntityID identifies an entity for its whole life. IDs are never reused
// within a Registry.
type EntityID uint64

// Template is a compiled config.TemplateConfig with group names resolved
// to bits.
type Template struct {
	Name       string
	Kind       Kind
	Health     float64
	Speed      float64
	Damage     float64
	Heal       float64
	Score      int
	Group      uint32
	Mask       uint32
	Movement   Movement
	Amplitude  float64
	Frequency  float64
	Shape      physics.Shape
	Mass       float64
	Sensor     bool
	Lifetime   float64
	Cooldown   float64
	Projectile string
	Trigger    string
	Crossing   core.Vec2 // unit direction a trigger must be crossed in; zero = any
	Visual     string
	Cue        string
}

// ErrUnknownTemplate is returned when a spawn names a template that was
// never configured. It indicates a configuration error.
var ErrUnknownTemplate = errors.New("engine: unknown template")

// CompileTemplates converts validated config templates.
func CompileTemplates(cfg *config.GameConfig) (map[string]Template, error) {
	names := make([]string, 0, len(cfg.Templates))
	for name := range cfg.Templates {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]Template, len(names))
	for _, name := range names {
		tc := cfg.Templates[name]
		kind, err := ParseKind(tc.Kind)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", name, err)
		}
		move, err := parseMovement(tc.Movement, kind)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", name, err)
		}
		group, ok := cfg.GroupBit(tc.Group)
		if !ok {
			return nil, fmt.Errorf("template %q: unknown group %q", name, tc.Group)
		}

		shape := physics.Circle(tc.Shape.Radius)
		if tc.Shape.Type == "box" {
			shape = physics.Box(tc.Shape.Width, tc.Shape.Height)
		}

		var crossing core.Vec2
		if tc.Direction != nil {
			crossing = core.FromAngle(*tc.Direction * math.Pi / 180)
		}

		visual := tc.Visual
		if visual == "" {
			visual = name
		}

		out[name] = Template{
			Name:       name,
			Kind:       kind,
			Health:     tc.Health,
			Speed:      tc.Speed,
			Damage:     tc.Damage,
			Heal:       tc.Heal,
			Score:      tc.Score,
			Group:      group,
			Mask:       cfg.MaskBits(tc.Mask),
			Movement:   move,
			Amplitude:  tc.Amplitude,
			Frequency:  tc.Frequency,
			Shape:      shape,
			Mass:       tc.Mass,
			Sensor:     tc.Sensor,
			Lifetime:   tc.Lifetime,
			Cooldown:   tc.Cooldown,
			Projectile: tc.Projectile,
			Trigger:    tc.Trigger,
			Crossing:   crossing,
			Visual:     visual,
			Cue:        tc.Cue,
		}
	}
	return out, nil
}

// Entity is a simulated object: a physics body handle plus gameplay state.
// It is plain data; behavior is chosen by switching on Kind and Movement.
type Entity struct {
	ID       EntityID
	Kind     Kind
	Template string
	Body     physics.Handle

	Position core.Vec2
	Angle    float64
	Velocity core.Vec2

	Group uint32
	Mask  uint32

	Health    float64
	MaxHealth float64
	Damage    float64
	Speed     float64
	Heal      float64
	Score     int

	Movement  Movement
	Amplitude float64
	Frequency float64

	Lifetime   float64 // seconds left; 0 means unlimited
	Cooldown   float64 // seconds until the next shot
	FireEvery  float64 // enemy fire interval
	Projectile string
	Owner      Kind // who fired a projectile
	Trigger    string
	Crossing   core.Vec2

	Visual string
	Cue    string

	age    float64
	dir    core.Vec2 // base direction for linear and sinusoidal movement
	phase  float64   // orbit angle
	marked bool
}

// Marked reports whether the entity is waiting for the sweep.
func (e *Entity) Marked() bool { return e.marked }

// Age returns the seconds the entity has been updated.
func (e *Entity) Age() float64 { return e.age }

// Aim sets the base direction used by linear, sinusoidal and diagonal
// movement, and faces the entity along it.
func (e *Entity) Aim(dir core.Vec2) {
	e.dir = dir.Norm()
	if e.dir != (core.Vec2{}) {
		e.Angle = e.dir.Angle()
	}
	if e.Movement == MoveOrbit {
		e.phase = math.Atan2(dir.Y, dir.X) + math.Pi
	}
}

// Crossed reports whether moving at v crosses the entity's trigger in its
// required direction. Undirected triggers accept any motion.
func (e *Entity) Crossed(v core.Vec2) bool {
	if e.Crossing == (core.Vec2{}) {
		return true
	}
	return v.Dot(e.Crossing) > 0
}

func newEntity(id EntityID, t Template, pos core.Vec2) *Entity {
	return &Entity{
		ID:         id,
		Kind:       t.Kind,
		Template:   t.Name,
		Position:   pos,
		Group:      t.Group,
		Mask:       t.Mask,
		Health:     t.Health,
		MaxHealth:  t.Health,
		Damage:     t.Damage,
		Speed:      t.Speed,
		Heal:       t.Heal,
		Score:      t.Score,
		Movement:   t.Movement,
		Amplitude:  t.Amplitude,
		Frequency:  t.Frequency,
		Lifetime:   t.Lifetime,
		Cooldown:   t.Cooldown,
		FireEvery:  t.Cooldown,
		Projectile: t.Projectile,
		Owner:      t.Kind,
		Trigger:    t.Trigger,
		Crossing:   t.Crossing,
		Visual:     t.Visual,
		Cue:        t.Cue,
	}
}

func (e *Entity) snapshot() core.EntitySnapshot {
	return core.EntitySnapshot{
		ID:       uint64(e.ID),
		Kind:     e.Kind.String(),
		Position: e.Position,
		Angle:    e.Angle,
		Visual:   e.Visual,
	}
}
