package engine

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade-core/internal/core"
	"github.com/vovakirdan/arcade-core/internal/physics"
)

// Registry owns every live entity and its physics body. Entities are kept
// in spawn order so updates and snapshots are deterministic.
type Registry struct {
	phys      physics.Adapter
	templates map[string]Template
	logger    *log.Logger

	nextID   EntityID
	entities []*Entity
	byID     map[EntityID]*Entity
	byBody   map[physics.Handle]*Entity
	player   *Entity
}

// NewRegistry creates an empty registry backed by phys.
func NewRegistry(phys physics.Adapter, templates map[string]Template, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Registry{
		phys:      phys,
		templates: templates,
		logger:    logger,
		byID:      make(map[EntityID]*Entity),
		byBody:    make(map[physics.Handle]*Entity),
	}
}

// Template looks up a compiled template.
func (r *Registry) Template(name string) (Template, bool) {
	t, ok := r.templates[name]
	return t, ok
}

// Spawn creates an entity and its body from a template.
func (r *Registry) Spawn(templateID string, pos core.Vec2) (EntityID, error) {
	return r.SpawnWith(templateID, pos, nil)
}

// SpawnWith is Spawn with a hook that can adjust the entity before its body
// is created.
func (r *Registry) SpawnWith(templateID string, pos core.Vec2, init func(*Entity)) (EntityID, error) {
	t, ok := r.templates[templateID]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTemplate, templateID)
	}

	r.nextID++
	e := newEntity(r.nextID, t, pos)
	if init != nil {
		init(e)
	}

	body, err := r.phys.AddBody(physics.BodySpec{
		Shape:    t.Shape,
		Mass:     t.Mass,
		Group:    e.Group,
		Mask:     e.Mask,
		Static:   e.Kind == KindStatic,
		Sensor:   t.Sensor,
		Position: e.Position,
		Angle:    e.Angle,
	})
	if err != nil {
		return 0, fmt.Errorf("engine: spawn %q: %w", templateID, err)
	}
	e.Body = body
	if e.Kind != KindStatic {
		r.phys.SetVelocity(body, e.Velocity)
	}

	r.entities = append(r.entities, e)
	r.byID[e.ID] = e
	r.byBody[body] = e
	if e.Kind == KindPlayer {
		r.player = e
	}
	return e.ID, nil
}

// Get returns a live entity. Swept entities are never returned.
func (r *Registry) Get(id EntityID) (*Entity, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// ByBody maps a physics handle back to its entity.
func (r *Registry) ByBody(h physics.Handle) (*Entity, bool) {
	e, ok := r.byBody[h]
	return e, ok
}

// Player returns the player entity, if one is alive.
func (r *Registry) Player() (*Entity, bool) {
	return r.player, r.player != nil
}

// MarkForDeletion flags an entity for the next sweep. It reports whether
// the flag changed.
func (r *Registry) MarkForDeletion(id EntityID) bool {
	e, ok := r.byID[id]
	if !ok || e.marked {
		return false
	}
	e.marked = true
	return true
}

// Sweep removes every marked entity from physics and the registry and
// returns how many were removed.
func (r *Registry) Sweep() int {
	kept := r.entities[:0]
	removed := 0
	for _, e := range r.entities {
		if !e.marked {
			kept = append(kept, e)
			continue
		}
		r.phys.RemoveBody(e.Body)
		delete(r.byID, e.ID)
		delete(r.byBody, e.Body)
		if r.player == e {
			r.player = nil
		}
		removed++
	}
	for i := len(kept); i < len(r.entities); i++ {
		r.entities[i] = nil
	}
	r.entities = kept
	if removed > 0 {
		r.logger.Debug("swept entities", "count", removed, "live", len(r.entities))
	}
	return removed
}

// Clear removes every entity immediately. It is only used between sessions.
func (r *Registry) Clear() {
	for _, e := range r.entities {
		r.phys.RemoveBody(e.Body)
	}
	r.entities = nil
	r.byID = make(map[EntityID]*Entity)
	r.byBody = make(map[physics.Handle]*Entity)
	r.player = nil
}

// SyncFromPhysics copies body transforms into the entities.
func (r *Registry) SyncFromPhysics() {
	for _, e := range r.entities {
		if p, ok := r.phys.Position(e.Body); ok {
			e.Position = p
		}
		if v, ok := r.phys.Velocity(e.Body); ok {
			e.Velocity = v
		}
	}
}

// Live returns the number of entities, including marked ones not yet swept.
func (r *Registry) Live() int { return len(r.entities) }

// Count returns the unmarked entities of a kind.
func (r *Registry) Count(kind Kind) int {
	n := 0
	for _, e := range r.entities {
		if e.Kind == kind && !e.marked {
			n++
		}
	}
	return n
}

// CountTrigger returns the number of unmarked entities with the trigger.
func (r *Registry) CountTrigger(trigger string) int {
	n := 0
	for _, e := range r.entities {
		if e.Trigger == trigger && !e.marked {
			n++
		}
	}
	return n
}

// Each calls fn for every unmarked entity in spawn order.
func (r *Registry) Each(fn func(*Entity)) {
	for _, e := range r.entities {
		if !e.marked {
			fn(e)
		}
	}
}

// Snapshot returns the presentation view of every live entity, ordered by id.
func (r *Registry) Snapshot() []core.EntitySnapshot {
	out := make([]core.EntitySnapshot, 0, len(r.entities))
	for _, e := range r.entities {
		if e.marked {
			continue
		}
		out = append(out, e.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
