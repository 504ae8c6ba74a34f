package engine

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade-core/internal/config"
	"github.com/vovakirdan/arcade-core/internal/physics"
)

type pairKey struct {
	a, b EntityID
}

// Resolver turns physics contacts into gameplay effects. Effects on health
// and deletion flags are applied directly; everything else is returned as
// signals.
type Resolver struct {
	reg    *Registry
	logger *log.Logger

	seen  map[pairKey]struct{}
	stale int
}

// NewResolver creates a resolver over reg.
func NewResolver(reg *Registry, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{
		reg:    reg,
		logger: logger,
		seen:   make(map[pairKey]struct{}),
	}
}

// Begin starts a new frame. A pair of entities resolves at most once
// between calls to Begin.
func (r *Resolver) Begin() {
	clear(r.seen)
}

// Stale returns how many contacts were discarded because a body was no
// longer registered.
func (r *Resolver) Stale() int { return r.stale }

// Resolve applies one contact.
func (r *Resolver) Resolve(c physics.Contact) []Signal {
	a, okA := r.reg.ByBody(c.A)
	b, okB := r.reg.ByBody(c.B)
	if !okA || !okB {
		r.stale++
		r.logger.Debug("discarding stale contact", "a", c.A, "b", c.B, "impact", c.Impact)
		return nil
	}
	if a.marked || b.marked || a == b {
		return nil
	}
	if a.Kind > b.Kind {
		a, b = b, a
	}

	key := pairKey{a.ID, b.ID}
	if key.a > key.b {
		key.a, key.b = key.b, key.a
	}
	if _, dup := r.seen[key]; dup {
		return nil
	}
	r.seen[key] = struct{}{}

	switch a.Kind {
	case KindPlayer:
		switch b.Kind {
		case KindPlayer:
			return nil
		case KindEnemy:
			return r.playerHitsEnemy(a, b)
		case KindProjectile:
			return r.projectileHits(b, a)
		case KindPickup:
			return r.collect(a, b)
		case KindStatic:
			return r.playerTouchesStatic(a, b)
		}
	case KindEnemy:
		switch b.Kind {
		case KindEnemy, KindPickup, KindStatic:
			return nil
		case KindProjectile:
			return r.projectileHits(b, a)
		}
	case KindProjectile:
		switch b.Kind {
		case KindProjectile, KindPickup:
			return nil
		case KindStatic:
			r.reg.MarkForDeletion(a.ID)
			return nil
		}
	case KindPickup, KindStatic:
		return nil
	}
	return nil
}

// playerHitsEnemy does nothing once the player is down, so later contacts in
// the same frame leave their enemies alive.
func (r *Resolver) playerHitsEnemy(player, enemy *Entity) []Signal {
	if player.Health <= 0 {
		return nil
	}
	r.reg.MarkForDeletion(enemy.ID)
	out := []Signal{ExplosionSignal{At: enemy.Position}}
	if enemy.Cue != "" {
		out = append(out, CueSignal{Name: enemy.Cue})
	}
	return r.hurtPlayer(player, enemy.Damage, out)
}

// projectileHits applies a projectile to a player or enemy. The projectile
// is marked before any damage, so later contacts in the same step find it
// marked and are ignored.
func (r *Resolver) projectileHits(proj, victim *Entity) []Signal {
	if proj.Owner == victim.Kind {
		return nil
	}
	r.reg.MarkForDeletion(proj.ID)

	if victim.Kind == KindPlayer {
		return r.hurtPlayer(victim, proj.Damage, nil)
	}

	victim.Health -= proj.Damage
	if victim.Health > 0 {
		return nil
	}
	victim.Health = 0
	r.reg.MarkForDeletion(victim.ID)
	out := []Signal{
		ScoreSignal{Points: victim.Score},
		ExplosionSignal{At: victim.Position},
		KillSignal{Victim: victim.ID},
	}
	if victim.Cue != "" {
		out = append(out, CueSignal{Name: victim.Cue})
	}
	return out
}

func (r *Resolver) collect(player, pickup *Entity) []Signal {
	r.reg.MarkForDeletion(pickup.ID)
	if pickup.Heal > 0 && player.Health > 0 {
		player.Health = min(player.MaxHealth, player.Health+pickup.Heal)
	}
	var out []Signal
	if pickup.Score != 0 {
		out = append(out, ScoreSignal{Points: pickup.Score})
	}
	if pickup.Cue != "" {
		out = append(out, CueSignal{Name: pickup.Cue})
	}
	return out
}

func (r *Resolver) playerTouchesStatic(player, static *Entity) []Signal {
	var out []Signal
	if static.Crossed(player.Velocity) {
		switch static.Trigger {
		case config.TriggerLap:
			out = append(out, LapSignal{})
		case config.TriggerCheckpoint:
			out = append(out, CheckpointSignal{ID: static.ID})
		}
	}
	if static.Damage > 0 {
		out = r.hurtPlayer(player, static.Damage, out)
	}
	return out
}

// hurtPlayer floors health at zero and reports PlayerDown only on the hit
// that crosses it.
func (r *Resolver) hurtPlayer(player *Entity, damage float64, out []Signal) []Signal {
	if player.Health <= 0 || damage <= 0 {
		return out
	}
	player.Health -= damage
	if player.Health <= 0 {
		player.Health = 0
		out = append(out, PlayerDownSignal{})
	}
	return out
}
