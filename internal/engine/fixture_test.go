package engine

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade-core/internal/config"
	"github.com/vovakirdan/arcade-core/internal/core"
	"github.com/vovakirdan/arcade-core/internal/physics"
	"github.com/vovakirdan/arcade-core/internal/physics/physicstest"
)

// tick is a raw delta below the sub-step threshold that sums exactly in
// binary floating point.
const tick = 1.0 / 32

const fixtureYAML = `
id: fixture
field: { width: 100, height: 100, margin: 5 }
groups: [player, enemy, shot, pickup, wall]
player:
  template: hero
  projectile: bolt
  fire_cooldown: 0.25
templates:
  hero:
    kind: player
    health: 10
    speed: 10
    group: player
    mask: [enemy, shot, pickup, wall]
    shape: { radius: 1 }
  grunt:
    kind: enemy
    health: 2
    damage: 6
    score: 10
    group: enemy
    mask: [player, shot]
    shape: { radius: 1 }
    cue: boom
  brute:
    kind: enemy
    health: 5
    damage: 20
    score: 50
    group: enemy
    mask: [player, shot]
    shape: { radius: 2 }
  bolt:
    kind: projectile
    damage: 1
    speed: 50
    lifetime: 1
    group: shot
    mask: [enemy, wall]
    shape: { radius: 0.2 }
  medkit:
    kind: pickup
    heal: 5
    score: 1
    group: pickup
    mask: [player]
    shape: { radius: 1 }
  pillar:
    kind: static
    group: wall
    mask: [player, shot]
    shape: { type: box, width: 2, height: 2 }
  line:
    kind: static
    trigger: lap
    sensor: true
    group: wall
    mask: [player]
    shape: { type: box, width: 1, height: 10 }
  gate:
    kind: static
    trigger: lap
    direction: 0
    sensor: true
    group: wall
    mask: [player]
    shape: { type: box, width: 1, height: 10 }
  post:
    kind: static
    trigger: checkpoint
    direction: 0
    sensor: true
    group: wall
    mask: [player]
    shape: { type: box, width: 1, height: 10 }
  blast:
    kind: static
    lifetime: 0.5
    group: wall
    shape: { radius: 1 }
levels:
  - name: first
    duration: 30
    spawns:
      - time: 5
        template: grunt
        position: [90, 90]
        repeat: { count: 3, interval: 2 }
  - name: second
    duration: 10
    spawns:
      - { time: 1, template: grunt, position: [10, 90] }
rules:
  explosion: blast
`

func fixtureConfig(t *testing.T) *config.GameConfig {
	t.Helper()
	cfg, err := config.Parse([]byte(fixtureYAML), "fixture")
	if err != nil {
		t.Fatalf("fixture config: %v", err)
	}
	return cfg
}

func newTestRegistry(t *testing.T) (*Registry, *physicstest.World) {
	t.Helper()
	templates, err := CompileTemplates(fixtureConfig(t))
	if err != nil {
		t.Fatalf("CompileTemplates: %v", err)
	}
	phys := physicstest.New()
	return NewRegistry(phys, templates, nil), phys
}

// newPlayingWorld returns a world that has just entered Playing, with its
// log captured in buf.
func newPlayingWorld(t *testing.T, cfg *config.GameConfig) (*World, *physicstest.World, *bytes.Buffer) {
	t.Helper()
	if cfg == nil {
		cfg = fixtureConfig(t)
	}
	var buf bytes.Buffer
	phys := physicstest.New()
	w, err := NewWorld(cfg, phys, Options{Logger: log.New(&buf), Seed: 7})
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	w.Loaded()
	w.Frame(0, core.NewInputFrame(core.ActionConfirm))
	if w.State() != StatePlaying {
		t.Fatalf("Expected playing after confirm, got %v", w.State())
	}
	return w, phys, &buf
}

// run advances the world by n frames of tick seconds with no input.
func run(w *World, n int) {
	for i := 0; i < n; i++ {
		w.Frame(tick, core.NewInputFrame())
	}
}

func mustSpawn(t *testing.T, r *Registry, name string, pos core.Vec2) *Entity {
	t.Helper()
	id, err := r.Spawn(name, pos)
	if err != nil {
		t.Fatalf("Spawn(%q): %v", name, err)
	}
	e, _ := r.Get(id)
	return e
}

func contact(a, b *Entity) physics.Contact {
	return physics.Contact{A: a.Body, B: b.Body, Impact: 1}
}
