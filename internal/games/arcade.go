// Package games adapts engine worlds to the registry.Game interface. Each
// game lives in its own subpackage, which only supplies an id, a title and
// optional end-condition rules; everything else comes from its YAML.
package games

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade-core/internal/config"
	"github.com/vovakirdan/arcade-core/internal/core"
	"github.com/vovakirdan/arcade-core/internal/engine"
	"github.com/vovakirdan/arcade-core/internal/physics/chipmunk"
	"github.com/vovakirdan/arcade-core/internal/registry"
)

// RulesFunc builds game-specific rules from the loaded config. Nil means
// the config's rules section alone decides.
type RulesFunc func(cfg *config.GameConfig) engine.Rules

// Arcade is a registry.Game backed by an engine.World over chipmunk physics.
type Arcade struct {
	id    string
	title string
	rules RulesFunc

	cfg   *config.GameConfig
	world *engine.World
}

// New creates an unloaded game. Reset must be called before Frame.
func New(id, title string, rules RulesFunc) *Arcade {
	return &Arcade{id: id, title: title, rules: rules}
}

func (a *Arcade) ID() string { return a.id }

func (a *Arcade) Title() string {
	if a.cfg != nil && a.cfg.Title != "" {
		return a.cfg.Title
	}
	return a.title
}

// Reset loads configuration and builds a new world in the title phase.
func (a *Arcade) Reset(rc core.RuntimeConfig) error {
	cfg, err := config.Load(a.id, rc.ConfigPath)
	if err != nil {
		return err
	}
	if rc.Difficulty != "" {
		preset, err := config.ParsePreset(rc.Difficulty)
		if err != nil {
			return err
		}
		config.ApplyPreset(cfg, preset)
	}
	if cfg.ID != a.id {
		return fmt.Errorf("games: config for %q loaded into %q", cfg.ID, a.id)
	}

	logger := rc.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var rules engine.Rules
	if a.rules != nil {
		rules = a.rules(cfg)
	}

	world, err := engine.NewWorld(cfg, chipmunk.New(), engine.Options{
		Logger: logger.With("game", a.id),
		Seed:   rc.Seed,
		Rules:  rules,
	})
	if err != nil {
		return err
	}
	world.Loaded()

	a.cfg = cfg
	a.world = world
	return nil
}

func (a *Arcade) Frame(raw float64, in core.InputFrame) core.StepResult {
	if a.world == nil {
		return core.StepResult{}
	}
	return a.world.Frame(raw, in)
}

func (a *Arcade) FrameAt(now time.Time, in core.InputFrame) core.StepResult {
	if a.world == nil {
		return core.StepResult{}
	}
	return a.world.FrameAt(now, in)
}

func (a *Arcade) Snapshot() core.Frame {
	if a.world == nil {
		return core.Frame{Game: a.id}
	}
	return a.world.Snapshot()
}

func (a *Arcade) Config() *config.GameConfig { return a.cfg }

func (a *Arcade) State() core.GameState {
	if a.world == nil {
		return core.GameState{Phase: engine.StateLoading.String()}
	}
	s := a.world.Session()
	state := a.world.State()
	return core.GameState{
		Score:    s.Score,
		Level:    s.Level,
		Elapsed:  s.Elapsed,
		Phase:    state.String(),
		Outcome:  s.Outcome.String(),
		GameOver: state == engine.StateGameOver,
		Paused:   state == engine.StatePaused,
	}
}

// World exposes the engine world for tools such as the simulator.
func (a *Arcade) World() *engine.World { return a.world }

var _ registry.Game = (*Arcade)(nil)
