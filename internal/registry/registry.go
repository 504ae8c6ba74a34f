// Package registry maps game ids to factories. Each game package registers
// itself from init, so hosts only need a blank import to offer it.
package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/vovakirdan/arcade-core/internal/config"
	"github.com/vovakirdan/arcade-core/internal/core"
)

// Game is what a platform drives. Implementations hold no terminal or
// network code; the platform maps input, keeps time and draws snapshots.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "shooter", "kart").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset loads the game's configuration and builds a fresh world in the
	// title phase. Configuration errors are returned here and nowhere else.
	Reset(cfg core.RuntimeConfig) error

	// Frame runs one host frame from a raw delta in seconds.
	Frame(raw float64, in core.InputFrame) core.StepResult

	// FrameAt runs one host frame from a wall-clock timestamp.
	FrameAt(now time.Time, in core.InputFrame) core.StepResult

	// Snapshot returns the read-only view of the last frame.
	Snapshot() core.Frame

	// Config returns the loaded configuration, or nil before Reset.
	Config() *config.GameConfig

	// State returns the current game state.
	State() core.GameState
}

// GameInfo describes a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory builds a fresh, unloaded game.
type Factory func() Game

type entry struct {
	title   string
	factory Factory
}

var (
	mu      sync.RWMutex
	entries = map[string]entry{}
)

// Register adds a game. It panics on a duplicate id, which can only come
// from two packages claiming the same name.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, dup := entries[id]; dup {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	// Title needs no loaded config, so a throwaway instance is enough.
	entries[id] = entry{title: f().Title(), factory: f}
}

// List returns every registered game ordered by id.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]GameInfo, 0, len(entries))
	for id, e := range entries {
		out = append(out, GameInfo{ID: id, Title: e.title})
	}
	slices.SortFunc(out, func(a, b GameInfo) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Create returns a new instance of the game. Call Reset before driving it.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return e.factory(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := entries[id]
	return ok
}
