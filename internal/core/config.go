package core

import "github.com/charmbracelet/log"

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW    int    // Screen width in characters
	ScreenH    int    // Screen height in characters
	TickRate   int    // Host frames per second (default 60)
	Seed       int64  // RNG seed for deterministic gameplay
	ConfigPath string // Optional custom game YAML
	Difficulty string // easy, normal, hard, fixed or empty for the file's own settings
	Logger     *log.Logger
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int     // Current score
	Level    int     // Zero-based level index
	Elapsed  float64 // Seconds of simulated play
	Phase    string  // Name of the state machine phase
	Outcome  string  // "won", "lost" or empty while undecided
	GameOver bool    // Whether the game has ended
	Paused   bool    // Whether the game is paused
}

// StepResult is returned by Game.Step() after each frame.
type StepResult struct {
	State GameState
	// Cues lists audio cue names requested during the frame.
	Cues []string
}
