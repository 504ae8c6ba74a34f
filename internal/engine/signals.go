package engine

import "github.com/vovakirdan/arcade-core/internal/core"

// Signal is a side effect requested by the registry or the resolver and
// carried out by the World. Signals never mutate state themselves.
type Signal interface {
	signal()
}

// ScoreSignal adds points to the session score.
type ScoreSignal struct {
	Points int
}

// ExplosionSignal requests an explosion entity at a position.
type ExplosionSignal struct {
	At core.Vec2
}

// CueSignal requests an audio cue by name.
type CueSignal struct {
	Name string
}

// LapSignal records one forward crossing of a lap trigger.
type LapSignal struct{}

// CheckpointSignal records one forward crossing of a checkpoint.
type CheckpointSignal struct {
	ID EntityID
}

// PlayerDownSignal reports that the player's health reached zero.
type PlayerDownSignal struct{}

// KillSignal reports that a hostile was destroyed.
type KillSignal struct {
	Victim EntityID
}

// FireSignal requests a projectile spawn.
type FireSignal struct {
	Template string
	From     core.Vec2
	Heading  float64
	Owner    Kind
}

// EscapeSignal reports an enemy that left the field.
type EscapeSignal struct {
	Entity EntityID
}

func (ScoreSignal) signal()      {}
func (ExplosionSignal) signal()  {}
func (CueSignal) signal()        {}
func (LapSignal) signal()        {}
func (CheckpointSignal) signal() {}
func (PlayerDownSignal) signal() {}
func (KillSignal) signal()       {}
func (FireSignal) signal()       {}
func (EscapeSignal) signal()     {}
