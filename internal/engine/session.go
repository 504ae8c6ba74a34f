package engine

import "github.com/google/uuid"

// Outcome is how a run ended.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return ""
	}
}

// Session is the state of one run. It is created when play starts and
// reset on restart; every subsystem receives it explicitly.
type Session struct {
	RunID      string
	Score      int
	Health     float64
	MaxHealth  float64
	Level      int
	LevelTimer float64
	Elapsed    float64
	Laps       int
	Kills      int
	Outcome    Outcome

	passed map[EntityID]struct{} // checkpoints crossed since the last lap
}

// NewSession returns a zeroed session with a fresh run id.
func NewSession(health float64) *Session {
	s := &Session{}
	s.Reset(health)
	return s
}

// Reset starts a new run in place.
func (s *Session) Reset(health float64) {
	*s = Session{
		RunID:     uuid.NewString(),
		Health:    health,
		MaxHealth: health,
	}
}

// PassCheckpoint records a checkpoint crossing for the current lap.
func (s *Session) PassCheckpoint(id EntityID) {
	if s.passed == nil {
		s.passed = make(map[EntityID]struct{})
	}
	s.passed[id] = struct{}{}
}

// CompleteLap counts a lap if at least need distinct checkpoints were crossed
// since the previous lap, and starts the next one.
func (s *Session) CompleteLap(need int) bool {
	if len(s.passed) < need {
		return false
	}
	s.Laps++
	clear(s.passed)
	return true
}
