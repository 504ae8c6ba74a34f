package engine

import "github.com/vovakirdan/arcade-core/internal/config"

// Judgement is the end-of-frame view rules decide on.
type Judgement struct {
	Session   *Session
	Hostiles  int  // unmarked enemies
	Pickups   int  // unmarked pickups
	Pending   bool // the current level still owes spawns
	LastLevel bool
}

// Rules decides game-specific end conditions.
type Rules interface {
	// Exhausted is called once when the last level ends.
	Exhausted(s *Session) Trigger
	// Judge is called after every playing frame. It returns false when the
	// run continues.
	Judge(j Judgement) (Trigger, bool)
}

// ConfigRules implements the end conditions expressible in config.
type ConfigRules struct {
	Cfg config.RulesConfig
}

func (r ConfigRules) Exhausted(*Session) Trigger {
	if r.Cfg.OnExhaustion == config.ExhaustLose {
		return TriggerLevelsLost
	}
	return TriggerLevelsWon
}

func (r ConfigRules) Judge(j Judgement) (Trigger, bool) {
	if r.Cfg.LapsToWin > 0 && j.Session.Laps >= r.Cfg.LapsToWin {
		return TriggerGoalReached, true
	}
	if r.Cfg.WinOnClear && j.LastLevel && !j.Pending && j.Hostiles == 0 {
		return TriggerHostilesCleared, true
	}
	return TriggerNone, false
}

// Extend layers a game-specific judge over base rules. fn is consulted
// first; frames it does not decide fall through to base.
func Extend(base Rules, fn func(j Judgement) (Trigger, bool)) Rules {
	return extended{base: base, fn: fn}
}

type extended struct {
	base Rules
	fn   func(j Judgement) (Trigger, bool)
}

func (r extended) Exhausted(s *Session) Trigger {
	return r.base.Exhausted(s)
}

func (r extended) Judge(j Judgement) (Trigger, bool) {
	if t, ok := r.fn(j); ok {
		return t, true
	}
	return r.base.Judge(j)
}
