package engine

import "fmt"

// State is a game phase.
type State uint8

const (
	StateLoading State = iota
	StateTitle
	StateInstructions
	StatePlaying
	StatePaused
	StateGameOver
)

var stateNames = [...]string{
	StateLoading:      "loading",
	StateTitle:        "title",
	StateInstructions: "instructions",
	StatePlaying:      "playing",
	StatePaused:       "paused",
	StateGameOver:     "gameover",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Trigger is an input or domain event fed to the machine.
type Trigger uint8

const (
	TriggerNone Trigger = iota
	TriggerLoaded
	TriggerConfirm
	TriggerPause
	TriggerResume
	TriggerRestart
	TriggerBack
	TriggerPlayerDown
	TriggerLevelsWon
	TriggerLevelsLost
	TriggerHostilesCleared
	TriggerGoalReached
)

var triggerNames = [...]string{
	TriggerNone:            "none",
	TriggerLoaded:          "loaded",
	TriggerConfirm:         "confirm",
	TriggerPause:           "pause",
	TriggerResume:          "resume",
	TriggerRestart:         "restart",
	TriggerBack:            "back",
	TriggerPlayerDown:      "player_down",
	TriggerLevelsWon:       "levels_won",
	TriggerLevelsLost:      "levels_lost",
	TriggerHostilesCleared: "hostiles_cleared",
	TriggerGoalReached:     "goal_reached",
}

func (t Trigger) String() string {
	if int(t) < len(triggerNames) {
		return triggerNames[t]
	}
	return fmt.Sprintf("trigger(%d)", uint8(t))
}

// Winning reports whether a trigger ends the run as a win.
func (t Trigger) Winning() bool {
	switch t {
	case TriggerLevelsWon, TriggerHostilesCleared, TriggerGoalReached:
		return true
	default:
		return false
	}
}

// Next is the transition function. It is total: every pair not listed
// below leaves the state unchanged. instructions selects whether Title
// passes through Instructions.
func Next(s State, t Trigger, instructions bool) State {
	switch s {
	case StateLoading:
		if t == TriggerLoaded {
			return StateTitle
		}
	case StateTitle:
		if t == TriggerConfirm {
			if instructions {
				return StateInstructions
			}
			return StatePlaying
		}
	case StateInstructions:
		switch t {
		case TriggerConfirm:
			return StatePlaying
		case TriggerBack:
			return StateTitle
		}
	case StatePlaying:
		switch t {
		case TriggerPause:
			return StatePaused
		case TriggerPlayerDown, TriggerLevelsWon, TriggerLevelsLost,
			TriggerHostilesCleared, TriggerGoalReached:
			return StateGameOver
		}
	case StatePaused:
		switch t {
		case TriggerPause, TriggerResume, TriggerRestart:
			return StatePlaying
		case TriggerBack:
			return StateTitle
		}
	case StateGameOver:
		switch t {
		case TriggerConfirm, TriggerRestart:
			return StateTitle
		}
	}
	return s
}

// TransitionFunc observes a state change.
type TransitionFunc func(from, to State, t Trigger)

// Machine holds the current state and notifies on changes.
type Machine struct {
	state        State
	instructions bool
	onChange     TransitionFunc
}

// NewMachine starts in Loading.
func NewMachine(instructions bool, onChange TransitionFunc) *Machine {
	return &Machine{state: StateLoading, instructions: instructions, onChange: onChange}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Fire applies a trigger and reports whether the state changed. A trigger
// that leads to the current state does nothing, so repeated domain events
// never re-enter a state.
func (m *Machine) Fire(t Trigger) bool {
	next := Next(m.state, t, m.instructions)
	if next == m.state {
		return false
	}
	from := m.state
	m.state = next
	if m.onChange != nil {
		m.onChange(from, next, t)
	}
	return true
}
