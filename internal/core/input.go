package core

import "sort"

// Action represents a semantic game action, abstracted from physical key presses.
// Games work with intents (move, fire, pause) rather than raw keys.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow - move up
	ActionDown           // S, Down arrow - move down
	ActionLeft           // A, Left arrow - move left / steer left
	ActionRight          // D, Right arrow - move right / steer right
	ActionFire           // Space - fire / boost
	ActionConfirm        // Enter - confirm on title and instruction screens
	ActionBack           // B - leave a paused run for the title screen
	ActionRestart        // R - restart after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P, Escape - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionFire:
		return "Fire"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state for a single player during one frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame(actions ...Action) InputFrame {
	f := InputFrame{Actions: make(map[Action]bool, len(actions))}
	for _, a := range actions {
		f.Actions[a] = true
	}
	return f
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}

// List returns the triggered actions in ascending order.
func (f InputFrame) List() []Action {
	out := make([]Action, 0, len(f.Actions))
	for a, on := range f.Actions {
		if on {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Axis returns the movement direction requested this frame.
// Screen coordinates: up is negative Y. The result is not normalized.
func (f InputFrame) Axis() Vec2 {
	var v Vec2
	if f.Has(ActionUp) {
		v.Y--
	}
	if f.Has(ActionDown) {
		v.Y++
	}
	if f.Has(ActionLeft) {
		v.X--
	}
	if f.Has(ActionRight) {
		v.X++
	}
	return v
}
