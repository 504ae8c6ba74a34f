package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arcade-core/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "w", "up", "k":
		return core.ActionUp, false
	case "s", "down", "j":
		return core.ActionDown, false
	case "a", "left", "h":
		return core.ActionLeft, false
	case "d", "right", "l":
		return core.ActionRight, false
	case " ", "f":
		return core.ActionFire, false
	case "enter":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}

// DefaultHold is how long a movement or fire key counts as held after the
// terminal reports it. Terminals send repeats, never releases.
const DefaultHold = 150 * time.Millisecond

// held reports whether an action stays active between key repeats.
// Menu-like actions are edge triggered and last exactly one frame.
func held(a core.Action) bool {
	switch a {
	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight, core.ActionFire:
		return true
	default:
		return false
	}
}

// InputLatch accumulates key presses between ticks and turns them into
// one InputFrame per tick.
type InputLatch struct {
	hold    time.Duration
	until   map[core.Action]time.Time
	pending core.InputFrame
}

// NewInputLatch creates a latch that keeps movement keys down for hold.
func NewInputLatch(hold time.Duration) *InputLatch {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &InputLatch{
		hold:    hold,
		until:   make(map[core.Action]time.Time),
		pending: core.NewInputFrame(),
	}
}

// Press records an action at the given time.
func (l *InputLatch) Press(a core.Action, now time.Time) {
	if a == core.ActionNone {
		return
	}
	l.pending.Set(a)
	if held(a) {
		l.until[a] = now.Add(l.hold)
		// Opposite directions cancel instead of summing to zero.
		if opp, ok := opposite(a); ok {
			delete(l.until, opp)
		}
	}
}

// Frame returns the actions active at now and clears one-shot presses.
func (l *InputLatch) Frame(now time.Time) core.InputFrame {
	f := l.pending.Clone()
	for a, t := range l.until {
		if now.Before(t) {
			f.Set(a)
		} else {
			delete(l.until, a)
		}
	}
	l.pending.Clear()
	return f
}

// Release drops every held key, used when the screen changes.
func (l *InputLatch) Release() {
	for a := range l.until {
		delete(l.until, a)
	}
	l.pending.Clear()
}

func opposite(a core.Action) (core.Action, bool) {
	switch a {
	case core.ActionUp:
		return core.ActionDown, true
	case core.ActionDown:
		return core.ActionUp, true
	case core.ActionLeft:
		return core.ActionRight, true
	case core.ActionRight:
		return core.ActionLeft, true
	}
	return core.ActionNone, false
}
