// Package tui provides the Bubble Tea integration for the arcade platform.
// It maps keys to actions, drives games from a wall-clock tick and draws
// their snapshots.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	minFPS = 10
	maxFPS = 120
)

// TickMsg is sent to trigger a game frame. Gen ties it to the model that
// scheduled it, so a tick left over from a finished game is ignored.
type TickMsg struct {
	Time time.Time
	Gen  uint64
}

var tickGen atomic.Uint64

// nextGen returns a fresh tick generation.
func nextGen() uint64 {
	return tickGen.Add(1)
}

// tickInterval converts a host frame rate into a tick period.
func tickInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	fps = max(minFPS, min(fps, maxFPS))
	return time.Second / time.Duration(fps)
}

// tickCmd returns a Bubble Tea command that sends one tick after a frame period.
// The game clock measures the real gap, so a late tick only lengthens the delta.
func tickCmd(fps int, gen uint64) tea.Cmd {
	return tea.Tick(tickInterval(fps), func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Gen: gen}
	})
}
