package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arcade-core/internal/storage"
)

func openRuns(t *testing.T, runs ...storage.Run) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func selectGame(t *testing.T, m ScoreboardModel, id string) ScoreboardModel {
	t.Helper()
	for i, g := range m.games {
		if g.ID == id {
			m.game = i
			m.reload()
			return m
		}
	}
	t.Fatalf("Expected %s to be registered", id)
	return m
}

func TestScoreboardFiltersByOutcome(t *testing.T) {
	store := openRuns(t,
		storage.Run{ID: "a", GameID: "scroller", Score: 300, Outcome: "won", Seed: 1},
		storage.Run{ID: "b", GameID: "scroller", Score: 200, Outcome: "lost", Seed: 2},
		storage.Run{ID: "c", GameID: "scroller", Score: 100, Outcome: "lost", Seed: 3},
	)
	m := selectGame(t, NewScoreboardModel(store, 100, 30), "scroller")

	f := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}}
	tests := []struct {
		filter string
		want   int
	}{
		{"all", 3},
		{"won", 1},
		{"lost", 2},
		{"all", 3},
	}
	for i, tt := range tests {
		if i > 0 {
			next, _ := m.Update(f)
			m = next.(ScoreboardModel)
		}
		if m.filter.String() != tt.filter {
			t.Fatalf("Expected filter %s, got %s", tt.filter, m.filter)
		}
		if len(m.shown) != tt.want {
			t.Errorf("Expected %d %s runs, got %d", tt.want, tt.filter, len(m.shown))
		}
	}
}

func TestScoreboardSelectedRun(t *testing.T) {
	store := openRuns(t,
		storage.Run{ID: "low", GameID: "scroller", Score: 10, Outcome: "lost", Seed: 5},
		storage.Run{ID: "high", GameID: "scroller", Score: 90, Outcome: "won", Seed: 42},
	)
	m := selectGame(t, NewScoreboardModel(store, 100, 30), "scroller")

	r, ok := m.Selected()
	if !ok || r.ID != "high" {
		t.Fatalf("Expected the best run selected, got %+v", r)
	}
	if !strings.Contains(m.View(), "--seed 42") {
		t.Error("Expected the selected seed in the view")
	}
}

func TestScoreboardEmptyAndBack(t *testing.T) {
	m := NewScoreboardModel(nil, 80, 24)
	if !strings.Contains(m.View(), "No runs recorded yet.") {
		t.Error("Expected the empty message without a store")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(ScoreboardModel)
	if !m.IsGoingBack() || m.IsQuitting() || cmd == nil {
		t.Error("Expected esc to go back to the menu")
	}
}
