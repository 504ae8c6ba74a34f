package engine

import "testing"

func TestNextTransitions(t *testing.T) {
	tests := []struct {
		name         string
		from         State
		trigger      Trigger
		instructions bool
		want         State
	}{
		{"loaded", StateLoading, TriggerLoaded, false, StateTitle},
		{"loading ignores confirm", StateLoading, TriggerConfirm, false, StateLoading},
		{"title to playing", StateTitle, TriggerConfirm, false, StatePlaying},
		{"title to instructions", StateTitle, TriggerConfirm, true, StateInstructions},
		{"instructions to playing", StateInstructions, TriggerConfirm, true, StatePlaying},
		{"instructions back", StateInstructions, TriggerBack, true, StateTitle},
		{"pause", StatePlaying, TriggerPause, false, StatePaused},
		{"resume", StatePaused, TriggerResume, false, StatePlaying},
		{"pause toggles", StatePaused, TriggerPause, false, StatePlaying},
		{"restart from pause", StatePaused, TriggerRestart, false, StatePlaying},
		{"quit from pause", StatePaused, TriggerBack, false, StateTitle},
		{"player down", StatePlaying, TriggerPlayerDown, false, StateGameOver},
		{"levels won", StatePlaying, TriggerLevelsWon, false, StateGameOver},
		{"levels lost", StatePlaying, TriggerLevelsLost, false, StateGameOver},
		{"cleared", StatePlaying, TriggerHostilesCleared, false, StateGameOver},
		{"goal", StatePlaying, TriggerGoalReached, false, StateGameOver},
		{"playing ignores confirm", StatePlaying, TriggerConfirm, false, StatePlaying},
		{"paused ignores player down", StatePaused, TriggerPlayerDown, false, StatePaused},
		{"game over confirm", StateGameOver, TriggerConfirm, false, StateTitle},
		{"game over restart", StateGameOver, TriggerRestart, false, StateTitle},
		{"game over ignores pause", StateGameOver, TriggerPause, false, StateGameOver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Next(tt.from, tt.trigger, tt.instructions); got != tt.want {
				t.Errorf("Next(%v, %v) = %v, expected %v", tt.from, tt.trigger, got, tt.want)
			}
		})
	}
}

func TestNextIsTotal(t *testing.T) {
	for s := StateLoading; s <= StateGameOver; s++ {
		for tr := TriggerNone; tr <= TriggerGoalReached; tr++ {
			for _, instr := range []bool{false, true} {
				got := Next(s, tr, instr)
				if got > StateGameOver {
					t.Errorf("Next(%v, %v) returned unknown state %v", s, tr, got)
				}
				if tr == TriggerNone && got != s {
					t.Errorf("TriggerNone moved %v to %v", s, got)
				}
			}
		}
	}
}

func TestMachineFireIsIdempotent(t *testing.T) {
	var changes []State
	m := NewMachine(false, func(_, to State, _ Trigger) {
		changes = append(changes, to)
	})

	m.Fire(TriggerLoaded)
	m.Fire(TriggerLoaded)
	m.Fire(TriggerConfirm)
	if !m.Fire(TriggerPlayerDown) {
		t.Fatal("Expected the first player-down to change state")
	}
	if m.Fire(TriggerPlayerDown) {
		t.Error("Second player-down should be a no-op")
	}
	if m.Fire(TriggerLevelsLost) {
		t.Error("Domain trigger in game over should be a no-op")
	}

	want := []State{StateTitle, StatePlaying, StateGameOver}
	if len(changes) != len(want) {
		t.Fatalf("Expected %d transitions, got %v", len(want), changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("Transition %d = %v, expected %v", i, changes[i], want[i])
		}
	}
}

func TestStateStrings(t *testing.T) {
	if StateGameOver.String() != "gameover" {
		t.Errorf("StateGameOver = %q", StateGameOver.String())
	}
	if State(99).String() != "state(99)" {
		t.Errorf("Unknown state = %q", State(99).String())
	}
	if !TriggerGoalReached.Winning() || TriggerPlayerDown.Winning() {
		t.Error("Winning classification is wrong")
	}
}
