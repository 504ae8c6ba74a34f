package engine

import (
	"testing"

	"github.com/vovakirdan/arcade-core/internal/config"
)

func waveLevel() []Level {
	return []Level{{
		Name:     "waves",
		Duration: 30,
		Events: []SpawnEvent{{
			Time:     5,
			Template: "grunt",
			Position: config.At(1, 1),
			Repeat:   &Repeat{Count: 3, Interval: 2},
		}},
	}}
}

func TestWaveSpawnsAtLevelTimes(t *testing.T) {
	s := NewScheduler(waveLevel())
	s.Start(0)

	var at []float64
	exhausted := 0
	var exhaustedAt float64
	for i := 0; i < 200; i++ {
		before := s.Timer()
		tk := s.Advance(0.25)
		for _, req := range tk.Spawns {
			at = append(at, req.At)
			if !req.Wave.Valid() {
				t.Errorf("Wave spawn at %v has no wave handle", req.At)
			}
		}
		if len(tk.Spawns) > 0 && at[len(at)-1] == 9 && len(s.Active()) != 0 {
			t.Errorf("Wave still active after its last spawn")
		}
		if tk.Exhausted {
			exhausted++
			exhaustedAt = before + 0.25
		}
	}

	want := []float64{5, 7, 9}
	if len(at) != len(want) {
		t.Fatalf("Expected %d spawns, got %d (%v)", len(want), len(at), at)
	}
	for i := range want {
		if at[i] != want[i] {
			t.Errorf("Spawn %d at %v, expected %v", i, at[i], want[i])
		}
	}
	if exhausted != 1 {
		t.Errorf("Expected level exhaustion once, got %d", exhausted)
	}
	if exhaustedAt < 30 {
		t.Errorf("Level ended at %v, before its duration", exhaustedAt)
	}
	if s.Running() {
		t.Error("Scheduler should stop after the last level")
	}
}

func TestSingleEventFiresOnce(t *testing.T) {
	s := NewScheduler([]Level{{
		Duration: 10,
		Events:   []SpawnEvent{{Time: 1, Template: "grunt", Position: config.At(0, 0)}},
	}})
	s.Start(0)

	spawns := 0
	for i := 0; i < 30; i++ {
		spawns += len(s.Advance(0.25).Spawns)
	}
	if spawns != 1 {
		t.Errorf("Expected exactly one spawn, got %d", spawns)
	}
}

func TestWaveCatchesUpOnLargeDelta(t *testing.T) {
	s := NewScheduler(waveLevel())
	s.Start(0)

	tk := s.Advance(8)
	if len(tk.Spawns) != 2 {
		t.Fatalf("Expected spawns at 5 and 7, got %d", len(tk.Spawns))
	}
	if tk.Spawns[0].At != 5 || tk.Spawns[1].At != 7 {
		t.Errorf("Unexpected spawn times %v, %v", tk.Spawns[0].At, tk.Spawns[1].At)
	}
	h := tk.Spawns[0].Wave
	if n, ok := s.Remaining(h); !ok || n != 1 {
		t.Errorf("Remaining = %d, %v; expected 1, true", n, ok)
	}
}

func TestCancelledWaveNeverFires(t *testing.T) {
	s := NewScheduler(waveLevel())
	s.Start(0)

	tk := s.Advance(5)
	if len(tk.Spawns) != 1 {
		t.Fatalf("Expected the first wave spawn, got %d", len(tk.Spawns))
	}
	h := tk.Spawns[0].Wave

	s.Cancel(h)
	if s.fire(h) {
		t.Error("Cancelled handle should be refused")
	}
	if _, ok := s.Remaining(h); ok {
		t.Error("Cancelled wave should not be active")
	}
	if got := s.Advance(10).Spawns; len(got) != 0 {
		t.Errorf("Expected no spawns after cancel, got %d", len(got))
	}

	// Cancelling twice is harmless.
	s.Cancel(h)
}

func TestLevelEndCancelsWaves(t *testing.T) {
	s := NewScheduler([]Level{
		{
			Name:     "short",
			Duration: 2,
			Events: []SpawnEvent{{
				Time:     0,
				Template: "grunt",
				Repeat:   &Repeat{Count: 10, Interval: 0.5},
			}},
		},
		{Name: "next", Duration: 5},
	})
	s.Start(0)

	spawns := 0
	advanced := 0
	for i := 0; i < 4; i++ {
		tk := s.Advance(0.5)
		spawns += len(tk.Spawns)
		if tk.Advanced {
			advanced++
		}
	}

	if spawns != 4 {
		t.Errorf("Expected 4 spawns before the level ended, got %d", spawns)
	}
	if advanced != 1 {
		t.Errorf("Expected one level advance, got %d", advanced)
	}
	if s.LevelIndex() != 1 || s.Timer() != 0 {
		t.Errorf("Expected level 1 at time 0, got level %d at %v", s.LevelIndex(), s.Timer())
	}
	if len(s.Active()) != 0 {
		t.Errorf("Expected no active waves in the new level, got %d", len(s.Active()))
	}
	if got := s.Advance(1).Spawns; len(got) != 0 {
		t.Errorf("Stale wave spawned %d entities into the next level", len(got))
	}
}

func TestStartRearmsEvents(t *testing.T) {
	s := NewScheduler(waveLevel())
	s.Start(0)
	s.Advance(6)
	if len(s.Active()) != 1 {
		t.Fatalf("Expected one active wave, got %d", len(s.Active()))
	}

	s.Start(0)
	if len(s.Active()) != 0 {
		t.Error("Start should cancel running waves")
	}
	if s.Timer() != 0 {
		t.Errorf("Timer = %v, expected 0", s.Timer())
	}
	if got := len(s.Advance(5).Spawns); got != 1 {
		t.Errorf("Expected the wave to start again, got %d spawns", got)
	}
}

func TestStoppedSchedulerDoesNotAdvance(t *testing.T) {
	s := NewScheduler(waveLevel())
	s.Start(0)
	s.Advance(6)
	s.Stop()

	tk := s.Advance(100)
	if len(tk.Spawns) != 0 || tk.Exhausted {
		t.Error("Stopped scheduler should not spawn or end levels")
	}
	if s.Pending() {
		t.Error("Stopped scheduler should have no active waves")
	}
}

func TestIntervalScale(t *testing.T) {
	s := NewScheduler(waveLevel())
	s.IntervalScale = func(base float64) float64 { return base / 2 }
	s.Start(0)

	tk := s.Advance(7)
	if len(tk.Spawns) != 3 {
		t.Fatalf("Expected spawns at 5, 6 and 7, got %d", len(tk.Spawns))
	}
	if tk.Spawns[2].At != 7 {
		t.Errorf("Last spawn at %v, expected 7", tk.Spawns[2].At)
	}
}

func TestLevelsFromConfigSortsEvents(t *testing.T) {
	levels := LevelsFromConfig([]config.LevelConfig{{
		Name:     "l",
		Duration: 10,
		Spawns: []config.SpawnConfig{
			{Time: 4, Template: "b"},
			{Time: 1, Template: "a", Repeat: &config.RepeatConfig{Count: 2, Interval: 1}},
		},
	}})
	ev := levels[0].Events
	if ev[0].Template != "a" || ev[1].Template != "b" {
		t.Errorf("Events not sorted by time: %v, %v", ev[0].Template, ev[1].Template)
	}
	if ev[0].Repeat == nil || ev[0].Repeat.Count != 2 {
		t.Error("Repeat was not converted")
	}
}
