package config

import (
	"math"
	"testing"
)

func TestDifficultyLevel(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:      ScalingConfig{SpeedMultiplier: 1, HealthMultiplier: 0.5, IntervalReduction: 0.5},
	}
	d := NewDifficultyManager(cfg)

	tests := []struct {
		name  string
		score int
		want  float64
	}{
		{name: "start", score: 0, want: 0.2},
		{name: "halfway", score: 50, want: 0.6},
		{name: "max", score: 100, want: 1.0},
		{name: "past max", score: 500, want: 1.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.Level(tc.score, 0); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Level(%d) = %v, expected %v", tc.score, got, tc.want)
			}
		})
	}

	if got := d.Speed(10, 100, 0); math.Abs(got-20) > 1e-9 {
		t.Errorf("Speed at max = %v, expected 20", got)
	}
	if got := d.Health(10, 100, 0); math.Abs(got-15) > 1e-9 {
		t.Errorf("Health at max = %v, expected 15", got)
	}
	if got := d.Interval(2, 100, 0); math.Abs(got-1) > 1e-9 {
		t.Errorf("Interval at max = %v, expected 1", got)
	}
}

func TestDifficultyDisabledIsNeutral(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Scaling: ScalingConfig{SpeedMultiplier: 3, HealthMultiplier: 3, IntervalReduction: 1},
	})

	if d.IsEnabled() {
		t.Error("zero config should be disabled")
	}
	if got := d.Speed(7, 1000, 1000); got != 7 {
		t.Errorf("Speed = %v, expected unscaled 7", got)
	}
	if got := d.Interval(2, 1000, 1000); got != 2 {
		t.Errorf("Interval = %v, expected unscaled 2", got)
	}
}

func TestDifficultyTimeProgression(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "time", MaxAt: 60},
	})
	if got := d.Level(0, 30); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Level after 30s = %v, expected 0.5", got)
	}
}
