package physics

import (
	"math"
	"testing"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name     string
		fixed    float64
		elapsed  float64
		maxSteps int
		want     int
	}{
		{name: "single step", fixed: 1.0 / 60, elapsed: 1.0 / 120, maxSteps: 3, want: 1},
		{name: "exact two", fixed: 0.01, elapsed: 0.02, maxSteps: 3, want: 2},
		{name: "capped", fixed: 0.01, elapsed: 1, maxSteps: 3, want: 3},
		{name: "nothing to do", fixed: 0.01, elapsed: 0, maxSteps: 3, want: 0},
		{name: "one allowed", fixed: 0.01, elapsed: 0.5, maxSteps: 1, want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			steps := Plan(tc.fixed, tc.elapsed, tc.maxSteps)
			if len(steps) != tc.want {
				t.Fatalf("len(Plan) = %d, expected %d (%v)", len(steps), tc.want, steps)
			}
			for _, s := range steps {
				if s > math.Max(tc.fixed, 0)+1e-12 {
					t.Errorf("step %v larger than fixed step %v", s, tc.fixed)
				}
			}
		})
	}
}
