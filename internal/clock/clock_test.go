package clock

import (
	"math"
	"testing"
	"time"
)

func TestAdvanceBelowThreshold(t *testing.T) {
	c := New(DefaultConfig())

	f := c.Advance(1.0 / 60)
	if f.SubSteps != 1 {
		t.Errorf("SubSteps = %d, expected 1", f.SubSteps)
	}
	if f.Dt != 1.0/60 || f.FixedDt != 1.0/60 {
		t.Errorf("single step should use the raw delta, got dt=%v fixed=%v", f.Dt, f.FixedDt)
	}
	if f.SubStepped() {
		t.Error("a delta under the threshold must not be sub-stepped")
	}
}

func TestAdvanceNeverExceedsCap(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg)

	raws := []float64{0.001, 1.0 / 30, 0.034, 0.05, 0.2, 1, 30, 3600, math.Inf(1)}
	for _, raw := range raws {
		f := c.Advance(raw)
		if f.FixedDt > cfg.MaxStep+1e-12 {
			t.Errorf("raw=%v: step %v exceeds cap %v", raw, f.FixedDt, cfg.MaxStep)
		}
		if f.SubSteps > cfg.MaxSubSteps {
			t.Errorf("raw=%v: %d sub-steps exceeds %d", raw, f.SubSteps, cfg.MaxSubSteps)
		}
		if f.Dt > cfg.FixedStep*float64(cfg.MaxSubSteps)+1e-12 && raw > cfg.MaxStep {
			t.Errorf("raw=%v: simulated %v seconds, more than the sub-step budget", raw, f.Dt)
		}
		if raw > cfg.MaxStep && !f.SubStepped() {
			t.Errorf("raw=%v: expected sub-stepping above the threshold", raw)
		}
	}
}

func TestAdvanceLargeDeltaUsesAllSubSteps(t *testing.T) {
	c := New(DefaultConfig())

	f := c.Advance(5)
	if f.SubSteps != 3 {
		t.Errorf("SubSteps = %d, expected 3", f.SubSteps)
	}
	if math.Abs(f.Dt-3.0/60) > 1e-12 {
		t.Errorf("Dt = %v, expected 0.05", f.Dt)
	}
}

func TestAdvanceInvalidDelta(t *testing.T) {
	c := New(DefaultConfig())

	for _, raw := range []float64{0, -1, math.NaN()} {
		f := c.Advance(raw)
		if f.SubSteps != 0 || f.Dt != 0 {
			t.Errorf("raw=%v: expected empty frame, got %+v", raw, f)
		}
	}
}

func TestConfigOverrides(t *testing.T) {
	c := New(Config{MaxStep: 0.1, FixedStep: 0.02, MaxSubSteps: 5})

	f := c.Advance(0.5)
	if f.SubSteps != 5 || math.Abs(f.Dt-0.1) > 1e-12 {
		t.Errorf("expected 5 steps covering 0.1s, got %+v", f)
	}

	// FixedStep above MaxStep is pulled back under the cap.
	c = New(Config{MaxStep: 0.01, FixedStep: 0.5, MaxSubSteps: 2})
	if c.Config().FixedStep > 0.01 {
		t.Errorf("FixedStep = %v, expected <= MaxStep", c.Config().FixedStep)
	}
}

func TestTick(t *testing.T) {
	c := New(DefaultConfig())
	start := time.Unix(1000, 0)

	if f := c.Tick(start); f.SubSteps != 0 {
		t.Errorf("first tick should simulate nothing, got %+v", f)
	}
	f := c.Tick(start.Add(16 * time.Millisecond))
	if f.SubSteps != 1 || math.Abs(f.Dt-0.016) > 1e-9 {
		t.Errorf("unexpected frame %+v", f)
	}

	// A backgrounded host resumes after ten seconds.
	f = c.Tick(start.Add(10 * time.Second))
	if f.SubSteps != 3 {
		t.Errorf("SubSteps after suspension = %d, expected 3", f.SubSteps)
	}
	if c.Frames() != 3 {
		t.Errorf("Frames() = %d, expected 3", c.Frames())
	}
}
