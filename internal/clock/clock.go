// Package clock turns host frame timestamps into bounded simulation steps.
package clock

import (
	"math"
	"time"
)

// Defaults for Config.
const (
	DefaultMaxStep     = 1.0 / 30
	DefaultFixedStep   = 1.0 / 60
	DefaultMaxSubSteps = 3
)

// Config bounds the step plan. Raw deltas above MaxStep are split into at
// most MaxSubSteps steps of FixedStep each.
type Config struct {
	MaxStep     float64
	FixedStep   float64
	MaxSubSteps int
}

// DefaultConfig returns the 1/30 s threshold with three 1/60 s sub-steps.
func DefaultConfig() Config {
	return Config{
		MaxStep:     DefaultMaxStep,
		FixedStep:   DefaultFixedStep,
		MaxSubSteps: DefaultMaxSubSteps,
	}
}

// normalized fills zero values from the defaults and keeps FixedStep <= MaxStep.
func (c Config) normalized() Config {
	if c.MaxStep <= 0 {
		c.MaxStep = DefaultMaxStep
	}
	if c.FixedStep <= 0 || c.FixedStep > c.MaxStep {
		c.FixedStep = math.Min(DefaultFixedStep, c.MaxStep)
	}
	if c.MaxSubSteps < 1 {
		c.MaxSubSteps = DefaultMaxSubSteps
	}
	return c
}

// Frame is the step plan for one host frame.
type Frame struct {
	Raw      float64 // seconds reported by the host
	Dt       float64 // seconds actually simulated this frame
	FixedDt  float64 // size of each physics step
	SubSteps int     // number of physics steps; 0 means nothing to simulate
}

// SubStepped reports whether the raw delta was over the threshold.
func (f Frame) SubStepped() bool {
	return f.SubSteps > 1 || (f.SubSteps == 1 && f.Dt < f.Raw)
}

// Clock produces Frames. It never blocks and holds no timers.
type Clock struct {
	cfg    Config
	last   time.Time
	frames uint64
}

// New creates a clock with the given limits.
func New(cfg Config) *Clock {
	return &Clock{cfg: cfg.normalized()}
}

// Config returns the effective limits.
func (c *Clock) Config() Config {
	return c.cfg
}

// Frames returns how many frames have been planned since New.
func (c *Clock) Frames() uint64 {
	return c.frames
}

// Tick plans a frame from a host timestamp. The first tick has no previous
// timestamp and simulates nothing.
func (c *Clock) Tick(now time.Time) Frame {
	if c.last.IsZero() {
		c.last = now
		c.frames++
		return Frame{}
	}
	raw := now.Sub(c.last).Seconds()
	c.last = now
	return c.Advance(raw)
}

// Advance plans a frame from a raw delta in seconds.
func (c *Clock) Advance(raw float64) Frame {
	c.frames++
	if math.IsNaN(raw) || raw <= 0 {
		return Frame{Raw: raw}
	}
	if raw <= c.cfg.MaxStep {
		return Frame{Raw: raw, Dt: raw, FixedDt: raw, SubSteps: 1}
	}

	budget := c.cfg.FixedStep * float64(c.cfg.MaxSubSteps)
	dt := math.Min(raw, budget)
	steps := int(math.Ceil(dt/c.cfg.FixedStep - 1e-9))
	steps = max(1, min(steps, c.cfg.MaxSubSteps))
	return Frame{Raw: raw, Dt: dt, FixedDt: c.cfg.FixedStep, SubSteps: steps}
}
