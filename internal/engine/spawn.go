package engine

import (
	"sort"

	"github.com/vovakirdan/arcade-core/internal/config"
)

// Repeat turns a spawn event into a wave.
type Repeat struct {
	Count    int
	Interval float64
}

// SpawnEvent is one entry on a level timeline.
type SpawnEvent struct {
	Time     float64
	Template string
	Position config.Position
	Repeat   *Repeat

	triggered bool
}

// Triggered reports whether the event's start condition has fired.
func (e *SpawnEvent) Triggered() bool { return e.triggered }

// Level is a timeline of spawn events.
type Level struct {
	Name     string
	Duration float64
	Events   []SpawnEvent
}

// LevelsFromConfig converts validated level configs.
func LevelsFromConfig(cfg []config.LevelConfig) []Level {
	out := make([]Level, len(cfg))
	for i, lc := range cfg {
		lvl := Level{Name: lc.Name, Duration: lc.Duration}
		for _, sc := range lc.Spawns {
			ev := SpawnEvent{Time: sc.Time, Template: sc.Template, Position: sc.Position}
			if sc.Repeat != nil {
				ev.Repeat = &Repeat{Count: sc.Repeat.Count, Interval: sc.Repeat.Interval}
			}
			lvl.Events = append(lvl.Events, ev)
		}
		sort.SliceStable(lvl.Events, func(a, b int) bool { return lvl.Events[a].Time < lvl.Events[b].Time })
		out[i] = lvl
	}
	return out
}

// SpawnRequest asks the world to create an entity.
type SpawnRequest struct {
	Template string
	Position config.Position
	At       float64 // level time the spawn was due
	Level    int
	Wave     WaveHandle // zero for single spawns
}

// WaveHandle identifies an active wave. The zero handle is never active.
type WaveHandle struct {
	id uint64
}

// Valid reports whether the handle was ever issued.
func (h WaveHandle) Valid() bool { return h.id != 0 }

type wave struct {
	handle    WaveHandle
	template  string
	position  config.Position
	remaining int
	interval  float64
	next      float64
}

// Tick is the result of one Advance.
type Tick struct {
	Spawns    []SpawnRequest
	Advanced  bool // a level ended and the next one started
	Exhausted bool // the last level ended during this tick
	Level     int
}

// Scheduler runs level timelines in virtual time. It only moves when
// Advance is called, so pausing is simply not advancing it.
type Scheduler struct {
	levels []Level

	// IntervalScale adjusts wave intervals when a wave starts, for
	// difficulty scaling. Nil leaves them unchanged.
	IntervalScale func(float64) float64

	level     int
	timer     float64
	running   bool
	exhausted bool

	lastID uint64
	waves  []*wave
	byID   map[uint64]*wave
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(levels []Level) *Scheduler {
	return &Scheduler{levels: levels, byID: make(map[uint64]*wave)}
}

// Start begins level index with a zero timer, cancelling all waves.
func (s *Scheduler) Start(index int) {
	s.CancelAll()
	s.level = index
	s.timer = 0
	s.exhausted = false
	s.running = index >= 0 && index < len(s.levels)
	if s.running {
		lvl := &s.levels[index]
		for i := range lvl.Events {
			lvl.Events[i].triggered = false
		}
	}
}

// Stop halts the scheduler and cancels all waves.
func (s *Scheduler) Stop() {
	s.CancelAll()
	s.running = false
}

// CancelAll cancels every active wave.
func (s *Scheduler) CancelAll() {
	s.waves = nil
	clear(s.byID)
}

// Cancel cancels one wave. Cancelling an unknown or finished wave is a no-op.
func (s *Scheduler) Cancel(h WaveHandle) {
	if _, ok := s.byID[h.id]; !ok {
		return
	}
	delete(s.byID, h.id)
	for i, w := range s.waves {
		if w.handle == h {
			s.waves = append(s.waves[:i], s.waves[i+1:]...)
			break
		}
	}
}

// Active returns the handles of running waves in start order.
func (s *Scheduler) Active() []WaveHandle {
	out := make([]WaveHandle, len(s.waves))
	for i, w := range s.waves {
		out[i] = w.handle
	}
	return out
}

// Remaining returns how many spawns a wave still owes, or false when the
// handle is not active.
func (s *Scheduler) Remaining(h WaveHandle) (int, bool) {
	w, ok := s.byID[h.id]
	if !ok {
		return 0, false
	}
	return w.remaining, true
}

// Timer returns the level-relative time.
func (s *Scheduler) Timer() float64 { return s.timer }

// LevelIndex returns the current level.
func (s *Scheduler) LevelIndex() int { return s.level }

// Level returns the current level, if any.
func (s *Scheduler) Level() (Level, bool) {
	if s.level < 0 || s.level >= len(s.levels) {
		return Level{}, false
	}
	return s.levels[s.level], true
}

// Levels returns the number of levels.
func (s *Scheduler) Levels() int { return len(s.levels) }

// Running reports whether Advance will move time.
func (s *Scheduler) Running() bool { return s.running }

// Exhausted reports whether the last level has ended.
func (s *Scheduler) Exhausted() bool { return s.exhausted }

// Pending reports whether the current level still owes spawns.
func (s *Scheduler) Pending() bool {
	if len(s.waves) > 0 {
		return true
	}
	lvl, ok := s.Level()
	if !ok || s.exhausted {
		return false
	}
	for _, ev := range lvl.Events {
		if !ev.triggered {
			return true
		}
	}
	return false
}

// Advance moves level time forward by dt and returns the spawns that fell
// due. A level boundary inside dt ends the level; the remainder of dt is
// not carried into the next level.
func (s *Scheduler) Advance(dt float64) Tick {
	tick := Tick{Level: s.level}
	if !s.running || dt <= 0 {
		return tick
	}
	lvl := &s.levels[s.level]
	s.timer += dt

	for i := range lvl.Events {
		ev := &lvl.Events[i]
		if ev.triggered || s.timer < ev.Time {
			continue
		}
		ev.triggered = true
		if ev.Repeat == nil || ev.Repeat.Count <= 1 {
			tick.Spawns = append(tick.Spawns, SpawnRequest{
				Template: ev.Template,
				Position: ev.Position,
				At:       ev.Time,
				Level:    s.level,
			})
			continue
		}
		s.startWave(ev)
	}

	tick.Spawns = s.fireWaves(lvl.Duration, tick.Spawns)
	sort.SliceStable(tick.Spawns, func(a, b int) bool { return tick.Spawns[a].At < tick.Spawns[b].At })

	if s.timer >= lvl.Duration {
		s.CancelAll()
		if s.level+1 < len(s.levels) {
			s.Start(s.level + 1)
			tick.Advanced = true
		} else {
			s.running = false
			s.exhausted = true
			tick.Exhausted = true
		}
		tick.Level = s.level
	}
	return tick
}

func (s *Scheduler) startWave(ev *SpawnEvent) {
	interval := ev.Repeat.Interval
	if s.IntervalScale != nil {
		interval = s.IntervalScale(interval)
	}
	s.lastID++
	w := &wave{
		handle:    WaveHandle{id: s.lastID},
		template:  ev.Template,
		position:  ev.Position,
		remaining: ev.Repeat.Count,
		interval:  interval,
		next:      ev.Time,
	}
	s.waves = append(s.waves, w)
	s.byID[w.handle.id] = w
}

func (s *Scheduler) fireWaves(duration float64, out []SpawnRequest) []SpawnRequest {
	for _, w := range append([]*wave(nil), s.waves...) {
		for s.fire(w.handle) && w.next <= s.timer && w.next < duration {
			out = append(out, SpawnRequest{
				Template: w.template,
				Position: w.position,
				At:       w.next,
				Level:    s.level,
				Wave:     w.handle,
			})
			w.remaining--
			w.next += w.interval
			if w.remaining <= 0 {
				s.Cancel(w.handle)
			}
		}
	}
	return out
}

// fire reports whether a wave may still spawn. A cancelled handle is
// always refused.
func (s *Scheduler) fire(h WaveHandle) bool {
	_, ok := s.byID[h.id]
	return ok
}
