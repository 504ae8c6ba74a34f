// Package replay records the raw frame deltas and inputs fed to a game and
// plays them back. Worlds are deterministic for a given seed, so a replay
// reproduces the run exactly.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/arcade-core/internal/core"
	"github.com/vovakirdan/arcade-core/internal/registry"
)

// Version is the current recording format.
const Version = 1

// ErrMismatch is returned by Verify when playback ends in a different
// state than the one recorded.
var ErrMismatch = errors.New("replay: playback diverged from recording")

// Frame is one host frame.
type Frame struct {
	Dt      float64       `msgpack:"dt"`
	Actions []core.Action `msgpack:"a,omitempty"`
}

// Recording is a complete input log plus the state it ended in.
type Recording struct {
	Version    int     `msgpack:"v"`
	GameID     string  `msgpack:"game"`
	Seed       int64   `msgpack:"seed"`
	Difficulty string  `msgpack:"difficulty,omitempty"`
	ConfigPath string  `msgpack:"config,omitempty"`
	Frames     []Frame `msgpack:"frames"`

	Final core.GameState `msgpack:"final"`
}

// Recorder wraps a game and logs every frame it is given. It is itself a
// registry.Game, so hosts drive it exactly as they would the game.
type Recorder struct {
	registry.Game
	rec  Recording
	last time.Time
}

// NewRecorder wraps g.
func NewRecorder(g registry.Game) *Recorder {
	return &Recorder{Game: g}
}

// Reset resets the game and starts a new recording.
func (r *Recorder) Reset(cfg core.RuntimeConfig) error {
	r.rec = Recording{
		Version:    Version,
		GameID:     r.Game.ID(),
		Seed:       cfg.Seed,
		Difficulty: cfg.Difficulty,
		ConfigPath: cfg.ConfigPath,
	}
	r.last = time.Time{}
	return r.Game.Reset(cfg)
}

// Frame records and forwards one frame.
func (r *Recorder) Frame(raw float64, in core.InputFrame) core.StepResult {
	r.rec.Frames = append(r.rec.Frames, Frame{Dt: raw, Actions: in.List()})
	return r.Game.Frame(raw, in)
}

// FrameAt converts the timestamp to a delta so the recording does not
// depend on wall-clock time. The first call has no previous timestamp and
// simulates nothing.
func (r *Recorder) FrameAt(now time.Time, in core.InputFrame) core.StepResult {
	raw := 0.0
	if !r.last.IsZero() {
		raw = now.Sub(r.last).Seconds()
	}
	r.last = now
	return r.Frame(raw, in)
}

// Recording returns the log so far, stamped with the game's current state.
func (r *Recorder) Recording() Recording {
	rec := r.rec
	rec.Frames = append([]Frame(nil), r.rec.Frames...)
	rec.Final = r.Game.State()
	return rec
}

// Save writes the recording to path.
func (r *Recorder) Save(path string) error {
	return Save(path, r.Recording())
}

// Encode writes a recording as msgpack.
func Encode(w io.Writer, rec Recording) error {
	if err := msgpack.NewEncoder(w).Encode(&rec); err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	return nil
}

// Decode reads a msgpack recording.
func Decode(rd io.Reader) (Recording, error) {
	var rec Recording
	if err := msgpack.NewDecoder(rd).Decode(&rec); err != nil {
		return Recording{}, fmt.Errorf("replay: decode: %w", err)
	}
	if rec.Version != Version {
		return Recording{}, fmt.Errorf("replay: unsupported version %d", rec.Version)
	}
	return rec, nil
}

// Save writes rec to a file.
func Save(path string, rec Recording) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, rec); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("replay: %w", err)
	}
	return f.Close()
}

// Load reads a recording file.
func Load(path string) (Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recording{}, fmt.Errorf("replay: %w", err)
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}

// Play feeds a recording into a fresh instance of its game and returns the
// state it ends in. The game's package must be linked into the binary.
// base supplies the remaining runtime settings, such as the logger.
func Play(rec Recording, base core.RuntimeConfig) (core.GameState, error) {
	g, err := registry.Create(rec.GameID)
	if err != nil {
		return core.GameState{}, err
	}
	rc := base
	rc.Seed = rec.Seed
	rc.Difficulty = rec.Difficulty
	rc.ConfigPath = rec.ConfigPath
	if err := g.Reset(rc); err != nil {
		return core.GameState{}, err
	}
	for _, f := range rec.Frames {
		g.Frame(f.Dt, core.NewInputFrame(f.Actions...))
	}
	return g.State(), nil
}

// Verify plays a recording and compares the outcome with the recorded one.
func Verify(rec Recording, rc core.RuntimeConfig) (core.GameState, error) {
	got, err := Play(rec, rc)
	if err != nil {
		return got, err
	}
	if got != rec.Final {
		return got, fmt.Errorf("%w: recorded score %d (%s), replayed score %d (%s)",
			ErrMismatch, rec.Final.Score, rec.Final.Phase, got.Score, got.Phase)
	}
	return got, nil
}
