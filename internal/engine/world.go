package engine

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade-core/internal/clock"
	"github.com/vovakirdan/arcade-core/internal/config"
	"github.com/vovakirdan/arcade-core/internal/core"
	"github.com/vovakirdan/arcade-core/internal/physics"
)

const defaultTurnRate = 180.0 // degrees per second

// Options configures a World.
type Options struct {
	Logger *log.Logger
	Seed   int64
	// Rules overrides the rules built from the config's rules section.
	Rules Rules
}

// World wires the clock, registry, resolver, scheduler and state machine
// for one game. It is driven by a single goroutine, one Frame call per
// host frame.
type World struct {
	cfg    *config.GameConfig
	logger *log.Logger
	rules  Rules
	seed   int64

	clock    *clock.Clock
	phys     physics.Adapter
	reg      *Registry
	resolver *Resolver
	sched    *Scheduler
	machine  *Machine
	session  *Session
	diff     *config.DifficultyManager
	rng      *rand.Rand

	field   core.Bounds
	control PlayerControl

	contacts []physics.Contact
	cues     []string
	down     bool
	seq      uint64
}

// NewWorld builds a world from a validated config. The world starts in
// Loading; call Loaded once the host is ready.
func NewWorld(cfg *config.GameConfig, phys physics.Adapter, opts Options) (*World, error) {
	templates, err := CompileTemplates(cfg)
	if err != nil {
		return nil, fmt.Errorf("engine: %s: %w", cfg.ID, err)
	}
	if _, ok := templates[cfg.Player.Template]; !ok {
		return nil, fmt.Errorf("engine: %s: player %w: %q", cfg.ID, ErrUnknownTemplate, cfg.Player.Template)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rules := opts.Rules
	if rules == nil {
		rules = ConfigRules{Cfg: cfg.Rules}
	}

	turn := cfg.Player.TurnRate
	if turn <= 0 {
		turn = defaultTurnRate
	}

	w := &World{
		cfg:     cfg,
		logger:  logger,
		rules:   rules,
		seed:    opts.Seed,
		clock:   clock.New(cfg.ClockConfig()),
		phys:    phys,
		session: NewSession(templates[cfg.Player.Template].Health),
		diff:    config.NewDifficultyManager(cfg.Difficulty),
		rng:     rand.New(rand.NewSource(opts.Seed)),
		field:   core.NewBounds(cfg.Field.Width, cfg.Field.Height),
		control: PlayerControl{
			Steering:     cfg.Player.Steering,
			TurnRate:     turn * math.Pi / 180,
			FireCooldown: cfg.Player.FireCooldown,
			Projectile:   cfg.Player.Projectile,
			LockHeading:  cfg.Player.LockHeading,
			Heading:      cfg.Player.Heading * math.Pi / 180,
		},
	}
	w.reg = NewRegistry(phys, templates, logger)
	w.resolver = NewResolver(w.reg, logger)
	w.sched = NewScheduler(LevelsFromConfig(cfg.Levels))
	w.sched.IntervalScale = func(base float64) float64 {
		return w.diff.Interval(base, w.session.Score, w.session.Elapsed)
	}
	w.machine = NewMachine(len(cfg.Instructions) > 0, w.onTransition)
	phys.OnContact(func(c physics.Contact) {
		w.contacts = append(w.contacts, c)
	})
	return w, nil
}

// Loaded moves the world from Loading to Title.
func (w *World) Loaded() {
	w.machine.Fire(TriggerLoaded)
}

// Config returns the game config.
func (w *World) Config() *config.GameConfig { return w.cfg }

// State returns the current phase.
func (w *World) State() State { return w.machine.State() }

// Session returns the current run.
func (w *World) Session() *Session { return w.session }

// Registry exposes the entity registry.
func (w *World) Registry() *Registry { return w.reg }

// Scheduler exposes the spawn scheduler.
func (w *World) Scheduler() *Scheduler { return w.sched }

// Resolver exposes the collision resolver.
func (w *World) Resolver() *Resolver { return w.resolver }

// Field returns the playfield bounds.
func (w *World) Field() core.Bounds { return w.field }

// Fire feeds a trigger to the state machine directly.
func (w *World) Fire(t Trigger) bool { return w.machine.Fire(t) }

// FrameAt runs one host frame from a timestamp.
func (w *World) FrameAt(now time.Time, in core.InputFrame) core.StepResult {
	return w.step(w.clock.Tick(now), in)
}

// Frame runs one host frame from a raw delta in seconds.
func (w *World) Frame(raw float64, in core.InputFrame) core.StepResult {
	return w.step(w.clock.Advance(raw), in)
}

func (w *World) step(f clock.Frame, in core.InputFrame) core.StepResult {
	w.seq++
	w.cues = w.cues[:0]

	if t := w.inputTrigger(in); t != TriggerNone {
		w.machine.Fire(t)
	}
	if w.machine.State() == StatePlaying && f.SubSteps > 0 {
		w.simulate(f, in)
	}
	return w.result()
}

func (w *World) inputTrigger(in core.InputFrame) Trigger {
	switch w.machine.State() {
	case StateTitle:
		if in.Has(core.ActionConfirm) {
			return TriggerConfirm
		}
	case StateInstructions:
		if in.Has(core.ActionConfirm) {
			return TriggerConfirm
		}
		if in.Has(core.ActionBack) {
			return TriggerBack
		}
	case StatePlaying:
		if in.Has(core.ActionPause) {
			return TriggerPause
		}
	case StatePaused:
		switch {
		case in.Has(core.ActionRestart):
			return TriggerRestart
		case in.Has(core.ActionPause), in.Has(core.ActionConfirm):
			return TriggerResume
		case in.Has(core.ActionBack):
			return TriggerBack
		}
	case StateGameOver:
		if in.Has(core.ActionConfirm) || in.Has(core.ActionRestart) {
			return TriggerConfirm
		}
	}
	return TriggerNone
}

// simulate runs one playing frame: update, physics, resolve, schedule,
// sweep, then end conditions.
func (w *World) simulate(f clock.Frame, in core.InputFrame) {
	dt := f.Dt
	w.down = false

	w.apply(w.reg.Update(dt, Env{
		Input:   in,
		Field:   w.field,
		Margin:  w.cfg.Field.Margin,
		Control: w.control,
	}))

	w.contacts = w.contacts[:0]
	w.phys.Step(f.FixedDt, dt, f.SubSteps)
	w.reg.SyncFromPhysics()

	w.resolver.Begin()
	for _, c := range w.contacts {
		w.apply(w.resolver.Resolve(c))
	}
	w.contacts = w.contacts[:0]

	tick := w.sched.Advance(dt)
	for _, req := range tick.Spawns {
		w.spawnScheduled(req)
	}
	if tick.Advanced {
		lvl, _ := w.sched.Level()
		w.logger.Info("level started", "game", w.cfg.ID, "level", tick.Level, "name", lvl.Name)
	}

	w.reg.Sweep()

	s := w.session
	s.Elapsed += dt
	s.Level = w.sched.LevelIndex()
	s.LevelTimer = w.sched.Timer()
	if p, ok := w.reg.Player(); ok {
		s.Health = p.Health
	}

	switch {
	case w.down:
		w.machine.Fire(TriggerPlayerDown)
	case tick.Exhausted:
		w.machine.Fire(w.rules.Exhausted(s))
	default:
		if t, ok := w.rules.Judge(Judgement{
			Session:   s,
			Hostiles:  w.reg.Count(KindEnemy),
			Pickups:   w.reg.Count(KindPickup),
			Pending:   w.sched.Pending(),
			LastLevel: w.sched.LevelIndex() == w.sched.Levels()-1,
		}); ok {
			w.machine.Fire(t)
		}
	}
}

func (w *World) apply(signals []Signal) {
	for _, sig := range signals {
		switch s := sig.(type) {
		case ScoreSignal:
			w.session.Score += s.Points
		case KillSignal:
			w.session.Kills++
		case CueSignal:
			w.cues = append(w.cues, s.Name)
		case CheckpointSignal:
			w.session.PassCheckpoint(s.ID)
		case LapSignal:
			need := w.reg.CountTrigger(config.TriggerCheckpoint)
			if !w.session.CompleteLap(need) {
				w.logger.Debug("lap not counted", "game", w.cfg.ID, "checkpoints", need)
				continue
			}
			w.logger.Debug("lap", "game", w.cfg.ID, "laps", w.session.Laps)
		case PlayerDownSignal:
			w.down = true
		case ExplosionSignal:
			if w.cfg.Rules.Explosion == "" {
				continue
			}
			if _, err := w.reg.Spawn(w.cfg.Rules.Explosion, s.At); err != nil {
				w.logger.Error("explosion spawn failed", "err", err)
			}
		case FireSignal:
			_, err := w.reg.SpawnWith(s.Template, s.From, func(e *Entity) {
				e.Owner = s.Owner
				e.Aim(core.FromAngle(s.Heading))
				e.Velocity = e.dir.Scale(e.Speed)
			})
			if err != nil {
				w.logger.Error("projectile spawn failed", "err", err)
			}
		case EscapeSignal:
			if p, ok := w.reg.Player(); ok && w.cfg.Rules.EscapeDamage > 0 {
				w.apply(w.resolver.hurtPlayer(p, w.cfg.Rules.EscapeDamage, nil))
			}
		}
	}
}

func (w *World) spawnScheduled(req SpawnRequest) {
	pos := w.resolvePosition(req.Position)
	score, elapsed := w.session.Score, w.session.Elapsed
	_, err := w.reg.SpawnWith(req.Template, pos, func(e *Entity) {
		if e.Kind == KindEnemy && w.diff.IsEnabled() {
			e.Speed = w.diff.Speed(e.Speed, score, elapsed)
			e.Health = w.diff.Health(e.Health, score, elapsed)
			e.MaxHealth = e.Health
		}
		dir := w.field.Center().Sub(pos).Norm()
		if dir == (core.Vec2{}) {
			dir = core.V(0, 1)
		}
		if e.Movement == MoveDiagonal {
			dir = core.V(float64(w.rng.Intn(2)*2-1), float64(w.rng.Intn(2)*2-1))
		}
		e.Aim(dir)
	})
	if err != nil {
		// Templates are validated at load, so this is a broken invariant.
		w.logger.Error("scheduled spawn failed", "template", req.Template, "err", err)
	}
}

func (w *World) resolvePosition(p config.Position) core.Vec2 {
	if p.IsLiteral() {
		return core.V(p.X, p.Y)
	}
	b := w.field
	rx := b.Min.X + w.rng.Float64()*b.Width()
	ry := b.Min.Y + w.rng.Float64()*b.Height()

	keyword := p.Keyword
	if keyword == config.PosEdge {
		keyword = []string{config.PosTop, config.PosBottom, config.PosLeft, config.PosRight}[w.rng.Intn(4)]
	}
	switch keyword {
	case config.PosRandom:
		return core.V(rx, ry)
	case config.PosTop:
		return core.V(rx, b.Min.Y)
	case config.PosBottom:
		return core.V(rx, b.Max.Y)
	case config.PosLeft:
		return core.V(b.Min.X, ry)
	case config.PosRight:
		return core.V(b.Max.X, ry)
	default:
		return b.Center()
	}
}

// onTransition runs the entry and exit actions of the state machine.
func (w *World) onTransition(from, to State, t Trigger) {
	w.logger.Debug("state change", "game", w.cfg.ID, "from", from, "to", to, "trigger", t)

	switch to {
	case StatePlaying:
		if from == StateTitle || from == StateInstructions || t == TriggerRestart {
			w.startRun()
		}
	case StateGameOver:
		w.sched.Stop()
		if t.Winning() {
			w.session.Outcome = OutcomeWon
		} else {
			w.session.Outcome = OutcomeLost
		}
		w.logger.Info("run over", "game", w.cfg.ID, "run", w.session.RunID,
			"outcome", w.session.Outcome, "score", w.session.Score, "trigger", t)
	case StateTitle:
		w.sched.Stop()
		w.reg.Clear()
	}
}

// startRun resets everything owned by a session and spawns the player.
func (w *World) startRun() {
	w.sched.Stop()
	w.reg.Clear()
	w.contacts = w.contacts[:0]
	w.rng = rand.New(rand.NewSource(w.seed))

	pt, _ := w.reg.Template(w.cfg.Player.Template)
	w.session.Reset(pt.Health)

	start := w.resolvePosition(*w.cfg.Player.Start)
	_, err := w.reg.SpawnWith(w.cfg.Player.Template, start, func(e *Entity) {
		e.Angle = w.control.Heading
		e.Cooldown = 0
	})
	if err != nil {
		w.logger.Error("player spawn failed", "err", err)
	}
	w.sched.Start(0)
	w.logger.Info("run started", "game", w.cfg.ID, "run", w.session.RunID)
}

func (w *World) result() core.StepResult {
	state := w.machine.State()
	var cues []string
	if len(w.cues) > 0 {
		cues = append(cues, w.cues...)
	}
	return core.StepResult{
		State: core.GameState{
			Score:    w.session.Score,
			Level:    w.session.Level,
			Elapsed:  w.session.Elapsed,
			Phase:    state.String(),
			Outcome:  w.session.Outcome.String(),
			GameOver: state == StateGameOver,
			Paused:   state == StatePaused,
		},
		Cues: cues,
	}
}

// Snapshot returns the presentation view of the current frame.
func (w *World) Snapshot() core.Frame {
	name := ""
	if lvl, ok := w.sched.Level(); ok {
		name = lvl.Name
	}
	return core.Frame{
		Game:  w.cfg.ID,
		Seq:   w.seq,
		Field: w.field,
		HUD: core.HUD{
			Run:        w.session.RunID,
			Score:      w.session.Score,
			Health:     w.session.Health,
			MaxHealth:  w.session.MaxHealth,
			Level:      w.session.Level,
			LevelName:  name,
			LevelTimer: w.session.LevelTimer,
			Elapsed:    w.session.Elapsed,
			Laps:       w.session.Laps,
			Kills:      w.session.Kills,
			Phase:      w.machine.State().String(),
			Outcome:    w.session.Outcome.String(),
		},
		Entities: w.reg.Snapshot(),
	}
}
