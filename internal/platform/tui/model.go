package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade-core/internal/core"
	"github.com/vovakirdan/arcade-core/internal/engine"
	"github.com/vovakirdan/arcade-core/internal/registry"
	"github.com/vovakirdan/arcade-core/internal/storage"
)

// Publisher receives every rendered frame, e.g. the spectator hub.
type Publisher interface {
	Publish(f core.Frame) error
}

// Options wires optional services into a game model.
type Options struct {
	Store    *storage.Store // finished runs are saved here when set
	Spectate Publisher      // frames are streamed here when set
	Hold     time.Duration  // how long movement keys stay down, DefaultHold when zero
}

// Model is the Bubble Tea model for running one arcade game.
type Model struct {
	game     registry.Game
	renderer *Renderer
	screen   *core.Screen
	latch    *InputLatch
	keys     *KeyMapper
	opts     Options
	config   core.RuntimeConfig
	logger   *log.Logger

	gen        uint64
	state      core.GameState
	err        error // load error; the model shows it instead of the game
	savedRun   string
	quitting   bool
	backToMenu bool
	embedded   bool // back on the title screen returns to a menu instead of quitting
}

// NewModel creates a model and loads the game. A load error does not fail
// construction; the model renders it as a static error screen.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 0)),
		latch:  NewInputLatch(opts.Hold),
		keys:   NewKeyMapper(),
		opts:   opts,
		config: cfg,
		logger: logger,
		gen:    nextGen(),
	}

	if err := game.Reset(cfg); err != nil {
		logger.Error("cannot load game", "game", game.ID(), "err", err)
		m.err = err
		return m
	}
	m.renderer = NewRenderer(game.Config(), logger.With("game", game.ID()))
	m.state = game.State()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	if m.err != nil {
		return nil
	}
	return tickCmd(m.config.TickRate, m.gen)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 0))
		return m, nil

	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		return m.handleTick(msg.Time)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" && m.err == nil {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	// Back from the title or the error screen leaves the game.
	leaving := action == core.ActionBack &&
		(m.err != nil || m.state.Phase == engine.StateTitle.String())
	if leaving {
		m.latch.Release()
		if m.embedded {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	if m.err == nil {
		m.latch.Press(action, time.Now())
	}
	return m, nil
}

// handleTick runs one game frame.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.err != nil || m.quitting || m.backToMenu {
		return m, nil
	}

	result := m.game.FrameAt(now, m.latch.Frame(now))
	m.state = result.State
	m.renderer.Tick()
	for _, cue := range result.Cues {
		m.renderer.Cue(cue)
	}

	frame := m.game.Snapshot()
	if m.state.GameOver {
		m.saveRun(frame)
	}
	if m.opts.Spectate != nil {
		if err := m.opts.Spectate.Publish(frame); err != nil {
			m.logger.Debug("spectator publish failed", "err", err)
		}
	}

	return m, tickCmd(m.config.TickRate, m.gen)
}

// saveRun stores a finished run once per run id.
func (m *Model) saveRun(f core.Frame) {
	if m.opts.Store == nil || f.HUD.Run == "" || f.HUD.Run == m.savedRun {
		return
	}
	m.savedRun = f.HUD.Run

	id, err := m.opts.Store.SaveRun(storage.Run{
		ID:      f.HUD.Run,
		GameID:  m.game.ID(),
		Score:   f.HUD.Score,
		Level:   f.HUD.Level,
		Elapsed: f.HUD.Elapsed,
		Outcome: f.HUD.Outcome,
		Seed:    m.config.Seed,
	})
	if err != nil {
		m.logger.Error("cannot save run", "game", m.game.ID(), "err", err)
		return
	}
	m.logger.Info("run saved", "game", m.game.ID(), "run", id, "score", f.HUD.Score)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.renderer.Draw(m.screen, m.game.Snapshot())

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot dir", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the HUD above the field.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return ErrorView(m.game.ID(), m.err, m.config.ScreenW, m.config.ScreenH)
	}

	frame := m.game.Snapshot()
	m.renderer.Draw(m.screen, frame)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderer.HUD(frame, m.config.ScreenW),
		RenderScreen(m.screen),
	)
}

// State returns the last game state seen by the model.
func (m Model) State() core.GameState {
	return m.state
}

// Err returns the load error, if any.
func (m Model) Err() error {
	return m.err
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for one game and returns the last state.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) (core.GameState, error) {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return model.State(), err
	}

	m, ok := final.(Model)
	if !ok {
		return model.State(), nil
	}
	return m.State(), m.Err()
}
