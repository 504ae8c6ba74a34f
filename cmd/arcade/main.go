// arcade is a terminal arcade built on a shared real-time game core.
//
// Usage:
//
//	arcade list                 - List available games
//	arcade play <game>          - Play a game
//	arcade menu                 - Start menu to pick games interactively
//	arcade serve                - Start SSH server for remote play
//	arcade scores <game>        - Show the best runs for a game
//	arcade simulate <game>      - Run a game headless with scripted input
//	arcade validate [game...]   - Check game configs
//	arcade replay <file>        - Re-simulate a recorded run
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.arcade/runs.db)
//	--log-level <lvl>   - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/arcade-core/internal/core"
	"github.com/vovakirdan/arcade-core/internal/registry"
	"github.com/vovakirdan/arcade-core/internal/storage"

	// Import games to register them
	_ "github.com/vovakirdan/arcade-core/internal/games/blocks"
	_ "github.com/vovakirdan/arcade-core/internal/games/kart"
	_ "github.com/vovakirdan/arcade-core/internal/games/scroller"
	_ "github.com/vovakirdan/arcade-core/internal/games/shooter"
	_ "github.com/vovakirdan/arcade-core/internal/games/snake3d"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Arcade - real-time games in your terminal",
	Long: `Arcade is a terminal gaming platform. Every game runs on the same
core: a fixed-step clock, an entity registry, collision rules, timed
spawn waves and a title/play/pause/game-over state machine. Games
differ only in their YAML configuration.

Available commands:
  list      - Show all available games
  play      - Play a specific game directly
  menu      - Interactive game picker menu
  serve     - Start SSH server for remote play
  scores    - View the best runs
  simulate  - Run a game headless
  validate  - Check game configs
  replay    - Verify a recorded run

Examples:
  arcade list
  arcade play shooter
  arcade menu
  arcade serve --ssh :2222
  arcade scores kart
  arcade simulate blocks --frames 3600`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(replayCmd)
}

// newLogger builds the process logger. Interactive commands own the
// terminal, so they log to ~/.arcade/arcade.log; the rest log to stderr.
// The returned func closes the log file.
func newLogger(interactive bool) (*log.Logger, func()) {
	var w io.Writer = os.Stderr
	closeFn := func() {}

	if interactive {
		w = io.Discard
		if home, err := os.UserHomeDir(); err == nil {
			dir := filepath.Join(home, ".arcade")
			if err := os.MkdirAll(dir, 0o755); err == nil {
				f, err := os.OpenFile(filepath.Join(dir, "arcade.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err == nil {
					w = f
					closeFn = func() { f.Close() }
				}
			}
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "arcade",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using info\n", err)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger, closeFn
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// runtimeConfig builds the settings shared by every command.
func runtimeConfig(logger *log.Logger) core.RuntimeConfig {
	width, height := terminalSize()
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
		Logger:   logger,
	}
}

// openStore opens the runs database. A failure is logged and the caller
// continues without persistence.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath, logger)
	if err != nil {
		logger.Warn("could not open runs database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// requireGame exits when id is not a registered game.
func requireGame(id string) {
	if registry.Exists(id) {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", id)
	fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available games.")
	os.Exit(1)
}
