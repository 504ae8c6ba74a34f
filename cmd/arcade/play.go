package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-core/internal/platform/tui"
	"github.com/vovakirdan/arcade-core/internal/platform/web"
	"github.com/vovakirdan/arcade-core/internal/registry"
	"github.com/vovakirdan/arcade-core/internal/replay"
)

var (
	flagConfig     string
	flagDifficulty string
	flagSpectate   string
	flagRecord     string
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  WASD/Arrows  - Move or steer
  Space        - Fire
  Enter        - Start / continue
  P            - Pause / resume
  R            - Restart (while paused or after game over)
  B/Esc        - Back
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  arcade play shooter
  arcade play kart --difficulty easy
  arcade play blocks --config ./my-blocks.yaml
  arcade play scroller --spectate :8080
  arcade play snake3d --record run.replay`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Stream frames to websocket spectators on this address (e.g. :8080)")
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Write a replay of the session to this file")
}

// startSpectators serves a spectator hub on addr until the returned stop
// func is called. It returns nil when addr is empty.
func startSpectators(addr string, logger *log.Logger) (*web.Hub, func()) {
	if addr == "" {
		return nil, func() {}
	}
	hub := web.NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := hub.ListenAndServe(ctx, addr); err != nil {
			logger.Error("spectator server stopped", "addr", addr, "err", err)
		}
	}()
	return hub, func() {
		cancel()
		<-done
	}
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]
	requireGame(gameID)

	logger, closeLog := newLogger(true)
	defer closeLog()

	cfg := runtimeConfig(logger)
	cfg.ConfigPath = flagConfig
	cfg.Difficulty = flagDifficulty

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	var recorder *replay.Recorder
	if flagRecord != "" {
		recorder = replay.NewRecorder(game)
		game = recorder
	}

	store := openStore(logger)
	hub, stopSpectators := startSpectators(flagSpectate, logger)

	opts := tui.Options{Store: store}
	if hub != nil {
		opts.Spectate = hub
	}

	state, runErr := tui.Run(game, cfg, opts)

	stopSpectators()
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game:\n%v\n", runErr)
		os.Exit(1)
	}

	if recorder != nil {
		if err := recorder.Save(flagRecord); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving replay: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Replay saved to %s\n", flagRecord)
	}
	if state.GameOver {
		fmt.Printf("%s: %s with %d points\n", game.Title(), state.Outcome, state.Score)
	}
}
