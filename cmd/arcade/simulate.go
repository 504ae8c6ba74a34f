package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-core/internal/core"
	"github.com/vovakirdan/arcade-core/internal/engine"
	"github.com/vovakirdan/arcade-core/internal/registry"
	"github.com/vovakirdan/arcade-core/internal/replay"
)

var (
	flagSimFrames  int
	flagSimDt      float64
	flagSimScript  string
	flagSimProfile string
	flagSimPace    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <game>",
	Short: "Run a game headless with scripted input",
	Long: `Run a game without a terminal UI, feeding it input from a script,
and print how the run ended.

Scripts:
  idle    - never touch the controls
  sweep   - fire continuously while sweeping left and right
  random  - random movement and fire, seeded by --seed

Examples:
  arcade simulate shooter --frames 3600
  arcade simulate blocks --script sweep --seed 7
  arcade simulate kart --dt 0.05 --record kart.replay
  arcade simulate scroller --profile cpu
  arcade simulate scroller --spectate :8080 --pace`,
	Args: cobra.ExactArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimFrames, "frames", 3600, "Maximum number of host frames")
	simulateCmd.Flags().Float64Var(&flagSimDt, "dt", 1.0/60, "Raw host delta per frame in seconds")
	simulateCmd.Flags().StringVar(&flagSimScript, "script", "sweep", "Input script: idle, sweep, random")
	simulateCmd.Flags().StringVar(&flagSimProfile, "profile", "", "Write a profile to the current directory: cpu or mem")
	simulateCmd.Flags().BoolVar(&flagSimPace, "pace", false, "Sleep dt between frames so spectators can follow")
	simulateCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	simulateCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	simulateCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Stream frames to websocket spectators on this address")
	simulateCmd.Flags().StringVar(&flagRecord, "record", "", "Write a replay of the run to this file")
}

// Script chooses the input for one frame of a headless run.
type Script func(frame int, state core.GameState) core.InputFrame

func newScript(name string, seed int64, dt float64) (Script, error) {
	// Title and instruction screens are confirmed in every script.
	menus := func(state core.GameState) (core.InputFrame, bool) {
		switch state.Phase {
		case engine.StateTitle.String(), engine.StateInstructions.String():
			return core.NewInputFrame(core.ActionConfirm), true
		}
		return core.InputFrame{}, false
	}

	switch name {
	case "idle":
		return func(_ int, state core.GameState) core.InputFrame {
			if in, ok := menus(state); ok {
				return in
			}
			return core.NewInputFrame()
		}, nil

	case "sweep":
		period := max(int(1/dt), 1) // one second each way
		return func(frame int, state core.GameState) core.InputFrame {
			if in, ok := menus(state); ok {
				return in
			}
			dir := core.ActionLeft
			if (frame/period)%2 == 0 {
				dir = core.ActionRight
			}
			return core.NewInputFrame(core.ActionFire, dir)
		}, nil

	case "random":
		rng := rand.New(rand.NewSource(seed))
		moves := []core.Action{core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight}
		var held core.Action
		return func(frame int, state core.GameState) core.InputFrame {
			if in, ok := menus(state); ok {
				return in
			}
			if frame%15 == 0 {
				held = moves[rng.Intn(len(moves))]
			}
			in := core.NewInputFrame(held)
			if rng.Intn(3) == 0 {
				in.Set(core.ActionFire)
			}
			return in
		}, nil
	}
	return nil, fmt.Errorf("unknown script %q (want idle, sweep or random)", name)
}

func runSimulate(cmd *cobra.Command, args []string) {
	gameID := args[0]
	requireGame(gameID)

	logger, closeLog := newLogger(false)
	defer closeLog()

	switch flagSimProfile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown profile %q (want cpu or mem)\n", flagSimProfile)
		os.Exit(1)
	}

	if flagSimDt <= 0 || flagSimFrames <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --dt and --frames must be positive")
		os.Exit(1)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	script, err := newScript(flagSimScript, seed, flagSimDt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

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

	cfg := core.RuntimeConfig{
		TickRate:   flagFPS,
		Seed:       seed,
		ConfigPath: flagConfig,
		Difficulty: flagDifficulty,
		Logger:     logger,
	}
	if err := game.Reset(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s:\n%v\n", gameID, err)
		os.Exit(1)
	}

	hub, stopSpectators := startSpectators(flagSpectate, logger)
	defer stopSpectators()

	start := time.Now()
	state := game.State()
	cues := 0
	frames := 0
	for ; frames < flagSimFrames && !state.GameOver; frames++ {
		result := game.Frame(flagSimDt, script(frames, state))
		state = result.State
		cues += len(result.Cues)
		if hub != nil {
			if err := hub.Publish(game.Snapshot()); err != nil {
				logger.Debug("spectator publish failed", "err", err)
			}
		}
		if flagSimPace {
			time.Sleep(time.Duration(flagSimDt * float64(time.Second)))
		}
	}
	wall := time.Since(start)

	hud := game.Snapshot().HUD
	outcome := state.Outcome
	if outcome == "" {
		outcome = "undecided"
	}
	fmt.Printf("game      %s\n", gameID)
	fmt.Printf("seed      %d\n", seed)
	fmt.Printf("run       %s\n", hud.Run)
	fmt.Printf("frames    %d (%.1fs simulated, %s wall)\n", frames, state.Elapsed, wall.Round(time.Millisecond))
	fmt.Printf("phase     %s\n", state.Phase)
	fmt.Printf("outcome   %s\n", outcome)
	fmt.Printf("score     %d\n", state.Score)
	fmt.Printf("level     %d %s\n", state.Level+1, hud.LevelName)
	fmt.Printf("health    %.0f/%.0f\n", hud.Health, hud.MaxHealth)
	if hud.Laps > 0 {
		fmt.Printf("laps      %d\n", hud.Laps)
	}
	fmt.Printf("kills     %d\n", hud.Kills)
	fmt.Printf("cues      %d\n", cues)

	if recorder != nil {
		if err := recorder.Save(flagRecord); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving replay: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("replay    %s\n", flagRecord)
	}
}
