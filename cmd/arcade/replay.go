package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-core/internal/core"
	"github.com/vovakirdan/arcade-core/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Re-simulate a recorded run",
	Long: `Load a replay written by 'play --record' or 'simulate --record',
feed its inputs to a fresh game with the recorded seed and settings, and
check that the run ends in the same state.

Examples:
  arcade replay run.replay`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(_ *cobra.Command, args []string) {
	logger, closeLog := newLogger(false)
	defer closeLog()

	rec, err := replay.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	requireGame(rec.GameID)

	fmt.Printf("%s, seed %d, %d frames\n", rec.GameID, rec.Seed, len(rec.Frames))

	got, err := replay.Verify(rec, core.RuntimeConfig{Logger: logger})
	switch {
	case errors.Is(err, replay.ErrMismatch):
		fmt.Fprintf(os.Stderr, "MISMATCH: %v\n", err)
		os.Exit(1)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("ok: %s, score %d, %.1fs\n", got.Phase, got.Score, got.Elapsed)
}
