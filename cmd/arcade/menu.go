package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-core/internal/platform/tui"
	"github.com/vovakirdan/arcade-core/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the arcade with a game picker menu",
	Long: `Start the arcade in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k    - Navigate menu
  Left/Right     - Change difficulty
  Enter/Space    - Select game
  Tab            - Best runs
  Q              - Quit

Examples:
  arcade menu
  arcade menu --fps 30
  arcade menu --db ./runs.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closeLog := newLogger(true)
	defer closeLog()

	store := openStore(logger)
	cfg := runtimeConfig(logger)

	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		gameCfg := cfg
		if gameCfg.Seed == 0 {
			gameCfg.Seed = time.Now().UnixNano()
		}
		if _, err := tui.Run(game, gameCfg, tui.Options{Store: store}); err != nil {
			logger.Error("game ended with an error", "game", game.ID(), "err", err)
		}
	}

	if store != nil {
		store.Close()
	}
}
