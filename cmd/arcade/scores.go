package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-core/internal/registry"
	"github.com/vovakirdan/arcade-core/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores <game>",
	Short: "Show the best runs for a game",
	Long: `Display the best runs for the specified game, followed by totals
for every game played so far.

Examples:
  arcade scores shooter
  arcade scores kart --limit 25
  arcade scores blocks --clear`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every stored run of the game")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := args[0]
	requireGame(gameID)

	logger, closeLog := newLogger(false)
	defer closeLog()

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearRuns(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared runs for %s\n", game.Title())
		return
	}

	runs, err := store.TopRuns(gameID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Best Runs - %s\n", game.Title())
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'arcade play %s' to set the first score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-8s  %-6s  %s\n", "Rank", "Score", "Level", "Time", "Result", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-8s  %-6s  %s\n", "----", "-----", "-----", "----", "------", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-8d  %-5d  %-8s  %-6s  %s\n",
			i+1, r.Score, r.Level+1, fmt.Sprintf("%.1fs", r.Elapsed), r.Outcome,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats()
	if err != nil {
		return
	}
	if st, ok := stats[gameID]; ok {
		fmt.Println()
		fmt.Printf("Runs: %d  Wins: %d  Best: %d  Average: %.0f  Time played: %.0fs\n",
			st.Runs, st.Wins, st.HighScore, st.AvgScore, st.TotalTime)
	}
}
