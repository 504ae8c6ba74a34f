package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-core/internal/config"
)

var flagValidateConfig string

var validateCmd = &cobra.Command{
	Use:   "validate [game...]",
	Short: "Check game configs",
	Long: `Load and validate game configurations, printing every problem found.

With no arguments every built-in game is checked using the usual lookup
order (~/.arcade/configs, ./configs, embedded default). With --config a
single file is checked.

Examples:
  arcade validate
  arcade validate kart shooter
  arcade validate --config ./my-blocks.yaml`,
	Run: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&flagValidateConfig, "config", "", "Validate this YAML file")
}

func runValidate(_ *cobra.Command, args []string) {
	if flagValidateConfig != "" {
		cfg, err := config.LoadFile(flagValidateConfig)
		if !report(flagValidateConfig, cfg, err) {
			os.Exit(1)
		}
		return
	}

	ids := args
	if len(ids) == 0 {
		ids = config.EmbeddedIDs()
	}

	ok := true
	for _, id := range ids {
		cfg, err := config.Load(id, "")
		ok = report(id, cfg, err) && ok
	}
	if !ok {
		os.Exit(1)
	}
}

// report prints the outcome for one config and returns whether it was valid.
func report(name string, cfg *config.GameConfig, err error) bool {
	if err == nil {
		fmt.Printf("ok    %-12s %d templates, %d levels\n", name, len(cfg.Templates), len(cfg.Levels))
		return true
	}

	fmt.Printf("FAIL  %s\n", name)
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			fmt.Printf("        %v\n", e)
		}
		return false
	}
	fmt.Printf("        %v\n", err)
	return false
}
