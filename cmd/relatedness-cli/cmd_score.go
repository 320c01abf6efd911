package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"yashubustudio/relatedness/internal/app"
)

var scoreFlags struct {
	workers int
}

var scoreCmd = &cobra.Command{
	Use:   "score <dataset-dir> <model-dir> <output-dir>",
	Short: "Add one relatedness column per model to every dataset",
	Args:  cobra.ExactArgs(3),
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().IntVar(&scoreFlags.workers, "workers", 0, "Models scored at once (default from config)")
}

func runScore(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if scoreFlags.workers > 0 {
		cfg.Workers = scoreFlags.workers
	}
	logger := newLogger(cmd)
	logger.Infof("running score %s %s %s", args[0], args[1], args[2])

	summary, err := app.RunScoring(cmd.Context(), app.ScoreOptions{
		DatasetDir: args[0],
		ModelDir:   args[1],
		OutputDir:  args[2],
	}, cfg, logger)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s: %d datasets, %d models\n", summary.RunID, len(summary.Datasets), len(summary.Models))
	for path, reason := range summary.Skipped {
		fmt.Fprintf(out, "  skipped %s: %v\n", path, reason)
	}
	return nil
}
