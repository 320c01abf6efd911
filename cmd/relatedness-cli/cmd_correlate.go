package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"yashubustudio/relatedness/internal/app"
)

var correlateFlags struct {
	format string
}

var correlateCmd = &cobra.Command{
	Use:   "correlate <result-dir> <all|bio|full|pub> <pearson|spearman> <zero-fill|exclude-pairwise|intersect-all-methods>",
	Short: "Correlate model relatedness columns with the human scores",
	Long: "correlate reads every scored CSV in <result-dir> and reports, per dataset and model\n" +
		"column, the correlation with the human scores.\n\n" +
		"Methods may be abbreviated p/s and policies z/e/i.",
	Args: cobra.ExactArgs(4),
	RunE: runCorrelate,
}

func init() {
	correlateCmd.Flags().StringVar(&correlateFlags.format, "format", "", "Output format: table, markdown or tsv (default from config)")
}

func runCorrelate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format := correlateFlags.format
	if format == "" {
		format = cfg.OutputFormat
	}
	summary, err := app.RunCorrelation(app.CorrelateOptions{
		ResultDir: args[0],
		Subset:    args[1],
		Method:    args[2],
		Policy:    args[3],
		Format:    format,
	}, cfg, cmd.OutOrStdout(), newLogger(cmd))
	if err != nil {
		return err
	}
	for path, reason := range summary.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %v\n", path, reason)
	}
	return nil
}
