package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"yashubustudio/relatedness/relatedness"
)

const configEnv = "RELATEDNESS_CONFIG"

var rootFlags struct {
	configPath string
	verbose    bool
}

var rootCmd = &cobra.Command{
	Use:   "relatedness-cli",
	Short: "Score word pairs with embedding models and correlate the scores with human judgments",
	Long: "relatedness-cli scores evaluation datasets of word pairs against a directory of\n" +
		"embedding models, then measures how well each model's scores correlate with the\n" +
		"human relatedness judgments under a chosen OOV policy.",
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Path to the TOML config (default: $"+configEnv+" or ./"+relatedness.DefaultConfigFile+")")
	pf.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Log debug output")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(correlateCmd)
	rootCmd.AddCommand(neighboursCmd)
	rootCmd.AddCommand(configCmd)
}

func configPath() string {
	if p := strings.TrimSpace(rootFlags.configPath); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv(configEnv)); p != "" {
		return p
	}
	return relatedness.DefaultConfigFile
}

func loadConfig() (relatedness.Config, error) {
	return relatedness.LoadConfig(configPath())
}

func newLogger(cmd *cobra.Command) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if rootFlags.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
