package cmd

import (
	"github.com/spf13/cobra"

	"github.com/refactorforge/patternscan/internal/logging"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "patternscan",
	Short: "Code pattern extraction for RefactorForge",
	Long:  "Scans repository source for recurring code patterns, aggregates them, and feeds the recommendation engine.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := logging.DefaultConfig()
		cfg.Level = logLevel
		logging.Init(cfg)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "minimum log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(batchCmd)
}
