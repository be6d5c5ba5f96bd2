package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/refactorforge/patternscan/internal/adapters/bbolt"
)

var (
	historyDBPath       string
	historyRepositoryID string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded extraction runs for a repository",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDBPath, "history-db", "", "bbolt database holding run records (required)")
	historyCmd.Flags().StringVar(&historyRepositoryID, "repository-id", "", "repository ID (required)")
	_ = historyCmd.MarkFlagRequired("history-db")
	_ = historyCmd.MarkFlagRequired("repository-id")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := bbolt.NewHistoryStore(historyDBPath)
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(historyRepositoryID)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Printf("no recorded runs for repository %s\n", historyRepositoryID)
		return nil
	}

	fmt.Printf("%s%d runs%s for repository %s\n", colorBold, len(runs), colorReset, historyRepositoryID)
	for _, run := range runs {
		when := run.Timestamp
		if ts, err := time.Parse(time.RFC3339Nano, run.Timestamp); err == nil {
			when = ts.Local().Format("2006-01-02 15:04:05")
		}
		fmt.Printf("  %s%s%s  patterns: %d (unique %d)  files: %d  skipped: %d  %dms\n",
			colorCyan, when, colorReset,
			run.TotalPatterns, run.UniquePatterns,
			run.FilesScanned, run.FilesSkipped, run.ElapsedMillis)
	}
	return nil
}
