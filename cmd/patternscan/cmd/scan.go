package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/refactorforge/patternscan/internal/adapters/bbolt"
	"github.com/refactorforge/patternscan/internal/adapters/ruledefs"
	"github.com/refactorforge/patternscan/internal/adapters/sqlite"
	"github.com/refactorforge/patternscan/internal/app"
	"github.com/refactorforge/patternscan/internal/domain/extract"
	"github.com/refactorforge/patternscan/internal/domain/pattern"
	"github.com/refactorforge/patternscan/internal/logging"
)

var (
	scanRepoPath     string
	scanDBPath       string
	scanRepositoryID string
	scanReportOnly   bool
	scanJobs         int
	scanHistoryDB    string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Extract code patterns from a repository",
	Long: `Walks the repository, matches every registry rule against each source
file, aggregates duplicate sightings, and prints a report. With
--repository-id the aggregated set replaces the repository's stored
patterns; --report-only skips persistence entirely.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanRepoPath, "repo-path", "", "path to repository to analyze (required)")
	scanCmd.Flags().StringVar(&scanDBPath, "db-path", "refactorforge.db", "path to SQLite database")
	scanCmd.Flags().StringVar(&scanRepositoryID, "repository-id", "", "repository ID in database")
	scanCmd.Flags().BoolVar(&scanReportOnly, "report-only", false, "generate report only, don't save to database")
	scanCmd.Flags().IntVar(&scanJobs, "jobs", 0, "concurrent file scanners (default: one per CPU)")
	scanCmd.Flags().StringVar(&scanHistoryDB, "history-db", "", "record run summaries in this bbolt database")
	_ = scanCmd.MarkFlagRequired("repo-path")
}

func runScan(cmd *cobra.Command, args []string) error {
	log := logging.Get()

	rules, err := pattern.LoadRules(ruledefs.FS, ruledefs.Dir)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	out, err := app.Scan(extract.Config{
		Root:    scanRepoPath,
		Workers: scanJobs,
	}, rules, log)
	if err != nil {
		return err
	}

	// The report prints in every case, even when persistence is skipped
	// or fails afterwards.
	fmt.Print(formatReport(out.Report, out.Stats))

	if scanHistoryDB != "" && scanRepositoryID != "" {
		if err := recordHistory(out); err != nil {
			log.Warn().Err(err).Msg("recording run history failed")
		}
	}

	if scanReportOnly {
		return nil
	}
	if scanRepositoryID == "" {
		fmt.Fprintln(os.Stderr, "warning: no repository ID provided; use --repository-id to save patterns to database")
		return nil
	}

	store, err := sqlite.Open(scanDBPath)
	if err != nil {
		return fmt.Errorf("open pattern database: %w", err)
	}
	defer store.Close()

	if err := app.Persist(context.Background(), store, scanRepositoryID, out); err != nil {
		return err
	}

	fmt.Printf("\nSaved %d unique patterns for repository %s\n", len(out.Aggregates), scanRepositoryID)
	return nil
}

func recordHistory(out *app.ScanOutput) error {
	history, err := bbolt.NewHistoryStore(scanHistoryDB)
	if err != nil {
		return err
	}
	defer history.Close()
	return app.RecordRun(history, scanRepositoryID, out)
}
