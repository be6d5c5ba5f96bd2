// Package app wires the extraction domain to its adapters: one full corpus
// scan (walk, match, aggregate, report) and the optional persistence and
// history steps around it.
package app

import (
	"context"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/refactorforge/patternscan/internal/domain/extract"
	"github.com/refactorforge/patternscan/internal/domain/pattern"
	"github.com/refactorforge/patternscan/internal/domain/report"
	"github.com/refactorforge/patternscan/internal/ports"
)

// ScanOutput collects everything one extraction run produces. Occurrences
// and aggregates live only for the run; aggregates are the unit that crosses
// the persistence boundary.
type ScanOutput struct {
	Root        string
	Occurrences []pattern.Occurrence
	Aggregates  []pattern.Aggregated
	Report      *report.Report
	Stats       extract.Stats
}

// Scan runs the full extraction pipeline over a corpus root: walk, per-file
// rule matching, aggregation, and report generation. Only a missing corpus
// root is fatal; unreadable files inside it are skipped with a diagnostic.
func Scan(cfg extract.Config, rules []pattern.Rule, log *bolt.Logger) (*ScanOutput, error) {
	result, err := extract.Run(cfg, rules, log)
	if err != nil {
		return nil, err
	}

	out := &ScanOutput{
		Root:        result.Root,
		Occurrences: result.Occurrences,
		Aggregates:  pattern.Aggregate(result.Occurrences),
		Stats:       result.Stats,
	}
	out.Report = report.Build(out.Occurrences, out.Root)

	if log != nil {
		log.Info().
			Str("root", out.Root).
			Int("files", out.Stats.FilesScanned).
			Int("occurrences", len(out.Occurrences)).
			Int("unique_patterns", len(out.Aggregates)).
			Msg("extraction complete")
	}

	return out, nil
}

// Persist replaces all stored patterns for a repository with this run's
// aggregates. The report stays printable even when this fails.
func Persist(ctx context.Context, store ports.PatternStore, repositoryID string, out *ScanOutput) error {
	return store.ReplaceAll(ctx, repositoryID, out.Aggregates)
}

// RecordRun appends a run summary to the history store.
func RecordRun(history ports.HistoryStore, repositoryID string, out *ScanOutput) error {
	return history.SaveRun(repositoryID, &ports.RunRecord{
		RepositoryID:   repositoryID,
		Root:           out.Root,
		Timestamp:      time.Now().UTC().Format(time.RFC3339Nano),
		TotalPatterns:  len(out.Occurrences),
		UniquePatterns: len(out.Aggregates),
		FilesScanned:   out.Stats.FilesScanned,
		FilesSkipped:   out.Stats.FilesSkipped,
		ElapsedMillis:  out.Stats.Elapsed.Milliseconds(),
		Categories:     out.Report.CategoryBreakdown,
	})
}
