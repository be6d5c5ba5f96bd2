// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import (
	"context"

	"github.com/refactorforge/patternscan/internal/domain/pattern"
)

// PatternStore persists aggregated patterns per repository.
//
// Write semantics: ReplaceAll is atomic with respect to the repository ID.
// Either all prior rows for that ID are removed and the full new set is
// written, or no partial state is visible. A delete that succeeds followed
// by a failed insert must roll back, leaving the previous data untouched.
type PatternStore interface {
	// ReplaceAll removes every stored pattern for repositoryID and writes
	// the new set in a single transaction.
	ReplaceAll(ctx context.Context, repositoryID string, patterns []pattern.Aggregated) error

	// CountForRepository returns the number of stored rows for a repository.
	CountForRepository(ctx context.Context, repositoryID string) (int, error)

	// Close releases the underlying database handle.
	Close() error
}

// RunRecord is one extraction run's summary, kept for trend inspection.
type RunRecord struct {
	RepositoryID   string         `json:"repository_id"`
	Root           string         `json:"root"`
	Timestamp      string         `json:"timestamp"` // RFC3339Nano, also the storage key
	TotalPatterns  int            `json:"total_patterns"`
	UniquePatterns int            `json:"unique_patterns"`
	FilesScanned   int            `json:"files_scanned"`
	FilesSkipped   int            `json:"files_skipped"`
	ElapsedMillis  int64          `json:"elapsed_ms"`
	Categories     map[string]int `json:"categories"`
}

// HistoryStore keeps per-repository run records in durable local storage.
// Records accumulate; unlike PatternStore, history is append-only.
type HistoryStore interface {
	// SaveRun appends a run record under the repository's namespace.
	SaveRun(repositoryID string, run *RunRecord) error

	// ListRuns returns all run records for a repository, oldest first.
	// Returns nil, nil if the repository has no recorded runs.
	ListRuns(repositoryID string) ([]*RunRecord, error)

	// Close releases the underlying database handle.
	Close() error
}
