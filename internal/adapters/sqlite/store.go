// Package sqlite implements ports.PatternStore on SQLite via database/sql.
// One row per aggregated pattern per repository; writes replace the full
// prior set for a repository inside a single transaction, so a crash or
// failed insert cannot leave a half-written mix of old and new rows.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/refactorforge/patternscan/internal/domain/pattern"
)

// ErrPersistence wraps transactional write failures. The underlying cause is
// joined in; prior data for the repository stays untouched after rollback.
var ErrPersistence = errors.New("pattern persistence failed")

// Store implements ports.PatternStore backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the repository_patterns table if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS repository_patterns (
			id TEXT PRIMARY KEY,
			repository_id TEXT NOT NULL,
			pattern_type TEXT NOT NULL,
			pattern_content TEXT NOT NULL,
			pattern_hash TEXT NOT NULL,
			description TEXT,
			category TEXT NOT NULL,
			subcategory TEXT,
			tags TEXT NOT NULL,
			file_path TEXT NOT NULL,
			line_start INTEGER NOT NULL,
			line_end INTEGER NOT NULL,
			language TEXT NOT NULL,
			framework TEXT,
			confidence_score REAL NOT NULL,
			usage_count INTEGER NOT NULL,
			context_before TEXT,
			context_after TEXT,
			metadata TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_repository_patterns_repo ON repository_patterns(repository_id);
		CREATE INDEX IF NOT EXISTS idx_repository_patterns_hash ON repository_patterns(repository_id, pattern_hash);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite migrate: %w", err)
	}
	return nil
}

// ReplaceAll removes every stored pattern for repositoryID and writes the new
// set. Delete and inserts share one transaction: on any failure the
// transaction rolls back and the previous rows remain visible.
func (s *Store) ReplaceAll(ctx context.Context, repositoryID string, patterns []pattern.Aggregated) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Join(ErrPersistence, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM repository_patterns WHERE repository_id = ?`, repositoryID); err != nil {
		return errors.Join(ErrPersistence, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO repository_patterns (
			id, repository_id, pattern_type, pattern_content, pattern_hash,
			description, category, subcategory, tags, file_path, line_start,
			line_end, language, framework, confidence_score, usage_count,
			context_before, context_after, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Join(ErrPersistence, err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)

	for _, agg := range patterns {
		occ := agg.Representative

		tags, err := json.Marshal(occ.Tags)
		if err != nil {
			return errors.Join(ErrPersistence, err)
		}
		metadata, err := json.Marshal(occ.Metadata)
		if err != nil {
			return errors.Join(ErrPersistence, err)
		}

		framework := sql.NullString{String: occ.Framework, Valid: occ.Framework != ""}

		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(),
			repositoryID,
			occ.RuleID,
			occ.MatchedText,
			agg.Hash,
			occ.Description,
			pattern.CategoryName(occ.Category),
			occ.Subcategory,
			string(tags),
			occ.FilePath,
			occ.LineStart,
			occ.LineEnd,
			occ.Language,
			framework,
			occ.Confidence,
			agg.UsageCount,
			occ.ContextBefore,
			occ.ContextAfter,
			string(metadata),
			now,
			now,
		); err != nil {
			return errors.Join(ErrPersistence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Join(ErrPersistence, err)
	}
	return nil
}

// CountForRepository returns the number of stored rows for a repository.
func (s *Store) CountForRepository(ctx context.Context, repositoryID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM repository_patterns WHERE repository_id = ?`, repositoryID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
