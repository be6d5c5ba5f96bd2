// Package bbolt implements the ports.HistoryStore interface using bbolt
// (embedded B+ tree). Each repository gets its own top-level bucket; run
// records are stored under their RFC3339Nano timestamp, so bbolt's key order
// doubles as chronological order. Writes are transactional, so a crash
// mid-write cannot corrupt previously committed records.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/refactorforge/patternscan/internal/ports"
)

// HistoryStore implements ports.HistoryStore backed by bbolt.
type HistoryStore struct {
	db *bolt.DB
}

// NewHistoryStore opens (or creates) a bbolt database at the given path.
func NewHistoryStore(path string) (*HistoryStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// SaveRun appends a run record under the repository's bucket. The record's
// Timestamp field doubles as the key; empty timestamps are stamped here.
func (s *HistoryStore) SaveRun(repositoryID string, run *ports.RunRecord) error {
	if run == nil {
		return fmt.Errorf("nil run record")
	}
	if run.Timestamp == "" {
		run.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		repo, err := tx.CreateBucketIfNotExists([]byte(repositoryID))
		if err != nil {
			return err
		}
		return repo.Put([]byte(run.Timestamp), data)
	})
}

// ListRuns returns all run records for a repository, oldest first.
// Returns nil, nil if the repository has no recorded runs.
func (s *HistoryStore) ListRuns(repositoryID string) ([]*ports.RunRecord, error) {
	var raw [][]byte

	err := s.db.View(func(tx *bolt.Tx) error {
		repo := tx.Bucket([]byte(repositoryID))
		if repo == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		return repo.ForEach(func(_, v []byte) error {
			buf := make([]byte, len(v))
			copy(buf, v)
			raw = append(raw, buf)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if raw == nil {
		return nil, nil
	}

	runs := make([]*ports.RunRecord, 0, len(raw))
	for _, data := range raw {
		var run ports.RunRecord
		if err := json.Unmarshal(data, &run); err != nil {
			return nil, fmt.Errorf("unmarshal run record: %w", err)
		}
		runs = append(runs, &run)
	}
	return runs, nil
}

// DeleteHistory removes all run records for a repository.
// Idempotent: deleting a nonexistent repository is not an error.
func (s *HistoryStore) DeleteHistory(repositoryID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(repositoryID))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}
