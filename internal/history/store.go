// Package history persists run summaries to a local bbolt database so prior
// runs can be compared. Records are keyed by ULID, which keeps them in
// chronological order under bbolt's sorted-key iteration.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"go.etcd.io/bbolt"
)

const bucketRuns = "runs"

// Record is one stored run summary.
type Record struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Runs       int       `json:"runs"`
	Errors     int       `json:"errors"`
	Elapsed    string    `json:"elapsed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type Store struct {
	db *bbolt.DB
}

// Open creates or opens the database at path, creating parent directories as
// needed. The open times out rather than blocking forever on another
// process's lock.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history db %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRuns))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Append stores rec, assigning a fresh ULID when rec.ID is empty, and returns
// the id used.
func (s *Store) Append(rec Record) (string, error) {
	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal history record: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketRuns)).Put([]byte(rec.ID), data)
	})
	if err != nil {
		return "", fmt.Errorf("store history record: %w", err)
	}
	return rec.ID, nil
}

// List returns all stored records, oldest first.
func (s *Store) List() ([]Record, error) {
	var records []Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketRuns)).ForEach(func(_, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode history record: %w", err)
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
