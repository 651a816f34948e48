package history_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/torosent/volley/internal/history"
)

func TestAppendAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	first := history.Record{
		URL:        "http://localhost",
		Runs:       5,
		Errors:     1,
		Elapsed:    "0.123456789",
		StartedAt:  time.Now().UTC().Add(-time.Second),
		FinishedAt: time.Now().UTC(),
	}
	id1, err := store.Append(first)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id1 == "" {
		t.Fatal("expected generated id")
	}

	id2, err := store.Append(history.Record{URL: "http://localhost", Runs: 3})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id2 == id1 {
		t.Fatal("ids must be unique")
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// ULID keys keep insertion order under sorted iteration.
	if records[0].ID != id1 || records[1].ID != id2 {
		t.Fatalf("order wrong: %s, %s", records[0].ID, records[1].ID)
	}
	if records[0].Runs != 5 || records[0].Errors != 1 || records[0].Elapsed != "0.123456789" {
		t.Fatalf("record fields lost: %+v", records[0])
	}
}

func TestOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "runs.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestListEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	records, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d", len(records))
	}
}
