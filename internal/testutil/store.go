package testutil

import (
	"path/filepath"
	"testing"

	"github.com/HerbHall/powerparts/internal/store"
)

// NewStore creates an in-memory SQLiteStore for testing.
// The store is automatically closed when the test completes.
func NewStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("testutil.NewStore: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// NewFileStore creates a SQLiteStore in a temporary file and returns it with
// its path, for tests that read the database back through a dataset
// identifier.
func NewFileStore(t *testing.T) (*store.SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := store.New(path)
	if err != nil {
		t.Fatalf("testutil.NewFileStore: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, path
}
