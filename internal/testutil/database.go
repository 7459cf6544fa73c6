// Package testutil provides shared fakes and fixtures for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/plata/internal/storage"
)

// SetupTestStore creates a migrated in-memory SQLite record store that is
// closed when the test ends.
func SetupTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()

	store, err := storage.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, store *storage.SQLiteStore, table string) int {
	t.Helper()

	var n int
	if err := store.DB().QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	return n
}
