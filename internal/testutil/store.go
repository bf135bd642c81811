// Package testutil provides shared helpers for package tests.
package testutil

import (
	"testing"

	"github.com/udhaarapp/udhaar/internal/storage"
)

// TempStore creates an in-memory record store that is closed when the test
// finishes.
func TempStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()

	store, err := storage.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}
