// Package testutil holds shared helpers for store-backed tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lease-recert-bot/internal/store"
	"lease-recert-bot/internal/store/db/sqlite"
)

// NewTestStore opens a migrated SQLite store in the test's temp directory.
// The file goes away with t.TempDir; only the handle needs cleanup.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	driver, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	st := store.New(driver)
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Logf("close test database: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return st
}

// RequireIntegration skips the test unless INTEGRATION=1. Used by tests that
// need a real Postgres behind TEST_DATABASE_URL.
func RequireIntegration(t *testing.T) {
	if os.Getenv("INTEGRATION") != "1" {
		t.Skip("Skipping integration test. Set INTEGRATION=1 to run.")
	}
}
