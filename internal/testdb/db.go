// Package testdb provides utilities specifically for database testing.
// Tests that need PostgreSQL call GetTestDBWithT, which skips them unless a
// test database URL is present in the environment.
package testdb

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/redact"
)

// Database connection environment variables, in lookup order.
const (
	EnvDatabaseURL   = "DATABASE_URL"
	EnvTodoTestDBURL = "TODO_TEST_DB_URL"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 30 * time.Second

// GetTestDatabaseURL returns the database URL for tests, or "" if none is set.
func GetTestDatabaseURL() string {
	for _, name := range []string{EnvDatabaseURL, EnvTodoTestDBURL} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// IsIntegrationTestEnvironment reports whether a test database is configured.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// GetTestDBWithT returns a migrated database connection that is closed when
// the test ends. The test is skipped when no database URL is configured.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skipf("%s or %s not set, skipping database test", EnvDatabaseURL, EnvTodoTestDBURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to open test database %s: %v", redact.DatabaseURL(dbURL), err)
	}
	t.Cleanup(func() { CleanupDB(t, db) })

	if err := postgres.Migrate(ctx, db, nil); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// CleanupDB closes a database connection, reporting any error to t.
func CleanupDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}

// WithTx runs fn inside a transaction that is always rolled back afterwards,
// so the test leaves no rows behind.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Errorf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
