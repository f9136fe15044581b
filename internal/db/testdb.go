package db

import (
	"database/sql"
	"testing"
)

// NewTestDB creates a fresh in-memory SQLite database with the session
// schema applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return newTestDB(t, EnsureSchema)
}

// NewBackendTestDB creates a fresh in-memory SQLite database with the mock
// backend schema applied.
func NewBackendTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return newTestDB(t, EnsureBackendSchema)
}

func newTestDB(t *testing.T, ensure func(*sql.DB) error) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := ensure(db); err != nil {
		db.Close()
		t.Fatalf("creating test database schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
