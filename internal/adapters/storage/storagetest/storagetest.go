// Package storagetest opens throwaway databases for store tests.
package storagetest

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"backoffice/internal/adapters/storage"
)

// OpenDB returns an in-memory SQLite database with the schema applied.
// A single connection is used so every query sees the same in-memory database.
func OpenDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("init test db: %v", err)
	}
	return db
}
