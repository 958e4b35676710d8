package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database with the schema applied.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return db
}

func tableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		names = append(names, name)
	}
	return names
}

// TestInitDB_CreatesTables verifies every expected table exists.
func TestInitDB_CreatesTables(t *testing.T) {
	db := openTestDB(t)
	if got := tableNames(t, db); !reflect.DeepEqual(got, Tables()) {
		t.Errorf("tables = %v, want %v", got, Tables())
	}
}

// TestInitDB_Idempotent verifies running InitDB twice keeps data.
func TestInitDB_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Exec("INSERT INTO categories (name) VALUES ('Soups')"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB: %v", err)
	}
	var n int
	db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&n)
	if n != 1 {
		t.Errorf("categories = %d, want 1", n)
	}
}

// TestDeleteByID verifies deletion and the not-found path.
func TestDeleteByID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	res, err := db.Exec("INSERT INTO categories (name) VALUES ('Grills')")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	id, _ := res.LastInsertId()

	if err := DeleteByID(ctx, db, TableCategories, id); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if err := DeleteByID(ctx, db, TableCategories, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
	if n, _ := CountWhere(ctx, db, TableCategories, NewWhere().EqInt("id", id)); n != 0 {
		t.Error("row still exists")
	}
}

// TestCountWhere verifies count queries share the builder.
func TestCountWhere(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	for i, s := range []string{"active", "active", "inactive"} {
		if _, err := db.Exec("INSERT INTO categories (name, status) VALUES (?, ?)", fmt.Sprintf("cat-%d", i), s); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	n, err := CountWhere(ctx, db, TableCategories, NewWhere().Eq("status", "active"))
	if err != nil {
		t.Fatalf("CountWhere: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

// TestTimeRoundTrip verifies stored timestamps compare lexically.
func TestTimeRoundTrip(t *testing.T) {
	ts := time.Date(2026, 7, 9, 8, 7, 6, 0, time.UTC)
	s := FormatTime(ts)
	if s != "2026-07-09 08:07:06" {
		t.Errorf("FormatTime = %q", s)
	}
	if !ParseTime(s).Equal(ts) {
		t.Errorf("ParseTime(%q) = %v", s, ParseTime(s))
	}
	if !ParseTime("").IsZero() || !ParseTime("garbage").IsZero() {
		t.Error("expected zero time for empty or malformed input")
	}
	if NullTime(time.Time{}) != nil {
		t.Error("NullTime(zero) should be nil")
	}
}
