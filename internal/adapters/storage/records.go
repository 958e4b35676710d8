package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the storage format for every timestamp column.
const TimeLayout = "2006-01-02 15:04:05"

// ErrNotFound is returned (wrapped) when a row does not exist.
var ErrNotFound = errors.New("record not found")

// Table names a table that the generic record helpers may touch.
// Values are compile-time constants; request input never becomes a Table.
type Table string

// Tables reachable through the record helpers.
const (
	TableUsers         Table = "users"
	TableCategories    Table = "categories"
	TableMenuItems     Table = "menu_items"
	TableBlogPosts     Table = "blog_posts"
	TableAmbassadors   Table = "ambassador_applications"
	TableSubscriptions Table = "newsletter_subscriptions"
	TableCampaigns     Table = "newsletter_campaigns"
	TableOrders        Table = "orders"
	TableNotifications Table = "notifications"
)

// FormatTime renders t for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// NullTime renders t for a nullable column: zero becomes NULL.
func NullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return FormatTime(t)
}

// ParseTime reads a stored timestamp. Empty or malformed input yields the zero time.
func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(TimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ParseNullTime reads a nullable timestamp column.
func ParseNullTime(ns sql.NullString) time.Time {
	if !ns.Valid {
		return time.Time{}
	}
	return ParseTime(ns.String)
}

// BoolInt converts a bool to SQLite's integer representation.
func BoolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NotFound wraps sql.ErrNoRows as ErrNotFound; other errors pass through.
func NotFound(err error, what string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", what, id, ErrNotFound)
	}
	return err
}

// IsUniqueViolation reports whether err came from a UNIQUE constraint.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// DeleteByID removes one row by primary key.
// PRE: id > 0
// POST: Returns ErrNotFound (wrapped) if no row matched
func DeleteByID(ctx context.Context, db SQLDB, t Table, id int64) error {
	res, err := db.ExecContext(ctx, "DELETE FROM "+string(t)+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", t, err)
	}
	return requireAffected(res, t, id)
}

// CountWhere counts rows in t matching w.
func CountWhere(ctx context.Context, db SQLDB, t Table, w *Where) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+string(t)+w.SQL(), w.Args()...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", t, err)
	}
	return n, nil
}

// RequireAffected turns a zero-row update into ErrNotFound.
func RequireAffected(res sql.Result, what string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %v: %w", what, id, ErrNotFound)
	}
	return nil
}

func requireAffected(res sql.Result, t Table, id int64) error {
	return RequireAffected(res, string(t), id)
}

// WithTx runs fn inside a transaction, committing on success and rolling back otherwise.
func WithTx(ctx context.Context, db SQLDB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}
