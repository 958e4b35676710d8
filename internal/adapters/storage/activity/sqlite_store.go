package activity

import (
	"context"
	"database/sql"
	"fmt"

	"backoffice/internal/adapters/storage"
	domain "backoffice/internal/domain/activity"
)

const fromJoined = ` FROM activity_logs a LEFT JOIN users u ON u.id = a.user_id`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new activity log store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Append inserts one entry and returns its ID.
func (s *SQLiteStore) Append(ctx context.Context, e domain.Entry) (int64, error) {
	var userID, entityID any
	if e.UserID != 0 {
		userID = e.UserID
	}
	if e.EntityID != 0 {
		entityID = e.EntityID
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO activity_logs (user_id, activity_type, activity_action, description, entity_type, entity_id, ip_address, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, e.Type, e.Action, e.Description, e.EntityType, entityID, e.IPAddress, storage.FormatTime(e.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("insert activity log: %w", err)
	}
	return res.LastInsertId()
}

// List returns entries matching the filter with actor names, newest first.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Entry, error) {
	w := where(filter)
	query := `SELECT a.id, a.user_id, COALESCE(u.name, ''), a.activity_type, a.activity_action, a.description,
		a.entity_type, a.entity_id, a.ip_address, a.created_at` + fromJoined + w.SQL() +
		` ORDER BY a.created_at DESC, a.id DESC`
	args := w.Args()
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		var userID, entityID sql.NullInt64
		var createdAt string
		if err := rows.Scan(&e.ID, &userID, &e.UserName, &e.Type, &e.Action, &e.Description,
			&e.EntityType, &entityID, &e.IPAddress, &createdAt); err != nil {
			return nil, err
		}
		e.UserID = userID.Int64
		e.EntityID = entityID.Int64
		e.CreatedAt = storage.ParseTime(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of entries matching the filter.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	w := where(filter)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*)`+fromJoined+w.SQL(), w.Args()...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count activity logs: %w", err)
	}
	return n, nil
}

func where(f ListFilter) *storage.Where {
	return storage.NewWhere().
		Eq("a.activity_type", f.Type).
		DayFrom("a.created_at", f.From).
		DayTo("a.created_at", f.To).
		Like(f.Search, "a.description", "u.name")
}

var _ Store = (*SQLiteStore)(nil)
