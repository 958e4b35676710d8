package outbox

import (
	"context"
	"fmt"

	"backoffice/internal/adapters/storage"
	domain "backoffice/internal/domain/outbox"
)

const selectEntry = `SELECT id, action_type, payload, status, attempts, max_attempts,
	last_attempted_at, created_at, external_id, error_message FROM outbox`

// SQLiteStore implements the outbox Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new outbox store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an outbox entry by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, selectEntry+` WHERE id = ?`, id))
	if err != nil {
		return domain.Entry{}, storage.NotFound(err, "outbox entry", id)
	}
	return e, nil
}

// Save inserts or updates an entry.
func (s *SQLiteStore) Save(ctx context.Context, e domain.Entry) error {
	lastAttemptedAt := ""
	if !e.LastAttemptedAt.IsZero() {
		lastAttemptedAt = storage.FormatTime(e.LastAttemptedAt)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outbox (id, action_type, payload, status, attempts, max_attempts, last_attempted_at, created_at, external_id, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status=excluded.status, attempts=excluded.attempts, max_attempts=excluded.max_attempts,
		   last_attempted_at=excluded.last_attempted_at, external_id=excluded.external_id,
		   error_message=excluded.error_message`,
		e.ID, e.ActionType, e.Payload, e.Status, e.Attempts, e.MaxAttempts,
		lastAttemptedAt, storage.FormatTime(e.CreatedAt), e.ExternalID, e.ErrorMessage)
	if err != nil {
		return fmt.Errorf("save outbox entry %s: %w", e.ID, err)
	}
	return nil
}

// ListPending returns entries the worker may still run, oldest first.
func (s *SQLiteStore) ListPending(ctx context.Context, limit int) ([]domain.Entry, error) {
	return s.list(ctx, ` WHERE status IN (?, ?) ORDER BY created_at ASC LIMIT ?`,
		domain.StatusPending, domain.StatusRetrying, limit)
}

// ListRecent returns the newest entries in any state.
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]domain.Entry, error) {
	return s.list(ctx, ` ORDER BY created_at DESC, id LIMIT ?`, limit)
}

// ListByActionType returns entries of one action type, optionally narrowed by status.
func (s *SQLiteStore) ListByActionType(ctx context.Context, actionType, status string, limit int) ([]domain.Entry, error) {
	w := storage.NewWhere().Eq("action_type", actionType).Eq("status", status)
	return s.list(ctx, w.SQL()+` ORDER BY created_at ASC LIMIT ?`, append(w.Args(), limit)...)
}

func (s *SQLiteStore) list(ctx context.Context, tail string, args ...any) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectEntry+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("list outbox: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(sc storage.Scanner) (domain.Entry, error) {
	var e domain.Entry
	var createdAt, lastAttemptedAt string
	err := sc.Scan(&e.ID, &e.ActionType, &e.Payload, &e.Status, &e.Attempts, &e.MaxAttempts,
		&lastAttemptedAt, &createdAt, &e.ExternalID, &e.ErrorMessage)
	if err != nil {
		return domain.Entry{}, err
	}
	e.CreatedAt = storage.ParseTime(createdAt)
	e.LastAttemptedAt = storage.ParseTime(lastAttemptedAt)
	return e, nil
}

var _ Store = (*SQLiteStore)(nil)
