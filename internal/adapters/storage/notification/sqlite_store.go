package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"backoffice/internal/adapters/storage"
	domain "backoffice/internal/domain/notification"
)

const selectNotification = `SELECT id, user_id, title, message, type, link, is_read, read_at, created_at FROM notifications`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new notification store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create inserts a notification and returns its ID.
func (s *SQLiteStore) Create(ctx context.Context, n domain.Notification) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, title, message, type, link, is_read, read_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.UserID, n.Title, n.Message, n.Type, n.Link, storage.BoolInt(n.IsRead),
		storage.NullTime(n.ReadAt), storage.FormatTime(n.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	return res.LastInsertId()
}

// GetByID retrieves a notification.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Notification, error) {
	n, err := scanNotification(s.db.QueryRowContext(ctx, selectNotification+` WHERE id = ?`, id))
	if err != nil {
		return domain.Notification{}, storage.NotFound(err, "notification", id)
	}
	return n, nil
}

// MarkRead sets is_read for a notification owned by userID. The first read_at is kept.
func (s *SQLiteStore) MarkRead(ctx context.Context, id, userID int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1, read_at = COALESCE(read_at, ?)
		 WHERE id = ? AND user_id = ?`,
		storage.FormatTime(at), id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return storage.RequireAffected(res, "notification", id)
}

// CountUnread returns how many notifications userID has not read.
func (s *SQLiteStore) CountUnread(ctx context.Context, userID int64) (int, error) {
	w := storage.NewWhere().EqInt("user_id", userID).Bool("is_read", false)
	return storage.CountWhere(ctx, s.db, storage.TableNotifications, w)
}

// ListForUser returns the newest notifications for userID.
func (s *SQLiteStore) ListForUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		selectNotification+` WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var list []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func scanNotification(sc storage.Scanner) (domain.Notification, error) {
	var n domain.Notification
	var isRead int
	var readAt sql.NullString
	var createdAt string
	if err := sc.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Link, &isRead, &readAt, &createdAt); err != nil {
		return domain.Notification{}, err
	}
	n.IsRead = isRead == 1
	n.ReadAt = storage.ParseNullTime(readAt)
	n.CreatedAt = storage.ParseTime(createdAt)
	return n, nil
}

var _ Store = (*SQLiteStore)(nil)
