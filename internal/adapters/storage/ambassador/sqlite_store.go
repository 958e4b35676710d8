package ambassador

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"backoffice/internal/adapters/storage"
	domain "backoffice/internal/domain/ambassador"
)

const selectApplication = `SELECT id, name, email, phone, social_media, experience, motivation, message, status,
	application_date, created_at, reviewed_at FROM ambassador_applications`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ambassador application store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an application by ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Application, error) {
	a, err := scanApplication(s.db.QueryRowContext(ctx, selectApplication+` WHERE id = ?`, id))
	return a, storage.NotFound(err, "ambassador application", id)
}

// Create inserts an application and returns its ID.
func (s *SQLiteStore) Create(ctx context.Context, a domain.Application) (int64, error) {
	if a.Status == "" {
		a.Status = domain.StatusPending
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO ambassador_applications (name, email, phone, social_media, experience, motivation, message, status, application_date, created_at, reviewed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.Email, a.Phone, a.SocialMedia, a.Experience, a.Motivation, a.Message, a.Status,
		storage.FormatTime(a.ApplicationDate), storage.FormatTime(a.CreatedAt), storage.NullTime(a.ReviewedAt))
	if err != nil {
		return 0, fmt.Errorf("insert ambassador application: %w", err)
	}
	return res.LastInsertId()
}

// SetStatus records a decision on a pending application. An application
// that was decided in the meantime yields ErrAlreadyDecided.
func (s *SQLiteStore) SetStatus(ctx context.Context, id int64, status string, reviewedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ambassador_applications SET status = ?, reviewed_at = ? WHERE id = ? AND status = ?`,
		status, storage.NullTime(reviewedAt), id, domain.StatusPending)
	if err != nil {
		return fmt.Errorf("update ambassador status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("ambassador application %d: %w", id, domain.ErrAlreadyDecided)
}

// List returns applications matching the filter, most recent application first.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Application, error) {
	w := where(filter)
	query := selectApplication + w.SQL() + ` ORDER BY application_date DESC, id DESC`
	args := w.Args()
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ambassador applications: %w", err)
	}
	defer rows.Close()
	var list []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Count returns the number of applications matching the filter.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	return storage.CountWhere(ctx, s.db, storage.TableAmbassadors, where(filter))
}

func where(f ListFilter) *storage.Where {
	return storage.NewWhere().
		Eq("status", f.Status).
		Like(f.Search, "name", "email", "phone")
}

func scanApplication(row storage.Scanner) (domain.Application, error) {
	var a domain.Application
	var appDate, createdAt string
	var reviewedAt sql.NullString
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.SocialMedia, &a.Experience, &a.Motivation,
		&a.Message, &a.Status, &appDate, &createdAt, &reviewedAt); err != nil {
		return domain.Application{}, err
	}
	a.ApplicationDate = storage.ParseTime(appDate)
	a.CreatedAt = storage.ParseTime(createdAt)
	a.ReviewedAt = storage.ParseNullTime(reviewedAt)
	return a, nil
}

var _ Store = (*SQLiteStore)(nil)
