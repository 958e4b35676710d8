package users

import (
	"context"
	"fmt"
	"strings"

	"backoffice/internal/adapters/storage"
	domain "backoffice/internal/domain/user"
)

const selectColumns = `SELECT id, name, email, phone, password_hash, role, status, created_at FROM users`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new user store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a user by ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	return u, storage.NotFound(err, "user", id)
}

// GetByEmail retrieves a user by email.
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(s.db.QueryRowContext(ctx, selectColumns+` WHERE email = ?`, email))
	return u, storage.NotFound(err, "user", email)
}

// Create inserts a user and returns its ID.
func (s *SQLiteStore) Create(ctx context.Context, u domain.User) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, phone, password_hash, role, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.Status, storage.FormatTime(u.CreatedAt))
	if storage.IsUniqueViolation(err) {
		return 0, domain.ErrEmailTaken
	}
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}

// Update writes every editable column of an existing user.
func (s *SQLiteStore) Update(ctx context.Context, u domain.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, phone = ?, password_hash = ?, role = ?, status = ? WHERE id = ?`,
		u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.Status, u.ID)
	if storage.IsUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return storage.RequireAffected(res, "user", u.ID)
}

// SetStatus changes only the status column.
func (s *SQLiteStore) SetStatus(ctx context.Context, id int64, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	return storage.RequireAffected(res, "user", id)
}

// Delete removes a user.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	return storage.DeleteByID(ctx, s.db, storage.TableUsers, id)
}

// List returns users matching the filter, newest first.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.User, error) {
	w := where(filter)
	query := selectColumns + w.SQL() + ` ORDER BY created_at DESC, id DESC`
	args := w.Args()
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Count returns the number of users matching the filter.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	return storage.CountWhere(ctx, s.db, storage.TableUsers, where(filter))
}

func where(f ListFilter) *storage.Where {
	return storage.NewWhere().
		Eq("role", f.Role).
		Eq("status", f.Status).
		Like(f.Search, "name", "email", "phone")
}

func scanUser(row storage.Scanner) (domain.User, error) {
	var u domain.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Status, &createdAt); err != nil {
		return domain.User{}, err
	}
	u.CreatedAt = storage.ParseTime(createdAt)
	return u, nil
}

var _ Store = (*SQLiteStore)(nil)
