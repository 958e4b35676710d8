package blog

import (
	"context"
	"fmt"

	"backoffice/internal/adapters/storage"
	domain "backoffice/internal/domain/blog"
)

const selectPost = `SELECT id, title, content, author, status, created_at, updated_at FROM blog_posts`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new blog store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a post by ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, selectPost+` WHERE id = ?`, id))
	return p, storage.NotFound(err, "blog post", id)
}

// Create inserts a post and returns its ID.
func (s *SQLiteStore) Create(ctx context.Context, p domain.Post) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO blog_posts (title, content, author, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.Title, p.Content, p.Author, p.Status, storage.FormatTime(p.CreatedAt), storage.FormatTime(p.UpdatedAt))
	if err != nil {
		return 0, fmt.Errorf("insert blog post: %w", err)
	}
	return res.LastInsertId()
}

// Update writes the full row.
func (s *SQLiteStore) Update(ctx context.Context, p domain.Post) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE blog_posts SET title = ?, content = ?, author = ?, status = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Content, p.Author, p.Status, storage.FormatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("update blog post: %w", err)
	}
	return storage.RequireAffected(res, "blog post", p.ID)
}

// Delete removes a post.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	return storage.DeleteByID(ctx, s.db, storage.TableBlogPosts, id)
}

// List returns posts matching the filter, newest first.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Post, error) {
	w := where(filter)
	query := selectPost + w.SQL() + ` ORDER BY created_at DESC, id DESC`
	args := w.Args()
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	defer rows.Close()
	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Count returns the number of posts matching the filter.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	return storage.CountWhere(ctx, s.db, storage.TableBlogPosts, where(filter))
}

func where(f ListFilter) *storage.Where {
	return storage.NewWhere().
		Eq("status", f.Status).
		Like(f.Search, "title", "author", "content")
}

func scanPost(row storage.Scanner) (domain.Post, error) {
	var p domain.Post
	var createdAt, updatedAt string
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Author, &p.Status, &createdAt, &updatedAt); err != nil {
		return domain.Post{}, err
	}
	p.CreatedAt = storage.ParseTime(createdAt)
	p.UpdatedAt = storage.ParseTime(updatedAt)
	return p, nil
}

var _ Store = (*SQLiteStore)(nil)
