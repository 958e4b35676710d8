package menu

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"backoffice/internal/adapters/storage"
	domain "backoffice/internal/domain/menu"
)

const selectItem = `SELECT m.id, m.name, m.description, m.price, m.image, m.category_id, COALESCE(c.name, ''),
	m.is_available, m.is_featured, m.status, m.created_at, m.updated_at
	FROM menu_items m LEFT JOIN categories c ON c.id = m.category_id`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new menu store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a menu item with its category name.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Item, error) {
	item, err := scanItem(s.db.QueryRowContext(ctx, selectItem+` WHERE m.id = ?`, id))
	return item, storage.NotFound(err, "menu item", id)
}

// Create inserts a menu item and returns its ID.
func (s *SQLiteStore) Create(ctx context.Context, item domain.Item) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO menu_items (name, description, price, image, category_id, is_available, is_featured, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Name, item.Description, item.Price.StringFixed(2), item.Image, item.CategoryID,
		storage.BoolInt(item.IsAvailable), storage.BoolInt(item.IsFeatured), item.Status,
		storage.FormatTime(item.CreatedAt), storage.FormatTime(item.UpdatedAt))
	if err != nil {
		return 0, fmt.Errorf("insert menu item: %w", err)
	}
	return res.LastInsertId()
}

// Update writes every editable column of an existing item.
func (s *SQLiteStore) Update(ctx context.Context, item domain.Item) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE menu_items SET name = ?, description = ?, price = ?, image = ?, category_id = ?,
		 is_available = ?, is_featured = ?, status = ?, updated_at = ? WHERE id = ?`,
		item.Name, item.Description, item.Price.StringFixed(2), item.Image, item.CategoryID,
		storage.BoolInt(item.IsAvailable), storage.BoolInt(item.IsFeatured), item.Status,
		storage.FormatTime(item.UpdatedAt), item.ID)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	return storage.RequireAffected(res, "menu item", item.ID)
}

// Delete removes an item inside a transaction and returns the deleted row.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) (domain.Item, error) {
	var deleted domain.Item
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		item, err := scanItem(tx.QueryRowContext(ctx, selectItem+` WHERE m.id = ?`, id))
		if err != nil {
			return storage.NotFound(err, "menu item", id)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete menu item: %w", err)
		}
		deleted = item
		return nil
	})
	if err != nil {
		return domain.Item{}, err
	}
	return deleted, nil
}

// SetStatus changes only the status column of an item.
func (s *SQLiteStore) SetStatus(ctx context.Context, id int64, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE menu_items SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update menu item status: %w", err)
	}
	return storage.RequireAffected(res, "menu item", id)
}

// SetFeatured changes only the is_featured column of an item.
func (s *SQLiteStore) SetFeatured(ctx context.Context, id int64, featured bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE menu_items SET is_featured = ? WHERE id = ?`, storage.BoolInt(featured), id)
	if err != nil {
		return fmt.Errorf("update menu item featured: %w", err)
	}
	return storage.RequireAffected(res, "menu item", id)
}

// List returns items matching the filter, newest first.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Item, error) {
	w := where(filter)
	query := selectItem + w.SQL() + ` ORDER BY m.created_at DESC, m.id DESC`
	args := w.Args()
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Count returns the number of items matching the filter.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	w := where(filter)
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_items m`+w.SQL(), w.Args()...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count menu items: %w", err)
	}
	return n, nil
}

// CreateCategory inserts a category and returns its ID.
func (s *SQLiteStore) CreateCategory(ctx context.Context, c domain.Category) (int64, error) {
	status := c.Status
	if status == "" {
		status = domain.StatusActive
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO categories (name, status) VALUES (?, ?)`, c.Name, status)
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return res.LastInsertId()
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	var c domain.Category
	err := s.db.QueryRowContext(ctx, `SELECT id, name, status FROM categories WHERE id = ?`, id).Scan(&c.ID, &c.Name, &c.Status)
	return c, storage.NotFound(err, "category", id)
}

// ListCategories returns every category ordered by name.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, status FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Status); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// SetCategoryStatus changes only the status column of a category.
func (s *SQLiteStore) SetCategoryStatus(ctx context.Context, id int64, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE categories SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update category status: %w", err)
	}
	return storage.RequireAffected(res, "category", id)
}

func where(f ListFilter) *storage.Where {
	return storage.NewWhere().
		EqInt("m.category_id", f.CategoryID).
		Eq("m.status", f.Status).
		Like(f.Search, "m.name", "m.description")
}

func scanItem(row storage.Scanner) (domain.Item, error) {
	var item domain.Item
	var price, createdAt, updatedAt string
	var available, featured int
	if err := row.Scan(&item.ID, &item.Name, &item.Description, &price, &item.Image, &item.CategoryID,
		&item.CategoryName, &available, &featured, &item.Status, &createdAt, &updatedAt); err != nil {
		return domain.Item{}, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return domain.Item{}, fmt.Errorf("menu item %d price %q: %w", item.ID, price, err)
	}
	item.Price = p
	item.IsAvailable = available == 1
	item.IsFeatured = featured == 1
	item.CreatedAt = storage.ParseTime(createdAt)
	item.UpdatedAt = storage.ParseTime(updatedAt)
	return item, nil
}

var _ Store = (*SQLiteStore)(nil)
