package menu

import (
	"context"

	domain "backoffice/internal/domain/menu"
)

// ListFilter holds filtering and paging options for listing menu items.
type ListFilter struct {
	CategoryID int64
	Status     string
	Search     string // matches name or description
	Limit      int
	Offset     int
}

// Store defines the interface for menu item and category persistence.
type Store interface {
	// GetByID retrieves a menu item with its category name.
	GetByID(ctx context.Context, id int64) (domain.Item, error)

	// Create inserts a menu item and returns its ID.
	// PRE: item has been validated and its category exists
	Create(ctx context.Context, item domain.Item) (int64, error)

	// Update writes every editable column of an existing item.
	Update(ctx context.Context, item domain.Item) error

	// Delete removes an item inside a transaction and returns the deleted row.
	// POST: Nothing is removed if the row does not exist or the commit fails
	Delete(ctx context.Context, id int64) (domain.Item, error)

	// SetStatus changes only the status column of an item.
	SetStatus(ctx context.Context, id int64, status string) error

	// SetFeatured changes only the is_featured column of an item.
	SetFeatured(ctx context.Context, id int64, featured bool) error

	// List returns items matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]domain.Item, error)

	// Count returns the number of items matching the filter.
	Count(ctx context.Context, filter ListFilter) (int, error)

	// CreateCategory inserts a category and returns its ID.
	CreateCategory(ctx context.Context, c domain.Category) (int64, error)

	// GetCategory retrieves a category by ID.
	GetCategory(ctx context.Context, id int64) (domain.Category, error)

	// ListCategories returns every category ordered by name.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// SetCategoryStatus changes only the status column of a category.
	SetCategoryStatus(ctx context.Context, id int64, status string) error
}
