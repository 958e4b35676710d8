package activity

import (
	"context"

	domain "backoffice/internal/domain/activity"
)

// ListFilter holds filtering and paging options for the activity log.
type ListFilter struct {
	Type   string
	From   string // YYYY-MM-DD, inclusive
	To     string // YYYY-MM-DD, inclusive
	Search string // matches description or actor name
	Limit  int
	Offset int
}

// Store defines the interface for the append-only activity log.
type Store interface {
	// Append inserts one entry and returns its ID. Entries are never updated.
	Append(ctx context.Context, e domain.Entry) (int64, error)

	// List returns entries matching the filter with actor names, newest first.
	List(ctx context.Context, filter ListFilter) ([]domain.Entry, error)

	// Count returns the number of entries matching the filter.
	Count(ctx context.Context, filter ListFilter) (int, error)
}
