package blog

import (
	"context"

	domain "backoffice/internal/domain/blog"
)

// ListFilter holds filtering and paging options for listing posts.
type ListFilter struct {
	Status string
	Search string // matches title, author or content
	Limit  int
	Offset int
}

// Store defines the interface for blog post persistence.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Post, error)
	Create(ctx context.Context, p domain.Post) (int64, error)
	// Update writes the full row.
	Update(ctx context.Context, p domain.Post) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListFilter) ([]domain.Post, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}
