package ambassador

import (
	"context"
	"time"

	domain "backoffice/internal/domain/ambassador"
)

// ListFilter holds filtering and paging options for listing applications.
type ListFilter struct {
	Status string
	Search string // matches name, email or phone
	Limit  int
	Offset int
}

// Store defines the interface for ambassador application persistence.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Application, error)
	// Create inserts an application and returns its ID.
	Create(ctx context.Context, a domain.Application) (int64, error)
	// SetStatus records a decision on a pending application.
	SetStatus(ctx context.Context, id int64, status string, reviewedAt time.Time) error
	List(ctx context.Context, filter ListFilter) ([]domain.Application, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}
