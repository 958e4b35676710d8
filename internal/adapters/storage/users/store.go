package users

import (
	"context"

	domain "backoffice/internal/domain/user"
)

// ListFilter holds filtering and paging options for listing users.
type ListFilter struct {
	Role   string
	Status string
	Search string // matches name, email or phone
	Limit  int
	Offset int
}

// Store defines the interface for user persistence.
type Store interface {
	// GetByID retrieves a user by ID.
	// POST: Returns storage.ErrNotFound (wrapped) if absent
	GetByID(ctx context.Context, id int64) (domain.User, error)

	// GetByEmail retrieves a user by email (case-insensitive).
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// Create inserts a user and returns its ID.
	// PRE: u has been validated
	// POST: Returns domain.ErrEmailTaken if the email exists
	Create(ctx context.Context, u domain.User) (int64, error)

	// Update writes every editable column of an existing user.
	Update(ctx context.Context, u domain.User) error

	// SetStatus changes only the status column.
	SetStatus(ctx context.Context, id int64, status string) error

	// Delete removes a user.
	Delete(ctx context.Context, id int64) error

	// List returns users matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]domain.User, error)

	// Count returns the number of users matching the filter, ignoring Limit and Offset.
	Count(ctx context.Context, filter ListFilter) (int, error)
}
