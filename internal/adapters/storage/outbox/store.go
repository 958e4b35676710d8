package outbox

import (
	"context"

	domain "backoffice/internal/domain/outbox"
)

// Store defines the interface for outbox entry persistence.
type Store interface {
	// GetByID retrieves an outbox entry by its ID.
	// POST: Returns ErrNotFound (wrapped) if absent
	GetByID(ctx context.Context, id string) (domain.Entry, error)

	// Save inserts or updates an entry.
	// PRE: entry has been validated
	Save(ctx context.Context, e domain.Entry) error

	// ListPending returns entries the worker may still run (pending or retrying), oldest first.
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)

	// ListRecent returns the newest entries in any state, for the admin view.
	ListRecent(ctx context.Context, limit int) ([]domain.Entry, error)

	// ListByActionType returns entries of one action type, optionally narrowed by status.
	ListByActionType(ctx context.Context, actionType, status string, limit int) ([]domain.Entry, error)
}
