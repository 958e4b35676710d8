package notification

import (
	"context"
	"time"

	domain "backoffice/internal/domain/notification"
)

// Store defines the interface for in-app notification persistence.
type Store interface {
	Create(ctx context.Context, n domain.Notification) (int64, error)
	GetByID(ctx context.Context, id int64) (domain.Notification, error)

	// MarkRead sets is_read for a notification owned by userID.
	// POST: Returns ErrNotFound (wrapped) when id does not exist for that user
	MarkRead(ctx context.Context, id, userID int64, at time.Time) error

	CountUnread(ctx context.Context, userID int64) (int, error)

	// ListForUser returns the newest notifications for userID.
	ListForUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
}
