package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"backoffice/internal/adapters/storage"
)

// ErrNotificationNotFound is returned when the id does not exist for the session user.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationStoreForOrchestrator defines the store interface needed by MarkNotificationRead.
type NotificationStoreForOrchestrator interface {
	MarkRead(ctx context.Context, id, userID int64, at time.Time) error
	CountUnread(ctx context.Context, userID int64) (int, error)
}

// MarkNotificationReadInput identifies the notification and its owner.
type MarkNotificationReadInput struct {
	UserID         int64
	NotificationID int64
}

// MarkNotificationReadDeps holds dependencies for MarkNotificationRead.
type MarkNotificationReadDeps struct {
	NotificationStore NotificationStoreForOrchestrator
	Now               func() time.Time
}

// ExecuteMarkNotificationRead marks one of the user's notifications read and
// returns the user's remaining unread count.
// PRE: UserID > 0
// POST: ErrNotificationNotFound when the notification belongs to someone else or does not exist
func ExecuteMarkNotificationRead(ctx context.Context, input MarkNotificationReadInput, deps MarkNotificationReadDeps) (int, error) {
	if input.UserID <= 0 {
		return 0, errors.New("user ID is required")
	}
	if input.NotificationID <= 0 {
		return 0, ErrNotificationNotFound
	}
	err := deps.NotificationStore.MarkRead(ctx, input.NotificationID, input.UserID, deps.Now())
	if errors.Is(err, storage.ErrNotFound) {
		return 0, ErrNotificationNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("mark notification read: %w", err)
	}
	count, err := deps.NotificationStore.CountUnread(ctx, input.UserID)
	if err != nil {
		return 0, err
	}
	slog.Debug("notification_event", "event", "notification_read", "notification_id", input.NotificationID, "user_id", input.UserID, "unread", count)
	return count, nil
}
