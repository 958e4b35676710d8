package notification

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrNotOwner = errors.New("notification does not belong to this user")
)

// Notification is an in-app message addressed to one back-office user.
type Notification struct {
	ID        int64
	UserID    int64
	Title     string
	Message   string
	Type      string
	Link      string
	IsRead    bool
	ReadAt    time.Time
	CreatedAt time.Time
}

// BelongsTo reports whether the notification is addressed to userID.
func (n *Notification) BelongsTo(userID int64) bool {
	return n.UserID == userID
}

// MarkRead records that the owner has seen the notification.
// Marking an already-read notification keeps the first ReadAt.
// PRE: userID owns the notification
// POST: IsRead is true
func (n *Notification) MarkRead(userID int64, now time.Time) error {
	if !n.BelongsTo(userID) {
		return ErrNotOwner
	}
	if n.IsRead {
		return nil
	}
	n.IsRead = true
	n.ReadAt = now
	return nil
}
