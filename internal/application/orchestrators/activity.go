package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"backoffice/internal/domain/activity"
)

// Actor identifies who performed an action and from where.
type Actor struct {
	UserID int64 // 0 for system jobs
	Name   string
	IP     string
}

// ActivityAppender is the store interface needed to record activity.
type ActivityAppender interface {
	Append(ctx context.Context, e activity.Entry) (int64, error)
}

// ActivityInput carries one audit-trail event.
type ActivityInput struct {
	Actor       Actor
	Type        string
	Action      string
	Description string
	EntityType  string
	EntityID    int64
}

// ActivityDeps holds dependencies for RecordActivity.
type ActivityDeps struct {
	Store ActivityAppender
	Now   func() time.Time
}

// RecordActivity appends one row to the activity log. Failures are logged and
// swallowed: the action being recorded has already happened and must still succeed.
// PRE: input.Type, Action and Description are non-empty
// POST: at most one row is appended; never returns an error
func RecordActivity(ctx context.Context, deps ActivityDeps, input ActivityInput) {
	if deps.Store == nil {
		return
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	e := activity.Entry{
		UserID:      input.Actor.UserID,
		Type:        input.Type,
		Action:      input.Action,
		Description: input.Description,
		EntityType:  input.EntityType,
		EntityID:    input.EntityID,
		IPAddress:   input.Actor.IP,
		CreatedAt:   now(),
	}
	if err := e.Validate(); err != nil {
		slog.Error("activity_log_failed", "type", input.Type, "action", input.Action, "error", err)
		return
	}
	if _, err := deps.Store.Append(ctx, e); err != nil {
		slog.Error("activity_log_failed", "type", input.Type, "action", input.Action, "user_id", input.Actor.UserID, "error", err)
	}
}
