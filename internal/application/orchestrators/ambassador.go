package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"backoffice/internal/domain/activity"
	"backoffice/internal/domain/ambassador"
)

// AmbassadorStoreForOrchestrator defines the store interface needed by DecideApplication.
type AmbassadorStoreForOrchestrator interface {
	GetByID(ctx context.Context, id int64) (ambassador.Application, error)
	SetStatus(ctx context.Context, id int64, status string, reviewedAt time.Time) error
}

// DecideApplicationInput carries an approve or reject decision.
type DecideApplicationInput struct {
	Actor    Actor
	ID       int64
	Decision string // ambassador.StatusApproved or StatusRejected
}

// DecideApplicationDeps holds dependencies for DecideApplication.
type DecideApplicationDeps struct {
	AmbassadorStore AmbassadorStoreForOrchestrator
	Activity        ActivityDeps
	Now             func() time.Time
}

// DecideApplicationResult reports the application after the decision.
type DecideApplicationResult struct {
	Application ambassador.Application
	Changed     bool // false when the same decision was already recorded
}

// ExecuteDecideApplication approves or rejects a pending application.
// Repeating the recorded decision writes nothing and logs no activity.
// POST: ErrAlreadyDecided when reversing a terminal decision
func ExecuteDecideApplication(ctx context.Context, input DecideApplicationInput, deps DecideApplicationDeps) (DecideApplicationResult, error) {
	app, err := deps.AmbassadorStore.GetByID(ctx, input.ID)
	if err != nil {
		return DecideApplicationResult{}, err
	}
	changed, err := app.Decide(input.Decision, deps.Now())
	if err != nil {
		return DecideApplicationResult{}, err
	}
	if !changed {
		return DecideApplicationResult{Application: app}, nil
	}
	if err := deps.AmbassadorStore.SetStatus(ctx, app.ID, app.Status, app.ReviewedAt); err != nil {
		// Another admin decided first; agreeing with them is still a no-op.
		if errors.Is(err, ambassador.ErrAlreadyDecided) {
			if current, getErr := deps.AmbassadorStore.GetByID(ctx, app.ID); getErr == nil && current.Status == input.Decision {
				return DecideApplicationResult{Application: current}, nil
			}
		}
		return DecideApplicationResult{}, err
	}

	slog.Info("ambassador_event", "event", "application_decided", "application_id", app.ID, "status", app.Status)
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       input.Actor,
		Type:        activity.TypeAmbassador,
		Action:      activity.ActionStatus,
		Description: fmt.Sprintf("Ambassador application from %s %s", app.Name, app.Status),
		EntityType:  activity.TypeAmbassador,
		EntityID:    app.ID,
	})
	return DecideApplicationResult{Application: app, Changed: true}, nil
}
