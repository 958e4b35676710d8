package projections

import (
	"context"
	"fmt"

	"backoffice/internal/adapters/storage/activity"
	"backoffice/internal/adapters/storage/ambassador"
	"backoffice/internal/adapters/storage/menu"
	"backoffice/internal/adapters/storage/newsletter"
	"backoffice/internal/adapters/storage/users"
	domainActivity "backoffice/internal/domain/activity"
	domainAmbassador "backoffice/internal/domain/ambassador"
	domainNotification "backoffice/internal/domain/notification"
)

// Dashboard list sizes.
const (
	DashboardRecentActivity = 10
	DashboardNotifications  = 5
)

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	UserID int64 // signed-in admin; scopes notifications
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	MenuStore         MenuStore
	UserStore         UserStore
	AmbassadorStore   AmbassadorStore
	NewsletterStore   NewsletterStore
	NotificationStore NotificationStore
	ActivityStore     ActivityStore
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	MenuItems           int
	Users               int
	PendingAmbassadors  int
	ActiveSubscribers   int
	UnreadNotifications int
	Notifications       []domainNotification.Notification
	RecentActivity      []domainActivity.Entry
}

// QueryGetDashboard gathers the counters and recent rows shown on the admin home page.
// PRE: query.UserID identifies the signed-in user
// POST: RecentActivity holds at most DashboardRecentActivity entries, newest first
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	var res DashboardResult
	var err error

	if res.MenuItems, err = deps.MenuStore.Count(ctx, menu.ListFilter{}); err != nil {
		return DashboardResult{}, fmt.Errorf("count menu items: %w", err)
	}
	if res.Users, err = deps.UserStore.Count(ctx, users.ListFilter{}); err != nil {
		return DashboardResult{}, fmt.Errorf("count users: %w", err)
	}
	if res.PendingAmbassadors, err = deps.AmbassadorStore.Count(ctx, ambassador.ListFilter{Status: domainAmbassador.StatusPending}); err != nil {
		return DashboardResult{}, fmt.Errorf("count pending applications: %w", err)
	}
	if res.ActiveSubscribers, err = deps.NewsletterStore.CountSubscribers(ctx, newsletter.SubscriberFilter{Status: newsletter.FilterActive}); err != nil {
		return DashboardResult{}, fmt.Errorf("count subscribers: %w", err)
	}
	if res.UnreadNotifications, err = deps.NotificationStore.CountUnread(ctx, query.UserID); err != nil {
		return DashboardResult{}, fmt.Errorf("count notifications: %w", err)
	}
	if res.Notifications, err = deps.NotificationStore.ListForUser(ctx, query.UserID, DashboardNotifications); err != nil {
		return DashboardResult{}, fmt.Errorf("list notifications: %w", err)
	}
	if res.RecentActivity, err = deps.ActivityStore.List(ctx, activity.ListFilter{Limit: DashboardRecentActivity}); err != nil {
		return DashboardResult{}, fmt.Errorf("list recent activity: %w", err)
	}
	return res, nil
}
