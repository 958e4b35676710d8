package web

import (
	"net/http"

	"backoffice/internal/adapters/http/middleware"
	"backoffice/internal/application/listutil"
	"backoffice/internal/application/projections"
)

// handleDashboard renders GET /admin: headline counts, the admin's latest
// notifications and the most recent activity.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{UserID: sess.UserID}, projections.GetDashboardDeps{
		MenuStore:         stores.MenuStore,
		UserStore:         stores.UserStore,
		AmbassadorStore:   stores.AmbassadorStore,
		NewsletterStore:   stores.NewsletterStore,
		NotificationStore: stores.NotificationStore,
		ActivityStore:     stores.ActivityStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "dashboard.html", map[string]any{
		"Title":     "Dashboard",
		"Dashboard": result,
	})
}

// handleActivityLogs renders GET /admin/activity-logs with type, date range and
// free-text filters.
func handleActivityLogs(w http.ResponseWriter, r *http.Request) {
	params := listutil.ParseListParams(r.URL.Query(), projections.ActivityFilterKeys...)
	result, err := projections.QueryListActivity(r.Context(), projections.ListActivityQuery{Params: params}, projections.ListActivityDeps{
		ActivityStore: stores.ActivityStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "activity.html", map[string]any{
		"Title":  "Activity Logs",
		"Result": result,
	})
}
