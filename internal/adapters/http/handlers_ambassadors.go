package web

import (
	"errors"
	"fmt"
	"net/http"

	"backoffice/internal/adapters/http/middleware"
	"backoffice/internal/adapters/storage"
	"backoffice/internal/application/listutil"
	"backoffice/internal/application/orchestrators"
	"backoffice/internal/application/projections"
)

// handleAmbassadors renders GET /admin/ambassadors
func handleAmbassadors(w http.ResponseWriter, r *http.Request) {
	params := listutil.ParseListParams(r.URL.Query(), projections.AmbassadorFilterKeys...)
	result, err := projections.QueryListAmbassadors(r.Context(), projections.ListAmbassadorsQuery{Params: params}, projections.ListAmbassadorsDeps{
		AmbassadorStore: stores.AmbassadorStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "ambassadors_list.html", map[string]any{
		"Title":  "Ambassador Applications",
		"Result": result,
	})
}

// handleAmbassadorView renders GET /admin/ambassadors/view?id=
func handleAmbassadorView(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.URL.Query().Get("id"))
	if !ok {
		http.Error(w, "Invalid application ID", http.StatusBadRequest)
		return
	}
	app, err := stores.AmbassadorStore.GetByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "Application not found", http.StatusNotFound)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "ambassador_view.html", map[string]any{
		"Title":       "Application from " + app.Name,
		"Application": &app,
	})
}

// handleAmbassadorDecide handles POST /admin/ambassadors/decide. Repeating a
// decision is accepted and changes nothing.
func handleAmbassadorDecide(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.FormValue("id"))
	if !ok {
		redirectWith(w, r, middleware.FlashError, "Invalid application.", "/admin/ambassadors")
		return
	}
	back := fmt.Sprintf("/admin/ambassadors/view?id=%d", id)
	result, err := orchestrators.ExecuteDecideApplication(r.Context(), orchestrators.DecideApplicationInput{
		Actor:    actor(r),
		ID:       id,
		Decision: r.FormValue("decision"),
	}, orchestrators.DecideApplicationDeps{
		AmbassadorStore: stores.AmbassadorStore,
		Activity:        orchestrators.ActivityDeps{Store: stores.ActivityStore, Now: timeNow},
		Now:             timeNow,
	})
	if err != nil {
		redirectWith(w, r, middleware.FlashError, publicMessage(err), back)
		return
	}
	if !result.Changed {
		redirectWith(w, r, middleware.FlashSuccess, "Application was already "+result.Application.Status+".", back)
		return
	}
	redirectWith(w, r, middleware.FlashSuccess, "Application "+result.Application.Status+" successfully.", back)
}
