package web

import (
	"errors"
	"net/http"

	"backoffice/internal/adapters/http/middleware"
	"backoffice/internal/application/orchestrators"
)

type markReadForm struct {
	NotificationID int64 `label:"Notification ID" validate:"gt=0"`
}

// handleMarkNotificationRead handles POST /admin/notifications/read (JSON).
// Only a notification owned by the signed-in admin is marked read.
func handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, jsonResponse{Message: "Unauthorized"})
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Message: "Invalid request"})
		return
	}
	id, _ := parseID(r.FormValue("notification_id"))
	form := markReadForm{NotificationID: id}
	if err := validate.Struct(form); err != nil {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Message: "Invalid notification ID"})
		return
	}

	count, err := orchestrators.ExecuteMarkNotificationRead(r.Context(), orchestrators.MarkNotificationReadInput{
		UserID:         sess.UserID,
		NotificationID: form.NotificationID,
	}, orchestrators.MarkNotificationReadDeps{
		NotificationStore: stores.NotificationStore,
		Now:               timeNow,
	})
	if errors.Is(err, orchestrators.ErrNotificationNotFound) {
		writeJSON(w, http.StatusNotFound, jsonResponse{Message: "Notification not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, jsonResponse{Message: publicMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		Success:  true,
		Message:  "Notification marked as read",
		NewCount: &count,
	})
}
