package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"backoffice/internal/adapters/storage"
	"backoffice/internal/application/projections"
	"backoffice/internal/domain/outbox"
)

// perfWindow is how far back /admin/perf looks by default.
const perfWindow = time.Hour

// handleAdminPerf handles GET /admin/perf: request, query and background job
// timings. ?minutes= narrows or widens the window (1 to 1440).
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		writeJSON(w, http.StatusServiceUnavailable, jsonResponse{Message: "Performance collection is disabled"})
		return
	}
	window := perfWindow
	if n, err := strconv.Atoi(r.URL.Query().Get("minutes")); err == nil && n > 0 && n <= 1440 {
		window = time.Duration(n) * time.Minute
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		Success: true,
		Message: "ok",
		Result:  perfCollector.Snapshot(timeNow().Add(-window), 10),
	})
}

// handleAdminOutbox handles GET /admin/outbox: recent background jobs and
// failed campaign sends.
func handleAdminOutbox(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryListOutbox(r.Context(), projections.ListOutboxDeps{
		OutboxStore: stores.OutboxStore,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, jsonResponse{Message: publicMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{Success: true, Message: "ok", Result: result})
}

// outboxActionStatus maps a retry or abandon failure to its HTTP status.
func outboxActionStatus(err error) (int, string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "Entry not found"
	case errors.Is(err, outbox.ErrTerminal):
		return http.StatusConflict, sentence(outbox.ErrTerminal.Error())
	}
	return http.StatusInternalServerError, publicMessage(err)
}

// handleAdminOutboxRetry handles POST /admin/outbox/retry (id): runs one
// entry now, ignoring backoff.
func handleAdminOutboxRetry(w http.ResponseWriter, r *http.Request) {
	if outboxProcessor == nil {
		writeJSON(w, http.StatusServiceUnavailable, jsonResponse{Message: "Background worker is not running"})
		return
	}
	id := r.FormValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Message: "Entry ID is required"})
		return
	}
	if err := outboxProcessor.ProcessSingle(r.Context(), id); err != nil {
		status, msg := outboxActionStatus(err)
		writeJSON(w, status, jsonResponse{Message: msg})
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{Success: true, Message: "Retry triggered"})
}

// handleAdminOutboxAbandon handles POST /admin/outbox/abandon (id).
func handleAdminOutboxAbandon(w http.ResponseWriter, r *http.Request) {
	if outboxProcessor == nil {
		writeJSON(w, http.StatusServiceUnavailable, jsonResponse{Message: "Background worker is not running"})
		return
	}
	id := r.FormValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Message: "Entry ID is required"})
		return
	}
	if err := outboxProcessor.AbandonEntry(r.Context(), id); err != nil {
		status, msg := outboxActionStatus(err)
		writeJSON(w, status, jsonResponse{Message: msg})
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{Success: true, Message: "Entry abandoned"})
}
