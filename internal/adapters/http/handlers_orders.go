package web

import (
	"errors"
	"net/http"
	"strings"

	"backoffice/internal/adapters/storage"
	"backoffice/internal/application/listutil"
	"backoffice/internal/application/orchestrators"
	"backoffice/internal/application/projections"
	"backoffice/internal/domain/order"
)

// handleOrders renders GET /admin/orders, the entry point for invoices and receipts.
func handleOrders(w http.ResponseWriter, r *http.Request) {
	params := listutil.ParseListParams(r.URL.Query(), projections.OrderFilterKeys...)
	result, err := projections.QueryListOrders(r.Context(), projections.ListOrdersQuery{Params: params}, projections.ListOrdersDeps{
		OrderStore: stores.OrderStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "orders.html", map[string]any{
		"Title":    "Orders",
		"Result":   result,
		"Statuses": order.ValidStatuses,
	})
}

// sendEmailStatus maps a document send failure to its HTTP status.
func sendEmailStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInvalidDocument), errors.Is(err, order.ErrNoItems),
		errors.Is(err, orchestrators.ErrInvalidRecipient):
		return http.StatusBadRequest
	case errors.Is(err, orchestrators.ErrEmailUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, orchestrators.ErrSendFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// handleSendEmail handles POST /admin/send-email (JSON): renders an invoice or
// receipt for one order and mails it to the customer.
func handleSendEmail(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Message: "Invalid request"})
		return
	}
	orderID, ok := parseID(r.FormValue("order_id"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Message: "Order ID is required"})
		return
	}

	result, err := orchestrators.ExecuteSendOrderDocument(r.Context(), orchestrators.SendOrderDocumentInput{
		Actor:         actor(r),
		Action:        r.FormValue("action"),
		OrderID:       orderID,
		CustomerEmail: r.FormValue("customer_email"),
	}, orchestrators.SendOrderDocumentDeps{
		OrderStore:  stores.OrderStore,
		EmailSender: emailSender,
		FromAddress: emailFromAddress,
		ReplyTo:     emailReplyTo,
		Currency:    currency,
		Activity:    orchestrators.ActivityDeps{Store: stores.ActivityStore, Now: timeNow},
		Now:         timeNow,
	})
	if err != nil {
		msg := publicMessage(err)
		if errors.Is(err, storage.ErrNotFound) {
			msg = "Order not found"
		}
		writeJSON(w, sendEmailStatus(err), jsonResponse{Message: msg})
		return
	}

	kind, _ := order.ParseDocumentKind(r.FormValue("action"))
	writeJSON(w, http.StatusOK, jsonResponse{
		Success: true,
		Message: kind.Title() + " sent successfully",
		Result:  map[string]string{"message_id": strings.TrimSpace(result.MessageID)},
	})
}
