package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	emailAdapter "backoffice/internal/adapters/email"
	"backoffice/internal/domain/activity"
	"backoffice/internal/domain/order"
)

// Order document errors. ErrEmailUnavailable and ErrSendFailed are kept apart
// so the page can tell a configuration problem from a provider outage.
var (
	ErrEmailUnavailable = errors.New("email service is not configured")
	ErrSendFailed       = errors.New("the email could not be sent")
	ErrInvalidRecipient = errors.New("customer email address is not valid")
)

// OrderReader is the store interface needed to load an order.
type OrderReader interface {
	GetByID(ctx context.Context, id int64) (order.Order, error)
}

// SendOrderDocumentInput carries a request to email an invoice or receipt.
type SendOrderDocumentInput struct {
	Actor         Actor
	Action        string // "send_invoice" or "send_receipt"
	OrderID       int64
	CustomerEmail string // empty uses the address on the order
}

// SendOrderDocumentDeps holds dependencies for SendOrderDocument.
type SendOrderDocumentDeps struct {
	OrderStore  OrderReader
	EmailSender emailAdapter.Sender
	FromAddress string
	ReplyTo     string
	Currency    string
	Activity    ActivityDeps
	Now         func() time.Time
}

// ExecuteSendOrderDocument renders an invoice or receipt from the order's line
// items and emails it to the customer.
// POST: ErrInvalidDocument, storage.ErrNotFound, ErrEmailUnavailable or ErrSendFailed on failure
func ExecuteSendOrderDocument(ctx context.Context, input SendOrderDocumentInput, deps SendOrderDocumentDeps) (emailAdapter.SendResult, error) {
	kind, err := order.ParseDocumentKind(input.Action)
	if err != nil {
		return emailAdapter.SendResult{}, err
	}
	o, err := deps.OrderStore.GetByID(ctx, input.OrderID)
	if err != nil {
		return emailAdapter.SendResult{}, err
	}
	if len(o.Items) == 0 {
		return emailAdapter.SendResult{}, order.ErrNoItems
	}

	to := strings.TrimSpace(input.CustomerEmail)
	if to == "" {
		to = o.CustomerEmail
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return emailAdapter.SendResult{}, ErrInvalidRecipient
	}
	if deps.EmailSender == nil {
		return emailAdapter.SendResult{}, ErrEmailUnavailable
	}

	html, err := RenderOrderDocument(kind, o, deps.Currency)
	if err != nil {
		return emailAdapter.SendResult{}, fmt.Errorf("render %s: %w", kind, err)
	}
	result, err := deps.EmailSender.Send(ctx, emailAdapter.SendRequest{
		To:      []string{to},
		From:    deps.FromAddress,
		Subject: fmt.Sprintf("%s for order %s", kind.Title(), o.OrderNumber),
		HTML:    html,
		ReplyTo: deps.ReplyTo,
	})
	if err != nil {
		slog.Error("order_event", "event", "document_send_failed", "order_id", o.ID, "kind", string(kind), "error", err)
		return emailAdapter.SendResult{}, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	slog.Info("order_event", "event", "document_sent", "order_id", o.ID, "kind", string(kind), "message_id", result.MessageID)
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       input.Actor,
		Type:        activity.TypeEmail,
		Action:      activity.ActionSend,
		Description: fmt.Sprintf("Sent %s for order %s to %s", strings.ToLower(kind.Title()), o.OrderNumber, to),
		EntityType:  activity.TypeOrder,
		EntityID:    o.ID,
	})
	return result, nil
}
