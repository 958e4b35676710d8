package email

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ErrNoRecipients is returned when a request has no To address.
var ErrNoRecipients = errors.New("email has no recipients")

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Sender address (e.g. "Kitchen Admin <orders@example.com>"); empty uses the sender default
	Subject string
	HTML    string // HTML body
	ReplyTo string
	Tags    map[string]string // provider tags, e.g. campaign tracking ID
}

// Validate checks the request has a recipient and a subject.
func (r SendRequest) Validate() error {
	if len(r.To) == 0 {
		return ErrNoRecipients
	}
	if r.Subject == "" {
		return errors.New("email subject is required")
	}
	return nil
}

// tagNames returns tag keys in a stable order.
func (r SendRequest) tagNames() []string {
	names := make([]string, 0, len(r.Tags))
	for k := range r.Tags {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
	SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error)
}
