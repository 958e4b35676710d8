package newsletter

import (
	"errors"
	"strings"
	"time"
)

// Campaign status constants.
const (
	CampaignDraft     = "draft"
	CampaignSending   = "sending"
	CampaignSent      = "sent"
	CampaignCancelled = "cancelled"
)

// MaxSubjectLength bounds a campaign subject line.
const MaxSubjectLength = 200

// Domain errors
var (
	ErrEmptySubject       = errors.New("subject is required")
	ErrSubjectTooLong     = errors.New("subject cannot exceed 200 characters")
	ErrEmptyContent       = errors.New("content is required")
	ErrNotDraft           = errors.New("only draft campaigns can be sent")
	ErrNotSending         = errors.New("campaign is not being sent")
	ErrNoRecipients       = errors.New("there are no active subscribers")
	ErrAlreadyUnsubscribe = errors.New("subscriber is already unsubscribed")
)

// Subscriber is one newsletter signup. Rows are never hard-deleted.
type Subscriber struct {
	ID               int64
	Email            string
	SubscriptionDate time.Time
	CreatedAt        time.Time
	IsActive         bool
	UnsubscribedAt   time.Time
}

// Unsubscribe deactivates the subscriber.
// PRE: subscriber is active
// POST: IsActive is false and UnsubscribedAt is now
func (s *Subscriber) Unsubscribe(now time.Time) error {
	if !s.IsActive {
		return ErrAlreadyUnsubscribe
	}
	s.IsActive = false
	s.UnsubscribedAt = now
	return nil
}

// Stats summarises the subscriber list for the dashboard cards.
type Stats struct {
	Total        int
	Active       int
	Unsubscribed int
	ThisMonth    int
}

// Campaign is a single newsletter send to the active subscriber list.
type Campaign struct {
	ID              int64
	Subject         string
	Content         string // HTML body
	Status          string
	SentAt          time.Time
	TotalRecipients int
	SentCount       int
	TrackingID      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks if the Campaign has valid data.
// PRE: Campaign struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Campaign) Validate() error {
	subject := strings.TrimSpace(c.Subject)
	if subject == "" {
		return ErrEmptySubject
	}
	if len(subject) > MaxSubjectLength {
		return ErrSubjectTooLong
	}
	if strings.TrimSpace(c.Content) == "" {
		return ErrEmptyContent
	}
	return nil
}

// StartSending moves a draft campaign into the sending state.
// PRE: Status is draft
// POST: Status is sending, TrackingID is set
func (c *Campaign) StartSending(trackingID string, now time.Time) error {
	if c.Status != CampaignDraft {
		return ErrNotDraft
	}
	c.Status = CampaignSending
	c.TrackingID = trackingID
	c.UpdatedAt = now
	return nil
}

// MarkSent records a completed send with its counters.
// PRE: Status is sending
// POST: Status is sent; SentAt, TotalRecipients, SentCount set together
func (c *Campaign) MarkSent(total, sent int, now time.Time) error {
	if c.Status != CampaignSending {
		return ErrNotSending
	}
	c.Status = CampaignSent
	c.SentAt = now
	c.TotalRecipients = total
	c.SentCount = sent
	c.UpdatedAt = now
	return nil
}

// MarkCancelled records a failed send. Cancelled is terminal.
// PRE: Status is sending
// POST: Status is cancelled
func (c *Campaign) MarkCancelled(now time.Time) error {
	if c.Status != CampaignSending {
		return ErrNotSending
	}
	c.Status = CampaignCancelled
	c.UpdatedAt = now
	return nil
}

// IsTerminal reports whether the campaign can no longer change.
func (c *Campaign) IsTerminal() bool {
	return c.Status == CampaignSent || c.Status == CampaignCancelled
}
