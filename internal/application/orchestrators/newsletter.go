package orchestrators

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"backoffice/internal/adapters/storage"
	newsletterStore "backoffice/internal/adapters/storage/newsletter"
	"backoffice/internal/domain/activity"
	"backoffice/internal/domain/newsletter"
	"backoffice/internal/domain/outbox"
)

// NewsletterStoreForOrchestrator defines the store interface needed by newsletter orchestrators.
type NewsletterStoreForOrchestrator interface {
	GetSubscriberByEmail(ctx context.Context, email string) (newsletter.Subscriber, error)
	SaveSubscriberStatus(ctx context.Context, s newsletter.Subscriber) error
	ListSubscribers(ctx context.Context, filter newsletterStore.SubscriberFilter) ([]newsletter.Subscriber, error)
	CountSubscribers(ctx context.Context, filter newsletterStore.SubscriberFilter) (int, error)
	CreateCampaign(ctx context.Context, c newsletter.Campaign) (int64, error)
	GetCampaign(ctx context.Context, id int64) (newsletter.Campaign, error)
	SaveCampaignState(ctx context.Context, c newsletter.Campaign) error
}

// OutboxWriter is the store interface needed to enqueue background jobs.
type OutboxWriter interface {
	Save(ctx context.Context, e outbox.Entry) error
}

// NewsletterDeps holds dependencies for the newsletter orchestrators.
type NewsletterDeps struct {
	NewsletterStore NewsletterStoreForOrchestrator
	OutboxStore     OutboxWriter
	Activity        ActivityDeps
	GenerateID      func() string
	Now             func() time.Time
}

// ErrSubscriberNotFound is returned when unsubscribing an unknown address.
var ErrSubscriberNotFound = errors.New("no subscriber with that email")

// UnsubscribeInput carries the address to deactivate.
type UnsubscribeInput struct {
	Actor Actor
	Email string
}

// ExecuteUnsubscribe deactivates a subscriber. Rows are kept for history.
// POST: is_active false and unsubscribed_at stamped; ErrAlreadyUnsubscribe on repeat
func ExecuteUnsubscribe(ctx context.Context, input UnsubscribeInput, deps NewsletterDeps) (newsletter.Subscriber, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return newsletter.Subscriber{}, ErrSubscriberNotFound
	}
	sub, err := deps.NewsletterStore.GetSubscriberByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return newsletter.Subscriber{}, ErrSubscriberNotFound
	}
	if err != nil {
		return newsletter.Subscriber{}, err
	}
	if err := sub.Unsubscribe(deps.Now()); err != nil {
		return newsletter.Subscriber{}, err
	}
	if err := deps.NewsletterStore.SaveSubscriberStatus(ctx, sub); err != nil {
		return newsletter.Subscriber{}, err
	}

	slog.Info("newsletter_event", "event", "subscriber_unsubscribed", "subscriber_id", sub.ID)
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       input.Actor,
		Type:        activity.TypeNewsletter,
		Action:      activity.ActionUpdate,
		Description: "Unsubscribed " + sub.Email + " from the newsletter",
		EntityType:  activity.TypeNewsletter,
		EntityID:    sub.ID,
	})
	return sub, nil
}

// ExportHeader is the first CSV row of a subscriber export.
var ExportHeader = []string{"Email", "Subscription Date", "Signup Date"}

// ExecuteExportSubscribers writes every active subscriber as CSV, newest signup first.
// POST: returns the number of data rows written
func ExecuteExportSubscribers(ctx context.Context, w io.Writer, actor Actor, deps NewsletterDeps) (int, error) {
	subs, err := deps.NewsletterStore.ListSubscribers(ctx, newsletterStore.SubscriberFilter{Status: newsletterStore.FilterActive})
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return 0, err
	}
	for _, s := range subs {
		if err := cw.Write([]string{s.Email, storage.FormatTime(s.SubscriptionDate), storage.FormatTime(s.CreatedAt)}); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	slog.Info("newsletter_event", "event", "subscribers_exported", "rows", len(subs))
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       actor,
		Type:        activity.TypeNewsletter,
		Action:      activity.ActionExport,
		Description: fmt.Sprintf("Exported %d newsletter subscribers", len(subs)),
	})
	return len(subs), nil
}

// CreateCampaignInput carries a new campaign draft.
type CreateCampaignInput struct {
	Actor   Actor
	Subject string
	Content string
}

// ExecuteCreateCampaign stores a draft campaign.
func ExecuteCreateCampaign(ctx context.Context, input CreateCampaignInput, deps NewsletterDeps) (newsletter.Campaign, error) {
	now := deps.Now()
	c := newsletter.Campaign{
		Subject:   strings.TrimSpace(input.Subject),
		Content:   input.Content,
		Status:    newsletter.CampaignDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return newsletter.Campaign{}, err
	}
	id, err := deps.NewsletterStore.CreateCampaign(ctx, c)
	if err != nil {
		return newsletter.Campaign{}, err
	}
	c.ID = id

	slog.Info("newsletter_event", "event", "campaign_created", "campaign_id", c.ID)
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       input.Actor,
		Type:        activity.TypeNewsletter,
		Action:      activity.ActionCreate,
		Description: "Created newsletter campaign: " + c.Subject,
		EntityType:  activity.TypeNewsletter,
		EntityID:    c.ID,
	})
	return c, nil
}

// CampaignPayload is the outbox payload for a newsletter send.
type CampaignPayload struct {
	CampaignID int64  `json:"campaign_id"`
	TrackingID string `json:"tracking_id"`
}

// SendCampaignInput asks for a campaign to be sent.
type SendCampaignInput struct {
	Actor      Actor
	CampaignID int64
}

// ExecuteEnqueueCampaignSend marks a draft campaign as sending and queues the
// delivery job. It returns as soon as the job is stored.
// PRE: campaign is a draft and at least one subscriber is active
// POST: campaign status sending with a tracking ID; one pending outbox entry; returns the tracking ID
func ExecuteEnqueueCampaignSend(ctx context.Context, input SendCampaignInput, deps NewsletterDeps) (string, error) {
	c, err := deps.NewsletterStore.GetCampaign(ctx, input.CampaignID)
	if err != nil {
		return "", err
	}
	active, err := deps.NewsletterStore.CountSubscribers(ctx, newsletterStore.SubscriberFilter{Status: newsletterStore.FilterActive})
	if err != nil {
		return "", err
	}
	if active == 0 {
		return "", newsletter.ErrNoRecipients
	}

	now := deps.Now()
	trackingID := deps.GenerateID()
	draft := c
	if err := c.StartSending(trackingID, now); err != nil {
		return "", err
	}

	payload, err := json.Marshal(CampaignPayload{CampaignID: c.ID, TrackingID: trackingID})
	if err != nil {
		return "", err
	}
	entry, err := outbox.NewEntry(deps.GenerateID(), outbox.ActionNewsletterCampaign, string(payload), 1, now)
	if err != nil {
		return "", err
	}

	if err := deps.NewsletterStore.SaveCampaignState(ctx, c); err != nil {
		return "", err
	}
	if err := deps.OutboxStore.Save(ctx, entry); err != nil {
		if rbErr := deps.NewsletterStore.SaveCampaignState(ctx, draft); rbErr != nil {
			slog.Error("newsletter_event", "event", "campaign_revert_failed", "campaign_id", c.ID, "error", rbErr)
		}
		return "", fmt.Errorf("enqueue campaign send: %w", err)
	}

	slog.Info("newsletter_event", "event", "campaign_queued", "campaign_id", c.ID, "tracking_id", trackingID, "recipients", active)
	RecordActivity(ctx, deps.Activity, ActivityInput{
		Actor:       input.Actor,
		Type:        activity.TypeNewsletter,
		Action:      activity.ActionSend,
		Description: fmt.Sprintf("Queued newsletter \"%s\" for %d subscribers", c.Subject, active),
		EntityType:  activity.TypeNewsletter,
		EntityID:    c.ID,
	})
	return trackingID, nil
}
