package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "backoffice/internal/adapters/email"
	newsletterStore "backoffice/internal/adapters/storage/newsletter"
	"backoffice/internal/domain/activity"
	"backoffice/internal/domain/newsletter"
)

// CampaignExecutor delivers a queued newsletter campaign. It is registered
// with the OutboxProcessor under outbox.ActionNewsletterCampaign.
type CampaignExecutor struct {
	Store       NewsletterStoreForOrchestrator
	Sender      emailAdapter.Sender
	FromAddress string
	ReplyTo     string
	Activity    ActivityDeps
	Now         func() time.Time
}

// Execute sends the campaign to every active subscriber and records the outcome.
// PRE: payload is a CampaignPayload; campaign status is sending
// POST: campaign is sent with counters, or cancelled on any delivery failure
func (e *CampaignExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var p CampaignPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("unmarshal campaign payload: %w", err)
	}
	c, err := e.Store.GetCampaign(ctx, p.CampaignID)
	if err != nil {
		return "", err
	}
	if c.Status != newsletter.CampaignSending {
		return "", fmt.Errorf("campaign %d: %w", c.ID, newsletter.ErrNotSending)
	}

	sent, total, err := e.deliver(ctx, c)
	if err != nil {
		e.cancel(ctx, c, err)
		return "", err
	}
	sending := c
	if err := c.MarkSent(total, sent, e.Now()); err != nil {
		return "", err
	}
	if err := e.Store.SaveCampaignState(ctx, c); err != nil {
		// The job is not retried, so the campaign must still leave sending.
		err = fmt.Errorf("save sent campaign: %w", err)
		e.cancel(ctx, sending, err)
		return "", err
	}

	slog.Info("newsletter_event", "event", "campaign_sent", "campaign_id", c.ID, "tracking_id", c.TrackingID, "total", total, "sent", sent)
	RecordActivity(ctx, e.Activity, ActivityInput{
		Type:        activity.TypeNewsletter,
		Action:      activity.ActionSend,
		Description: fmt.Sprintf("Newsletter \"%s\" sent to %d of %d subscribers", c.Subject, sent, total),
		EntityType:  activity.TypeNewsletter,
		EntityID:    c.ID,
	})
	return c.TrackingID, nil
}

func (e *CampaignExecutor) deliver(ctx context.Context, c newsletter.Campaign) (sent, total int, err error) {
	if e.Sender == nil {
		return 0, 0, ErrEmailUnavailable
	}
	subs, err := e.Store.ListSubscribers(ctx, newsletterStore.SubscriberFilter{Status: newsletterStore.FilterActive})
	if err != nil {
		return 0, 0, err
	}
	if len(subs) == 0 {
		return 0, 0, newsletter.ErrNoRecipients
	}
	html, err := renderNewsletter(c.Content)
	if err != nil {
		return 0, 0, fmt.Errorf("render campaign: %w", err)
	}

	reqs := make([]emailAdapter.SendRequest, 0, len(subs))
	for _, s := range subs {
		reqs = append(reqs, emailAdapter.SendRequest{
			To:      []string{s.Email},
			From:    e.FromAddress,
			Subject: c.Subject,
			HTML:    html,
			ReplyTo: e.ReplyTo,
			Tags:    map[string]string{"tracking_id": c.TrackingID},
		})
	}
	results, err := e.Sender.SendBatch(ctx, reqs)
	if err != nil {
		return len(results), len(subs), fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return len(results), len(subs), nil
}

// cancel records a failed send. Cancelled campaigns are not retried.
func (e *CampaignExecutor) cancel(ctx context.Context, c newsletter.Campaign, cause error) {
	if err := c.MarkCancelled(e.Now()); err != nil {
		return
	}
	if err := e.Store.SaveCampaignState(ctx, c); err != nil {
		slog.Error("newsletter_event", "event", "campaign_cancel_save_failed", "campaign_id", c.ID, "error", err)
	}
	slog.Error("newsletter_event", "event", "campaign_cancelled", "campaign_id", c.ID, "tracking_id", c.TrackingID, "error", cause)
	RecordActivity(ctx, e.Activity, ActivityInput{
		Type:        activity.TypeNewsletter,
		Action:      activity.ActionSend,
		Description: fmt.Sprintf("Newsletter \"%s\" failed to send and was cancelled", c.Subject),
		EntityType:  activity.TypeNewsletter,
		EntityID:    c.ID,
	})
}
