package newsletter

import (
	"context"
	"time"

	domain "backoffice/internal/domain/newsletter"
)

// Subscriber list status filters.
const (
	FilterActive       = "active"
	FilterUnsubscribed = "unsubscribed"
)

// SubscriberFilter holds filtering and paging options for listing subscribers.
type SubscriberFilter struct {
	Status string // "", FilterActive or FilterUnsubscribed
	Search string // matches email
	Limit  int
	Offset int
}

// Store defines the interface for newsletter persistence.
type Store interface {
	// Subscribe inserts a subscriber, or reactivates an unsubscribed one.
	Subscribe(ctx context.Context, email string, now time.Time) (int64, error)

	// GetSubscriberByEmail retrieves a subscriber by email.
	GetSubscriberByEmail(ctx context.Context, email string) (domain.Subscriber, error)

	// SaveSubscriberStatus writes is_active and unsubscribed_at.
	SaveSubscriberStatus(ctx context.Context, s domain.Subscriber) error

	// ListSubscribers returns subscribers matching the filter, newest signup first.
	ListSubscribers(ctx context.Context, filter SubscriberFilter) ([]domain.Subscriber, error)

	// CountSubscribers returns the number of subscribers matching the filter.
	CountSubscribers(ctx context.Context, filter SubscriberFilter) (int, error)

	// Stats summarises the list; ThisMonth counts signups on or after monthStart.
	Stats(ctx context.Context, monthStart time.Time) (domain.Stats, error)

	// CreateCampaign inserts a campaign and returns its ID.
	CreateCampaign(ctx context.Context, c domain.Campaign) (int64, error)

	// GetCampaign retrieves a campaign by ID.
	GetCampaign(ctx context.Context, id int64) (domain.Campaign, error)

	// SaveCampaignState writes status, sent_at, counters, tracking id and updated_at in one statement.
	SaveCampaignState(ctx context.Context, c domain.Campaign) error

	// ListCampaigns returns campaigns, newest first.
	ListCampaigns(ctx context.Context, limit int) ([]domain.Campaign, error)
}
