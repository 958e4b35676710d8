package projections

import (
	"context"
	"time"

	"backoffice/internal/adapters/storage/newsletter"
	"backoffice/internal/application/listutil"
	domainNewsletter "backoffice/internal/domain/newsletter"
)

// SubscriberFilterKeys are the query parameters the subscriber list understands.
var SubscriberFilterKeys = []string{"status"}

// RecentCampaigns bounds the campaign list.
const RecentCampaigns = 50

// ListSubscribersQuery carries the parsed list request.
type ListSubscribersQuery struct {
	Params listutil.ListParams
	Now    time.Time // anchors the "this month" counter
}

// ListSubscribersDeps holds dependencies for ListSubscribers.
type ListSubscribersDeps struct {
	NewsletterStore NewsletterStore
}

// ListSubscribersResult carries one page of subscribers plus the summary cards.
type ListSubscribersResult struct {
	Subscribers []domainNewsletter.Subscriber
	Stats       domainNewsletter.Stats
	Page        listutil.PageInfo
	Params      listutil.ListParams
}

// QueryListSubscribers returns one page of subscribers and the list statistics.
// An unknown status filter is treated as "all".
func QueryListSubscribers(ctx context.Context, query ListSubscribersQuery, deps ListSubscribersDeps) (ListSubscribersResult, error) {
	status := query.Params.Get("status")
	if status != newsletter.FilterActive && status != newsletter.FilterUnsubscribed {
		status = ""
	}
	filter := newsletter.SubscriberFilter{Status: status, Search: query.Params.Search}

	subs, page, err := paginate(ctx, query.Params.Page, listutil.PerPageSubscribers,
		func(ctx context.Context) (int, error) { return deps.NewsletterStore.CountSubscribers(ctx, filter) },
		func(ctx context.Context, limit, offset int) ([]domainNewsletter.Subscriber, error) {
			f := filter
			f.Limit, f.Offset = limit, offset
			return deps.NewsletterStore.ListSubscribers(ctx, f)
		})
	if err != nil {
		return ListSubscribersResult{}, err
	}

	now := query.Now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	stats, err := deps.NewsletterStore.Stats(ctx, monthStart)
	if err != nil {
		return ListSubscribersResult{}, err
	}
	return ListSubscribersResult{Subscribers: subs, Stats: stats, Page: page, Params: query.Params}, nil
}

// ListCampaignsDeps holds dependencies for ListCampaigns.
type ListCampaignsDeps struct {
	NewsletterStore NewsletterStore
}

// ListCampaignsResult carries recent campaigns and the audience size.
type ListCampaignsResult struct {
	Campaigns         []domainNewsletter.Campaign
	ActiveSubscribers int
}

// QueryListCampaigns returns the newest campaigns with the current active audience.
func QueryListCampaigns(ctx context.Context, deps ListCampaignsDeps) (ListCampaignsResult, error) {
	campaigns, err := deps.NewsletterStore.ListCampaigns(ctx, RecentCampaigns)
	if err != nil {
		return ListCampaignsResult{}, err
	}
	active, err := deps.NewsletterStore.CountSubscribers(ctx, newsletter.SubscriberFilter{Status: newsletter.FilterActive})
	if err != nil {
		return ListCampaignsResult{}, err
	}
	return ListCampaignsResult{Campaigns: campaigns, ActiveSubscribers: active}, nil
}
