package projections

import (
	"context"
	"time"

	"backoffice/internal/adapters/storage/activity"
	"backoffice/internal/adapters/storage/ambassador"
	"backoffice/internal/adapters/storage/blog"
	"backoffice/internal/adapters/storage/menu"
	"backoffice/internal/adapters/storage/newsletter"
	"backoffice/internal/adapters/storage/orders"
	"backoffice/internal/adapters/storage/users"
	"backoffice/internal/application/listutil"
	domainActivity "backoffice/internal/domain/activity"
	domainAmbassador "backoffice/internal/domain/ambassador"
	domainBlog "backoffice/internal/domain/blog"
	domainMenu "backoffice/internal/domain/menu"
	domainNewsletter "backoffice/internal/domain/newsletter"
	domainNotification "backoffice/internal/domain/notification"
	domainOrder "backoffice/internal/domain/order"
	domainOutbox "backoffice/internal/domain/outbox"
	domainUser "backoffice/internal/domain/user"
)

// MenuStore interface for menu queries.
type MenuStore interface {
	List(ctx context.Context, filter menu.ListFilter) ([]domainMenu.Item, error)
	Count(ctx context.Context, filter menu.ListFilter) (int, error)
	ListCategories(ctx context.Context) ([]domainMenu.Category, error)
}

// UserStore interface for user queries.
type UserStore interface {
	List(ctx context.Context, filter users.ListFilter) ([]domainUser.User, error)
	Count(ctx context.Context, filter users.ListFilter) (int, error)
}

// ActivityStore interface for activity log queries.
type ActivityStore interface {
	List(ctx context.Context, filter activity.ListFilter) ([]domainActivity.Entry, error)
	Count(ctx context.Context, filter activity.ListFilter) (int, error)
}

// AmbassadorStore interface for ambassador application queries.
type AmbassadorStore interface {
	List(ctx context.Context, filter ambassador.ListFilter) ([]domainAmbassador.Application, error)
	Count(ctx context.Context, filter ambassador.ListFilter) (int, error)
}

// BlogStore interface for blog post queries.
type BlogStore interface {
	List(ctx context.Context, filter blog.ListFilter) ([]domainBlog.Post, error)
	Count(ctx context.Context, filter blog.ListFilter) (int, error)
}

// OrderStore interface for order queries.
type OrderStore interface {
	List(ctx context.Context, filter orders.ListFilter) ([]domainOrder.Order, error)
	Count(ctx context.Context, filter orders.ListFilter) (int, error)
}

// NewsletterStore interface for subscriber and campaign queries.
type NewsletterStore interface {
	ListSubscribers(ctx context.Context, filter newsletter.SubscriberFilter) ([]domainNewsletter.Subscriber, error)
	CountSubscribers(ctx context.Context, filter newsletter.SubscriberFilter) (int, error)
	Stats(ctx context.Context, monthStart time.Time) (domainNewsletter.Stats, error)
	ListCampaigns(ctx context.Context, limit int) ([]domainNewsletter.Campaign, error)
}

// NotificationStore interface for notification queries.
type NotificationStore interface {
	CountUnread(ctx context.Context, userID int64) (int, error)
	ListForUser(ctx context.Context, userID int64, limit int) ([]domainNotification.Notification, error)
}

// OutboxStore interface for the outbox admin view.
type OutboxStore interface {
	ListRecent(ctx context.Context, limit int) ([]domainOutbox.Entry, error)
	ListByActionType(ctx context.Context, actionType, status string, limit int) ([]domainOutbox.Entry, error)
}

// paginate counts matching rows, then loads the requested window.
// A page past the end still reports the true total and returns no rows.
func paginate[T any](ctx context.Context, page, perPage int,
	count func(context.Context) (int, error),
	list func(ctx context.Context, limit, offset int) ([]T, error),
) ([]T, listutil.PageInfo, error) {
	total, err := count(ctx)
	if err != nil {
		return nil, listutil.PageInfo{}, err
	}
	info := listutil.NewPageInfo(page, perPage, total)
	if info.Offset() >= total {
		return nil, info, nil
	}
	rows, err := list(ctx, info.Limit(), info.Offset())
	if err != nil {
		return nil, listutil.PageInfo{}, err
	}
	return rows, info, nil
}
