package projections

import (
	"context"
	"errors"
	"time"

	"backoffice/internal/adapters/storage/activity"
	"backoffice/internal/adapters/storage/ambassador"
	"backoffice/internal/adapters/storage/blog"
	"backoffice/internal/adapters/storage/menu"
	"backoffice/internal/adapters/storage/newsletter"
	"backoffice/internal/adapters/storage/orders"
	"backoffice/internal/adapters/storage/users"
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

var errStore = errors.New("store unavailable")

var fixedTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// window slices rows the way a LIMIT/OFFSET query would.
func window[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return nil
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}

type mockMenuStore struct {
	items      []domainMenu.Item
	categories []domainMenu.Category
	lastFilter menu.ListFilter
	listCalls  int
	countErr   error
}

// List returns the seeded items for the requested window.
// POST: lastFilter holds the filter received
func (m *mockMenuStore) List(_ context.Context, f menu.ListFilter) ([]domainMenu.Item, error) {
	m.listCalls++
	m.lastFilter = f
	return window(m.items, f.Limit, f.Offset), nil
}

// Count returns the number of seeded items.
func (m *mockMenuStore) Count(_ context.Context, f menu.ListFilter) (int, error) {
	m.lastFilter = f
	return len(m.items), m.countErr
}

// ListCategories returns the seeded categories.
func (m *mockMenuStore) ListCategories(context.Context) ([]domainMenu.Category, error) {
	return m.categories, nil
}

type mockUserStore struct {
	users      []domainUser.User
	lastFilter users.ListFilter
}

func (m *mockUserStore) List(_ context.Context, f users.ListFilter) ([]domainUser.User, error) {
	m.lastFilter = f
	return window(m.users, f.Limit, f.Offset), nil
}

func (m *mockUserStore) Count(_ context.Context, f users.ListFilter) (int, error) {
	m.lastFilter = f
	return len(m.users), nil
}

type mockActivityStore struct {
	entries    []domainActivity.Entry
	lastFilter activity.ListFilter
	listErr    error
}

func (m *mockActivityStore) List(_ context.Context, f activity.ListFilter) ([]domainActivity.Entry, error) {
	m.lastFilter = f
	if m.listErr != nil {
		return nil, m.listErr
	}
	return window(m.entries, f.Limit, f.Offset), nil
}

func (m *mockActivityStore) Count(_ context.Context, f activity.ListFilter) (int, error) {
	m.lastFilter = f
	return len(m.entries), nil
}

type mockAmbassadorStore struct {
	apps []domainAmbassador.Application
}

// List filters the seeded applications by status.
func (m *mockAmbassadorStore) List(_ context.Context, f ambassador.ListFilter) ([]domainAmbassador.Application, error) {
	return window(m.byStatus(f.Status), f.Limit, f.Offset), nil
}

// Count counts the seeded applications with the requested status.
func (m *mockAmbassadorStore) Count(_ context.Context, f ambassador.ListFilter) (int, error) {
	return len(m.byStatus(f.Status)), nil
}

func (m *mockAmbassadorStore) byStatus(status string) []domainAmbassador.Application {
	var out []domainAmbassador.Application
	for _, a := range m.apps {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

type mockBlogStore struct {
	posts      []domainBlog.Post
	lastFilter blog.ListFilter
}

func (m *mockBlogStore) List(_ context.Context, f blog.ListFilter) ([]domainBlog.Post, error) {
	m.lastFilter = f
	return window(m.posts, f.Limit, f.Offset), nil
}

func (m *mockBlogStore) Count(_ context.Context, f blog.ListFilter) (int, error) {
	return len(m.posts), nil
}

type mockOrderStore struct {
	orders     []domainOrder.Order
	lastFilter orders.ListFilter
}

func (m *mockOrderStore) List(_ context.Context, f orders.ListFilter) ([]domainOrder.Order, error) {
	m.lastFilter = f
	return window(m.orders, f.Limit, f.Offset), nil
}

func (m *mockOrderStore) Count(_ context.Context, f orders.ListFilter) (int, error) {
	return len(m.orders), nil
}

type mockNewsletterStore struct {
	subs       []domainNewsletter.Subscriber
	campaigns  []domainNewsletter.Campaign
	stats      domainNewsletter.Stats
	lastFilter newsletter.SubscriberFilter
	monthStart time.Time
	lastLimit  int
}

// ListSubscribers filters the seeded subscribers by active flag.
func (m *mockNewsletterStore) ListSubscribers(_ context.Context, f newsletter.SubscriberFilter) ([]domainNewsletter.Subscriber, error) {
	m.lastFilter = f
	return window(m.byStatus(f.Status), f.Limit, f.Offset), nil
}

func (m *mockNewsletterStore) CountSubscribers(_ context.Context, f newsletter.SubscriberFilter) (int, error) {
	m.lastFilter = f
	return len(m.byStatus(f.Status)), nil
}

func (m *mockNewsletterStore) byStatus(status string) []domainNewsletter.Subscriber {
	var out []domainNewsletter.Subscriber
	for _, s := range m.subs {
		switch {
		case status == newsletter.FilterActive && !s.IsActive:
		case status == newsletter.FilterUnsubscribed && s.IsActive:
		default:
			out = append(out, s)
		}
	}
	return out
}

// Stats records the month boundary it was asked for.
func (m *mockNewsletterStore) Stats(_ context.Context, monthStart time.Time) (domainNewsletter.Stats, error) {
	m.monthStart = monthStart
	return m.stats, nil
}

func (m *mockNewsletterStore) ListCampaigns(_ context.Context, limit int) ([]domainNewsletter.Campaign, error) {
	m.lastLimit = limit
	return window(m.campaigns, limit, 0), nil
}

type mockNotificationStore struct {
	byUser map[int64][]domainNotification.Notification
}

// CountUnread counts unread notifications seeded for userID.
func (m *mockNotificationStore) CountUnread(_ context.Context, userID int64) (int, error) {
	n := 0
	for _, x := range m.byUser[userID] {
		if !x.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationStore) ListForUser(_ context.Context, userID int64, limit int) ([]domainNotification.Notification, error) {
	return window(m.byUser[userID], limit, 0), nil
}

type mockOutboxStore struct {
	entries []domainOutbox.Entry
}

func (m *mockOutboxStore) ListRecent(_ context.Context, limit int) ([]domainOutbox.Entry, error) {
	return window(m.entries, limit, 0), nil
}

// ListByActionType filters the seeded entries by action type and status.
func (m *mockOutboxStore) ListByActionType(_ context.Context, actionType, status string, limit int) ([]domainOutbox.Entry, error) {
	var out []domainOutbox.Entry
	for _, e := range m.entries {
		if e.ActionType == actionType && (status == "" || e.Status == status) {
			out = append(out, e)
		}
	}
	return window(out, limit, 0), nil
}
