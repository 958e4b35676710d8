package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	emailAdapter "backoffice/internal/adapters/email"
	"backoffice/internal/adapters/storage"
	newsletterStore "backoffice/internal/adapters/storage/newsletter"
	"backoffice/internal/domain/activity"
	"backoffice/internal/domain/ambassador"
	"backoffice/internal/domain/blog"
	"backoffice/internal/domain/menu"
	"backoffice/internal/domain/newsletter"
	"backoffice/internal/domain/order"
	"backoffice/internal/domain/outbox"
	"backoffice/internal/domain/user"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

func notFound(what string, id any) error {
	return fmt.Errorf("%s %v: %w", what, id, storage.ErrNotFound)
}

// --- activity ---

type mockActivityStore struct {
	entries []activity.Entry
	err     error
}

func (m *mockActivityStore) Append(_ context.Context, e activity.Entry) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.entries = append(m.entries, e)
	return int64(len(m.entries)), nil
}

func activityDeps(store *mockActivityStore) ActivityDeps {
	return ActivityDeps{Store: store, Now: fixedNow}
}

// --- menu ---

type mockMenuStore struct {
	items      map[int64]menu.Item
	categories map[int64]menu.Category
	nextID     int64
	createErr  error
	updateErr  error
	deleteErr  error
}

func newMockMenuStore() *mockMenuStore {
	return &mockMenuStore{
		items:      make(map[int64]menu.Item),
		categories: map[int64]menu.Category{1: {ID: 1, Name: "Main Dishes", Status: menu.StatusActive}},
	}
}

func (m *mockMenuStore) GetByID(_ context.Context, id int64) (menu.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return menu.Item{}, notFound("menu item", id)
	}
	return it, nil
}

func (m *mockMenuStore) Create(_ context.Context, item menu.Item) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	item.ID = m.nextID
	m.items[item.ID] = item
	return item.ID, nil
}

func (m *mockMenuStore) Update(_ context.Context, item menu.Item) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.items[item.ID] = item
	return nil
}

func (m *mockMenuStore) Delete(_ context.Context, id int64) (menu.Item, error) {
	if m.deleteErr != nil {
		return menu.Item{}, m.deleteErr
	}
	it, ok := m.items[id]
	if !ok {
		return menu.Item{}, notFound("menu item", id)
	}
	delete(m.items, id)
	return it, nil
}

func (m *mockMenuStore) SetStatus(_ context.Context, id int64, status string) error {
	it, ok := m.items[id]
	if !ok {
		return notFound("menu item", id)
	}
	it.Status = status
	m.items[id] = it
	return nil
}

func (m *mockMenuStore) SetFeatured(_ context.Context, id int64, featured bool) error {
	it, ok := m.items[id]
	if !ok {
		return notFound("menu item", id)
	}
	it.IsFeatured = featured
	m.items[id] = it
	return nil
}

func (m *mockMenuStore) GetCategory(_ context.Context, id int64) (menu.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return menu.Category{}, notFound("category", id)
	}
	return c, nil
}

func (m *mockMenuStore) SetCategoryStatus(_ context.Context, id int64, status string) error {
	c, ok := m.categories[id]
	if !ok {
		return notFound("category", id)
	}
	c.Status = status
	m.categories[id] = c
	return nil
}

func (m *mockMenuStore) ListCategories(_ context.Context) ([]menu.Category, error) {
	var out []menu.Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockMenuStore) CreateCategory(_ context.Context, c menu.Category) (int64, error) {
	id := int64(len(m.categories) + 1)
	c.ID = id
	m.categories[id] = c
	return id, nil
}

type mockImages struct {
	files     map[string]string
	removed   []string
	saveErr   error
	removeErr error
	seq       int
}

func newMockImages() *mockImages { return &mockImages{files: make(map[string]string)} }

func (m *mockImages) Save(name string, r io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.seq++
	stored := fmt.Sprintf("img-%d-%s", m.seq, name)
	m.files[stored] = string(data)
	return stored, nil
}

func (m *mockImages) Remove(name string) error {
	m.removed = append(m.removed, name)
	if m.removeErr != nil {
		return m.removeErr
	}
	delete(m.files, name)
	return nil
}

// --- users ---

type mockUserStore struct {
	users  map[int64]user.User
	nextID int64
}

func newMockUserStore(seed ...user.User) *mockUserStore {
	m := &mockUserStore{users: make(map[int64]user.User)}
	for _, u := range seed {
		m.users[u.ID] = u
		if u.ID > m.nextID {
			m.nextID = u.ID
		}
	}
	return m
}

func (m *mockUserStore) GetByID(_ context.Context, id int64) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, notFound("user", id)
	}
	return u, nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, notFound("user", email)
}

func (m *mockUserStore) Create(_ context.Context, u user.User) (int64, error) {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return 0, user.ErrEmailTaken
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *mockUserStore) Update(_ context.Context, u user.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserStore) SetStatus(_ context.Context, id int64, status string) error {
	u := m.users[id]
	u.Status = status
	m.users[id] = u
	return nil
}

func (m *mockUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return notFound("user", id)
	}
	delete(m.users, id)
	return nil
}

// --- blog ---

type mockBlogStore struct {
	posts  map[int64]blog.Post
	nextID int64
}

func newMockBlogStore() *mockBlogStore { return &mockBlogStore{posts: make(map[int64]blog.Post)} }

func (m *mockBlogStore) GetByID(_ context.Context, id int64) (blog.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return blog.Post{}, notFound("blog post", id)
	}
	return p, nil
}

func (m *mockBlogStore) Create(_ context.Context, p blog.Post) (int64, error) {
	m.nextID++
	p.ID = m.nextID
	m.posts[p.ID] = p
	return p.ID, nil
}

func (m *mockBlogStore) Update(_ context.Context, p blog.Post) error {
	m.posts[p.ID] = p
	return nil
}

func (m *mockBlogStore) Delete(_ context.Context, id int64) error {
	delete(m.posts, id)
	return nil
}

// --- ambassador ---

type mockAmbassadorStore struct {
	apps     map[int64]ambassador.Application
	setCalls int
	raced    string // status another admin records just before SetStatus
}

func (m *mockAmbassadorStore) GetByID(_ context.Context, id int64) (ambassador.Application, error) {
	a, ok := m.apps[id]
	if !ok {
		return ambassador.Application{}, notFound("application", id)
	}
	return a, nil
}

func (m *mockAmbassadorStore) SetStatus(_ context.Context, id int64, status string, reviewedAt time.Time) error {
	m.setCalls++
	a := m.apps[id]
	if m.raced != "" {
		a.Status = m.raced
		m.apps[id] = a
	}
	if a.Status != ambassador.StatusPending {
		return ambassador.ErrAlreadyDecided
	}
	a.Status = status
	a.ReviewedAt = reviewedAt
	m.apps[id] = a
	return nil
}

// --- newsletter ---

type mockNewsletterStore struct {
	subs       []newsletter.Subscriber
	campaigns  map[int64]newsletter.Campaign
	saves      []newsletter.Campaign
	saveErr    error
	failStatus string // limits saveErr to campaigns in this status
}

func newMockNewsletterStore(subs ...newsletter.Subscriber) *mockNewsletterStore {
	return &mockNewsletterStore{subs: subs, campaigns: make(map[int64]newsletter.Campaign)}
}

func (m *mockNewsletterStore) GetSubscriberByEmail(_ context.Context, email string) (newsletter.Subscriber, error) {
	for _, s := range m.subs {
		if s.Email == email {
			return s, nil
		}
	}
	return newsletter.Subscriber{}, notFound("subscriber", email)
}

func (m *mockNewsletterStore) SaveSubscriberStatus(_ context.Context, s newsletter.Subscriber) error {
	for i := range m.subs {
		if m.subs[i].ID == s.ID {
			m.subs[i] = s
		}
	}
	return nil
}

func (m *mockNewsletterStore) ListSubscribers(_ context.Context, f newsletterStore.SubscriberFilter) ([]newsletter.Subscriber, error) {
	var out []newsletter.Subscriber
	for _, s := range m.subs {
		if f.Status == newsletterStore.FilterActive && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockNewsletterStore) CountSubscribers(ctx context.Context, f newsletterStore.SubscriberFilter) (int, error) {
	list, _ := m.ListSubscribers(ctx, f)
	return len(list), nil
}

func (m *mockNewsletterStore) CreateCampaign(_ context.Context, c newsletter.Campaign) (int64, error) {
	c.ID = int64(len(m.campaigns) + 1)
	m.campaigns[c.ID] = c
	return c.ID, nil
}

func (m *mockNewsletterStore) GetCampaign(_ context.Context, id int64) (newsletter.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok {
		return newsletter.Campaign{}, notFound("campaign", id)
	}
	return c, nil
}

func (m *mockNewsletterStore) SaveCampaignState(_ context.Context, c newsletter.Campaign) error {
	if m.saveErr != nil && (m.failStatus == "" || m.failStatus == c.Status) {
		return m.saveErr
	}
	m.saves = append(m.saves, c)
	m.campaigns[c.ID] = c
	return nil
}

// --- outbox ---

type mockOutboxStore struct {
	mu      sync.Mutex
	entries map[string]outbox.Entry
	saveErr error
}

func newMockOutboxStore(seed ...outbox.Entry) *mockOutboxStore {
	m := &mockOutboxStore{entries: make(map[string]outbox.Entry)}
	for _, e := range seed {
		m.entries[e.ID] = e
	}
	return m
}

func (m *mockOutboxStore) GetByID(_ context.Context, id string) (outbox.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return outbox.Entry{}, notFound("outbox entry", id)
	}
	return e, nil
}

func (m *mockOutboxStore) Save(_ context.Context, e outbox.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entries[e.ID] = e
	return nil
}

func (m *mockOutboxStore) ListPending(_ context.Context, limit int) ([]outbox.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []outbox.Entry
	for _, e := range m.entries {
		if e.Status == outbox.StatusPending || e.Status == outbox.StatusRetrying {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- orders ---

type mockOrderStore struct {
	orders map[int64]order.Order
}

func (m *mockOrderStore) GetByID(_ context.Context, id int64) (order.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return order.Order{}, notFound("order", id)
	}
	return o, nil
}

// --- notifications ---

type mockNotificationStore struct {
	owner  map[int64]int64 // notification id -> user id
	read   map[int64]bool
	failOn error
}

func (m *mockNotificationStore) MarkRead(_ context.Context, id, userID int64, _ time.Time) error {
	if m.failOn != nil {
		return m.failOn
	}
	if owner, ok := m.owner[id]; !ok || owner != userID {
		return notFound("notification", id)
	}
	m.read[id] = true
	return nil
}

func (m *mockNotificationStore) CountUnread(_ context.Context, userID int64) (int, error) {
	n := 0
	for id, owner := range m.owner {
		if owner == userID && !m.read[id] {
			n++
		}
	}
	return n, nil
}

// --- email ---

// recordingSender keeps every request so tests can inspect what went out.
type recordingSender struct {
	mu   sync.Mutex
	sent []emailAdapter.SendRequest
}

func (r *recordingSender) Send(_ context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	if err := req.Validate(); err != nil {
		return emailAdapter.SendResult{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, req)
	return emailAdapter.SendResult{MessageID: fmt.Sprintf("msg-%d", len(r.sent)), SentAt: fixedTime}, nil
}

func (r *recordingSender) SendBatch(ctx context.Context, reqs []emailAdapter.SendRequest) ([]emailAdapter.SendResult, error) {
	results := make([]emailAdapter.SendResult, 0, len(reqs))
	for _, req := range reqs {
		res, err := r.Send(ctx, req)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *recordingSender) Sent() []emailAdapter.SendRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]emailAdapter.SendRequest(nil), r.sent...)
}

type failingSender struct {
	err error
}

func (f failingSender) Send(context.Context, emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	return emailAdapter.SendResult{}, f.err
}

func (f failingSender) SendBatch(context.Context, []emailAdapter.SendRequest) ([]emailAdapter.SendResult, error) {
	return nil, f.err
}

var errBoom = errors.New("boom")
