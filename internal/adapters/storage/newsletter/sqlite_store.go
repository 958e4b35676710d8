package newsletter

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/adapters/storage"
	domain "backoffice/internal/domain/newsletter"
)

const (
	selectSubscriber = `SELECT id, email, subscription_date, created_at, is_active, unsubscribed_at FROM newsletter_subscriptions`
	selectCampaign   = `SELECT id, subject, content, status, sent_at, total_recipients, sent_count, tracking_id, created_at, updated_at FROM newsletter_campaigns`
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new newsletter store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Subscribe inserts a subscriber, or reactivates an unsubscribed one.
func (s *SQLiteStore) Subscribe(ctx context.Context, email string, now time.Time) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	ts := storage.FormatTime(now)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO newsletter_subscriptions (email, subscription_date, created_at, is_active) VALUES (?, ?, ?, 1)
		 ON CONFLICT(email) DO UPDATE SET is_active = 1, unsubscribed_at = NULL, subscription_date = excluded.subscription_date`,
		email, ts, ts)
	if err != nil {
		return 0, fmt.Errorf("subscribe: %w", err)
	}
	var id int64
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM newsletter_subscriptions WHERE email = ?`, email).Scan(&id); err != nil {
		return 0, fmt.Errorf("subscribe lookup: %w", err)
	}
	return id, nil
}

// GetSubscriberByEmail retrieves a subscriber by email.
func (s *SQLiteStore) GetSubscriberByEmail(ctx context.Context, email string) (domain.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	sub, err := scanSubscriber(s.db.QueryRowContext(ctx, selectSubscriber+` WHERE email = ?`, email))
	return sub, storage.NotFound(err, "subscriber", email)
}

// SaveSubscriberStatus writes is_active and unsubscribed_at.
func (s *SQLiteStore) SaveSubscriberStatus(ctx context.Context, sub domain.Subscriber) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE newsletter_subscriptions SET is_active = ?, unsubscribed_at = ? WHERE id = ?`,
		storage.BoolInt(sub.IsActive), storage.NullTime(sub.UnsubscribedAt), sub.ID)
	if err != nil {
		return fmt.Errorf("update subscriber: %w", err)
	}
	return storage.RequireAffected(res, "subscriber", sub.ID)
}

// ListSubscribers returns subscribers matching the filter, newest signup first.
func (s *SQLiteStore) ListSubscribers(ctx context.Context, filter SubscriberFilter) ([]domain.Subscriber, error) {
	w := subscriberWhere(filter)
	query := selectSubscriber + w.SQL() + ` ORDER BY created_at DESC, id DESC`
	args := w.Args()
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()
	var list []domain.Subscriber
	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, sub)
	}
	return list, rows.Err()
}

// CountSubscribers returns the number of subscribers matching the filter.
func (s *SQLiteStore) CountSubscribers(ctx context.Context, filter SubscriberFilter) (int, error) {
	return storage.CountWhere(ctx, s.db, storage.TableSubscriptions, subscriberWhere(filter))
}

// Stats summarises the list.
func (s *SQLiteStore) Stats(ctx context.Context, monthStart time.Time) (domain.Stats, error) {
	var st domain.Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN is_active = 1 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN is_active = 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0)
		 FROM newsletter_subscriptions`, storage.FormatTime(monthStart)).
		Scan(&st.Total, &st.Active, &st.Unsubscribed, &st.ThisMonth)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("subscriber stats: %w", err)
	}
	return st, nil
}

// CreateCampaign inserts a campaign and returns its ID.
func (s *SQLiteStore) CreateCampaign(ctx context.Context, c domain.Campaign) (int64, error) {
	if c.Status == "" {
		c.Status = domain.CampaignDraft
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO newsletter_campaigns (subject, content, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		c.Subject, c.Content, c.Status, storage.FormatTime(c.CreatedAt), storage.FormatTime(c.UpdatedAt))
	if err != nil {
		return 0, fmt.Errorf("insert campaign: %w", err)
	}
	return res.LastInsertId()
}

// GetCampaign retrieves a campaign by ID.
func (s *SQLiteStore) GetCampaign(ctx context.Context, id int64) (domain.Campaign, error) {
	c, err := scanCampaign(s.db.QueryRowContext(ctx, selectCampaign+` WHERE id = ?`, id))
	return c, storage.NotFound(err, "campaign", id)
}

// SaveCampaignState writes the mutable campaign columns in one statement.
func (s *SQLiteStore) SaveCampaignState(ctx context.Context, c domain.Campaign) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE newsletter_campaigns SET status = ?, sent_at = ?, total_recipients = ?, sent_count = ?, tracking_id = ?, updated_at = ? WHERE id = ?`,
		c.Status, storage.NullTime(c.SentAt), c.TotalRecipients, c.SentCount, c.TrackingID, storage.FormatTime(c.UpdatedAt), c.ID)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	return storage.RequireAffected(res, "campaign", c.ID)
}

// ListCampaigns returns campaigns, newest first.
func (s *SQLiteStore) ListCampaigns(ctx context.Context, limit int) ([]domain.Campaign, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, selectCampaign+` ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()
	var list []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func subscriberWhere(f SubscriberFilter) *storage.Where {
	w := storage.NewWhere()
	switch f.Status {
	case FilterActive:
		w.Bool("is_active", true)
	case FilterUnsubscribed:
		w.Bool("is_active", false)
	}
	return w.Like(f.Search, "email")
}

func scanSubscriber(row storage.Scanner) (domain.Subscriber, error) {
	var sub domain.Subscriber
	var subDate, createdAt string
	var active int
	var unsubAt sql.NullString
	if err := row.Scan(&sub.ID, &sub.Email, &subDate, &createdAt, &active, &unsubAt); err != nil {
		return domain.Subscriber{}, err
	}
	sub.SubscriptionDate = storage.ParseTime(subDate)
	sub.CreatedAt = storage.ParseTime(createdAt)
	sub.IsActive = active == 1
	sub.UnsubscribedAt = storage.ParseNullTime(unsubAt)
	return sub, nil
}

func scanCampaign(row storage.Scanner) (domain.Campaign, error) {
	var c domain.Campaign
	var sentAt sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&c.ID, &c.Subject, &c.Content, &c.Status, &sentAt, &c.TotalRecipients, &c.SentCount,
		&c.TrackingID, &createdAt, &updatedAt); err != nil {
		return domain.Campaign{}, err
	}
	c.SentAt = storage.ParseNullTime(sentAt)
	c.CreatedAt = storage.ParseTime(createdAt)
	c.UpdatedAt = storage.ParseTime(updatedAt)
	return c, nil
}

var _ Store = (*SQLiteStore)(nil)
