package storage

import (
	"database/sql"
	"fmt"
)

// schema creates every table the back-office uses. Timestamps are TEXT in
// TimeLayout (UTC) so that lexical comparison matches chronological order.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'active',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	status TEXT NOT NULL DEFAULT 'active'
);

CREATE TABLE IF NOT EXISTS menu_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price TEXT NOT NULL,
	image TEXT NOT NULL DEFAULT '',
	category_id INTEGER NOT NULL REFERENCES categories(id),
	is_available INTEGER NOT NULL DEFAULT 1,
	is_featured INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'active',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS blog_posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	author TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ambassador_applications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	social_media TEXT NOT NULL DEFAULT '',
	experience TEXT NOT NULL DEFAULT 'none',
	motivation TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	application_date TEXT NOT NULL,
	created_at TEXT NOT NULL,
	reviewed_at TEXT
);

CREATE TABLE IF NOT EXISTS newsletter_subscriptions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	subscription_date TEXT NOT NULL,
	created_at TEXT NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 1,
	unsubscribed_at TEXT
);

CREATE TABLE IF NOT EXISTS newsletter_campaigns (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	subject TEXT NOT NULL,
	content TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft',
	sent_at TEXT,
	total_recipients INTEGER NOT NULL DEFAULT 0,
	sent_count INTEGER NOT NULL DEFAULT 0,
	tracking_id TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS activity_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER,
	activity_type TEXT NOT NULL,
	activity_action TEXT NOT NULL,
	description TEXT NOT NULL,
	entity_type TEXT NOT NULL DEFAULT '',
	entity_id INTEGER,
	ip_address TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activity_logs_created_at ON activity_logs(created_at);

CREATE TABLE IF NOT EXISTS orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_number TEXT NOT NULL UNIQUE,
	customer_name TEXT NOT NULL,
	customer_email TEXT NOT NULL,
	customer_phone TEXT NOT NULL DEFAULT '',
	payment_method TEXT NOT NULL DEFAULT '',
	payment_status TEXT NOT NULL DEFAULT 'pending',
	payment_reference TEXT NOT NULL DEFAULT '',
	delivery_address TEXT NOT NULL DEFAULT '',
	delivery_instructions TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	subtotal TEXT NOT NULL,
	delivery_fee TEXT NOT NULL,
	total_amount TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	unit_price TEXT NOT NULL,
	total TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL DEFAULT 'info',
	link TEXT NOT NULL DEFAULT '',
	is_read INTEGER NOT NULL DEFAULT 0,
	read_at TEXT,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, is_read);

CREATE TABLE IF NOT EXISTS outbox (
	id TEXT PRIMARY KEY,
	action_type TEXT NOT NULL,
	payload TEXT NOT NULL,
	status TEXT NOT NULL,
	attempts INTEGER NOT NULL DEFAULT 0,
	max_attempts INTEGER NOT NULL DEFAULT 3,
	last_attempted_at TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	external_id TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT ''
);
`

// InitDB creates the schema if it does not exist.
// PRE: db is a valid database connection
// POST: All tables and indexes exist; running it again is a no-op
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Tables lists the tables InitDB creates.
func Tables() []string {
	return []string{
		"activity_logs", "ambassador_applications", "blog_posts", "categories",
		"menu_items", "newsletter_campaigns", "newsletter_subscriptions",
		"notifications", "order_items", "orders", "outbox", "users",
	}
}
