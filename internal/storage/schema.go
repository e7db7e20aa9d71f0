package storage

// DefaultRegistry returns the application schema history.
// Released entries must never be edited; add a new version instead.
func DefaultRegistry() Registry {
	return NewRegistry(
		Migration{
			Version:     1,
			Description: "create base tables",
			Statement:   migrationV1,
		},
		Migration{
			Version:     2,
			Description: "add currency rate history",
			Statement:   migrationV2,
		},
	)
}

const migrationV1 = `
CREATE TABLE IF NOT EXISTS categories (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    icon TEXT NOT NULL DEFAULT '',
    sort_order INTEGER NOT NULL DEFAULT 0,
    i18n_key TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS currencies (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    symbol TEXT NOT NULL DEFAULT '',
    code TEXT NOT NULL,
    rate REAL NOT NULL DEFAULT 1,
    sort_order INTEGER NOT NULL DEFAULT 0,
    i18n_key TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS household_members (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS payment_methods (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    icon TEXT NOT NULL DEFAULT '',
    enabled INTEGER NOT NULL DEFAULT 1,
    sort_order INTEGER NOT NULL DEFAULT 0,
    i18n_key TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tags (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    favorite INTEGER NOT NULL DEFAULT 0,
    sort_order INTEGER NOT NULL DEFAULT 0,
    i18n_key TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS subscriptions (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    logo TEXT NOT NULL DEFAULT '',
    price REAL NOT NULL DEFAULT 0,
    currency_id TEXT NOT NULL,
    next_payment TEXT NOT NULL,
    start_date TEXT NOT NULL,
    cycle INTEGER NOT NULL,
    frequency INTEGER NOT NULL DEFAULT 1,
    notes TEXT NOT NULL DEFAULT '',
    payment_method_id TEXT NOT NULL DEFAULT '',
    payer_user_id TEXT NOT NULL DEFAULT '',
    category_id TEXT NOT NULL DEFAULT '',
    notify INTEGER NOT NULL DEFAULT 0,
    notify_days_before INTEGER NOT NULL DEFAULT 0,
    last_notified_date TEXT NOT NULL DEFAULT '',
    inactive INTEGER NOT NULL DEFAULT 0,
    auto_renew INTEGER NOT NULL DEFAULT 1,
    url TEXT NOT NULL DEFAULT '',
    cancellation_date TEXT,
    replacement_subscription_id TEXT,
    created_at TEXT NOT NULL,
    favorite INTEGER NOT NULL DEFAULT 0,
    tags TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_subscriptions_next_payment ON subscriptions(next_payment);
CREATE INDEX IF NOT EXISTS idx_subscriptions_inactive ON subscriptions(inactive);

CREATE TABLE IF NOT EXISTS payment_records (
    id TEXT PRIMARY KEY,
    subscription_id TEXT NOT NULL,
    date TEXT NOT NULL,
    amount REAL NOT NULL,
    currency_id TEXT NOT NULL,
    note TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (subscription_id) REFERENCES subscriptions(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_payment_records_subscription ON payment_records(subscription_id, date);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    amount REAL NOT NULL,
    currency_id TEXT NOT NULL,
    date TEXT NOT NULL,
    category_id TEXT NOT NULL DEFAULT '',
    payment_method_id TEXT NOT NULL DEFAULT '',
    payer_user_id TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    notes TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    url TEXT NOT NULL DEFAULT '',
    subscription_id TEXT NOT NULL DEFAULT '',
    payment_record_id TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date);

CREATE TABLE IF NOT EXISTS config (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

const migrationV2 = `
CREATE TABLE IF NOT EXISTS currency_rate_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    currency_id TEXT NOT NULL,
    rate REAL NOT NULL,
    recorded_at TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_rate_history_currency_day
    ON currency_rate_history(currency_id, recorded_at);
`
