package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Amounts are stored as decimal strings so no precision is lost in SQLite's REAL type.
// Timestamps are Unix nanoseconds; ties in created_at fall back to rowid order.
const schema = `
CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
    amount TEXT NOT NULL,
    currency TEXT NOT NULL CHECK (currency IN ('USD', 'KHR')),
    category TEXT NOT NULL,
    account_name TEXT NOT NULL,
    description TEXT NOT NULL,
    exchange_rate TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS debts (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('lent', 'borrowed')),
    person TEXT NOT NULL,
    person_key TEXT NOT NULL,
    original_amount TEXT NOT NULL,
    remaining_amount TEXT NOT NULL,
    currency TEXT NOT NULL CHECK (currency IN ('USD', 'KHR')),
    status TEXT NOT NULL CHECK (status IN ('open', 'settled', 'canceled')),
    purpose TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    associated_transaction_id TEXT NOT NULL DEFAULT '',
    version INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS repayments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    debt_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    paid_at INTEGER NOT NULL,
    FOREIGN KEY (debt_id) REFERENCES debts(id)
);

CREATE TABLE IF NOT EXISTS account_settings (
    account_id TEXT PRIMARY KEY,
    rate_mode TEXT NOT NULL CHECK (rate_mode IN ('fixed', 'live')),
    fixed_rate TEXT NOT NULL DEFAULT '0',
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_debts_lookup ON debts(account_id, person_key, type, status, created_at);
CREATE INDEX IF NOT EXISTS idx_debts_account_status ON debts(account_id, status, created_at);
CREATE INDEX IF NOT EXISTS idx_repayments_debt_id ON repayments(debt_id);
CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_id, created_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
