package sqlstore

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist. The column types are
// understood by both SQLite and PostgreSQL.
// IMPORTANT: users and groups must be created BEFORE expenses due to foreign key constraints.
// Deletes are explicit (no ON DELETE CASCADE): the ledger removes
// transactions, shares and the expense header in that order.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS ledger_groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS group_members (
    group_id TEXT NOT NULL REFERENCES ledger_groups(id),
    user_id TEXT NOT NULL REFERENCES users(id),
    PRIMARY KEY (group_id, user_id)
);

CREATE TABLE IF NOT EXISTS expenses (
    expense_id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES ledger_groups(id),
    paid_by TEXT NOT NULL REFERENCES users(id),
    amount DOUBLE PRECISION NOT NULL CHECK (amount > 0),
    created_at BIGINT NOT NULL,
    description TEXT,
    tag TEXT
);

CREATE TABLE IF NOT EXISTS expense_participants (
    expense_id TEXT NOT NULL REFERENCES expenses(expense_id),
    user_id TEXT NOT NULL REFERENCES users(id),
    share DOUBLE PRECISION NOT NULL,
    amount DOUBLE PRECISION NOT NULL CHECK (amount >= 0),
    settled TEXT NOT NULL CHECK (settled IN ('NO', 'PARTIAL', 'SETTLED')),
    PRIMARY KEY (expense_id, user_id)
);

CREATE TABLE IF NOT EXISTS transactions (
    trans_id TEXT PRIMARY KEY,
    expense_id TEXT NOT NULL REFERENCES expenses(expense_id),
    payer_id TEXT NOT NULL REFERENCES users(id),
    payee_id TEXT NOT NULL REFERENCES users(id),
    amount DOUBLE PRECISION NOT NULL CHECK (amount > 0),
    created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_group_members_user_id ON group_members(user_id);
CREATE INDEX IF NOT EXISTS idx_expenses_group_id ON expenses(group_id);
CREATE INDEX IF NOT EXISTS idx_expenses_paid_by ON expenses(paid_by);
CREATE INDEX IF NOT EXISTS idx_expense_participants_user_id ON expense_participants(user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_expense_id ON transactions(expense_id);
CREATE INDEX IF NOT EXISTS idx_transactions_payer_id ON transactions(payer_id);
CREATE INDEX IF NOT EXISTS idx_transactions_payee_id ON transactions(payee_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
