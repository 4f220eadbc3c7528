package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS expenses (
    id                 TEXT PRIMARY KEY,
    account_id         TEXT NOT NULL DEFAULT '',
    amount             REAL NOT NULL,
    original_amount    REAL,
    original_currency  TEXT,
    exchange_rate      REAL,
    category           TEXT NOT NULL,
    subcategory        TEXT,
    date               TEXT NOT NULL,
    description        TEXT,
    tags               TEXT,
    created_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS budgets (
    id          TEXT PRIMARY KEY,
    account_id  TEXT NOT NULL DEFAULT '',
    name        TEXT NOT NULL,
    category    TEXT NOT NULL,
    amount      REAL NOT NULL,
    start_date  TEXT NOT NULL,
    end_date    TEXT NOT NULL,
    notes       TEXT,
    is_active   INTEGER NOT NULL DEFAULT 1,
    recurring   TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date);
CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(category);
CREATE INDEX IF NOT EXISTS idx_budgets_window ON budgets(start_date, end_date);
`
