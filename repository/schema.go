package repository

import (
	"context"
	"fmt"
)

// schema creates the accounts and transactions tables. The transactions
// table carries a monotonically increasing seq so entries can always be
// replayed in commit order.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id         UUID PRIMARY KEY,
	funds      NUMERIC(20, 4) NOT NULL CHECK (funds >= 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transactions (
	seq        BIGSERIAL PRIMARY KEY,
	id         UUID NOT NULL UNIQUE,
	account_id UUID NOT NULL REFERENCES accounts(id),
	symbol     TEXT NOT NULL,
	side       TEXT NOT NULL CHECK (side IN ('BUY', 'SELL')),
	quantity   BIGINT NOT NULL CHECK (quantity > 0),
	price      NUMERIC(20, 4) NOT NULL CHECK (price > 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions (account_id, seq);
`

// Migrate creates the schema if it does not exist
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
