package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paper-trader/models"
)

// Store is the persistence surface the engine runs against. Both the
// Postgres repository and the in-memory store satisfy it.
type Store interface {
	// Accounts
	GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	ListAccounts(ctx context.Context) ([]models.Account, error)

	// AdjustFunds applies delta to the account balance. It refuses any
	// adjustment that would drive funds below zero, independently of the
	// executor's own check.
	AdjustFunds(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)

	// TransactionsForAccount returns the account's ledger entries in commit
	// order. Replaying them must deterministically reproduce current state.
	TransactionsForAccount(ctx context.Context, accountID uuid.UUID) ([]models.Transaction, error)

	// CommitTrade atomically applies the funds delta and appends the ledger
	// entry. No observer may see one without the other. It fails without
	// side effects if the delta would drive funds negative.
	CommitTrade(ctx context.Context, fundsDelta decimal.Decimal, txn *models.Transaction) (decimal.Decimal, error)

	// DeleteAccountCascade removes the account and all of its ledger entries
	// as one atomic unit.
	DeleteAccountCascade(ctx context.Context, accountID uuid.UUID) error
}

// PriceSource supplies current market prices. Any failure is reported as
// models.ErrPriceUnavailable by implementations, never as a zero price.
type PriceSource interface {
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}
