package ledger_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paper-trader/ledger"
	"paper-trader/models"
	"paper-trader/repository"
)

// newFundedStore returns a memory store holding one account with the given funds
func newFundedStore(t *testing.T, funds int64) (*repository.MemoryStore, uuid.UUID) {
	t.Helper()

	store := repository.NewMemoryStore()
	account := models.NewAccount(decimal.NewFromInt(funds))
	if err := store.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
	return store, account.ID
}

// mustExecute commits a trade and fails the test on rejection or error
func mustExecute(t *testing.T, store ledger.Store, accountID uuid.UUID, symbol string, side models.TradeSide, qty int64, price float64) *ledger.TradeResult {
	t.Helper()

	executor := ledger.NewExecutor(store)
	result, err := executor.Execute(context.Background(), accountID, symbol, qty, decimal.NewFromFloat(price), side)
	if err != nil {
		t.Fatalf("Execute(%s %d %s @ %v) failed: %v", side, qty, symbol, price, err)
	}
	if !result.Committed {
		t.Fatalf("Execute(%s %d %s @ %v) rejected: %s", side, qty, symbol, price, result.Reason)
	}
	return result
}
