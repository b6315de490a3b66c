package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paper-trader/ledger"
	"paper-trader/models"
)

func TestAdmin_DeleteAccountCascades(t *testing.T) {
	store, accountID := newFundedStore(t, 10000)
	executor := ledger.NewExecutor(store)
	admin := ledger.NewAdmin(store, executor)
	ctx := context.Background()

	// Five ledger entries
	mustExecute(t, store, accountID, "AAPL", models.TradeSideBuy, 10, 100)
	mustExecute(t, store, accountID, "AAPL", models.TradeSideSell, 2, 110)
	mustExecute(t, store, accountID, "MSFT", models.TradeSideBuy, 3, 300)
	mustExecute(t, store, accountID, "MSFT", models.TradeSideSell, 1, 310)
	mustExecute(t, store, accountID, "AAPL", models.TradeSideBuy, 1, 105)
	if store.LedgerLength() != 5 {
		t.Fatalf("setup: ledger length = %d, want 5", store.LedgerLength())
	}

	caller := ledger.Identity{AccountID: uuid.New(), IsAdmin: true}
	if err := admin.DeleteAccount(ctx, caller, accountID); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	if _, err := store.GetAccount(ctx, accountID); !errors.Is(err, models.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound after delete, got %v", err)
	}
	if store.LedgerLength() != 0 {
		t.Errorf("ledger length after cascade = %d, want 0", store.LedgerLength())
	}

	// Subsequent valuation reports the account as gone
	valuator := ledger.NewValuator(store, fakePrices{})
	if _, err := valuator.Valuate(ctx, accountID); !errors.Is(err, models.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound from Valuate, got %v", err)
	}
}

func TestAdmin_DeleteAccountRequiresAdmin(t *testing.T) {
	store, accountID := newFundedStore(t, 10000)
	executor := ledger.NewExecutor(store)
	admin := ledger.NewAdmin(store, executor)
	ctx := context.Background()

	mustExecute(t, store, accountID, "AAPL", models.TradeSideBuy, 1, 100)

	caller := ledger.Identity{AccountID: accountID, IsAdmin: false}
	err := admin.DeleteAccount(ctx, caller, accountID)
	if !errors.Is(err, models.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	// Nothing was deleted
	if _, err := store.GetAccount(ctx, accountID); err != nil {
		t.Errorf("account gone after refused delete: %v", err)
	}
	if store.LedgerLength() != 1 {
		t.Errorf("ledger length = %d, want 1", store.LedgerLength())
	}
}

func TestAdmin_DeleteUnknownAccount(t *testing.T) {
	store, _ := newFundedStore(t, 10000)
	admin := ledger.NewAdmin(store, ledger.NewExecutor(store))

	caller := ledger.Identity{AccountID: uuid.New(), IsAdmin: true}
	err := admin.DeleteAccount(context.Background(), caller, uuid.New())
	if !errors.Is(err, models.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAdmin_ListAccounts(t *testing.T) {
	store, _ := newFundedStore(t, 10000)
	admin := ledger.NewAdmin(store, ledger.NewExecutor(store))
	ctx := context.Background()

	second := models.NewAccount(decimal.NewFromInt(5000))
	if err := store.CreateAccount(ctx, second); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	accounts, err := admin.ListAccounts(ctx, ledger.Identity{IsAdmin: true})
	if err != nil {
		t.Fatalf("ListAccounts failed: %v", err)
	}
	if len(accounts) != 2 {
		t.Errorf("accounts = %d, want 2", len(accounts))
	}

	if _, err := admin.ListAccounts(ctx, ledger.Identity{IsAdmin: false}); !errors.Is(err, models.ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized for non-admin, got %v", err)
	}
}
