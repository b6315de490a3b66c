package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paper-trader/models"
)

// getTestRepo connects to the database named by DATABASE_URL and skips the
// test when no database is reachable. Each caller gets a migrated schema.
func getTestRepo(t *testing.T) *Repository {
	t.Helper()

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	repo, err := NewRepository(ctx, connString)
	if err != nil {
		t.Skip("database not available for integration test")
	}
	t.Cleanup(repo.Close)

	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	return repo
}

// createIntegrationAccount inserts a throwaway account and registers cleanup
// so test runs leave no rows behind.
func createIntegrationAccount(t *testing.T, repo *Repository, funds int64) *models.Account {
	t.Helper()

	ctx := context.Background()
	account := models.NewAccount(decimal.NewFromInt(funds))
	if err := repo.CreateAccount(ctx, account); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	t.Cleanup(func() {
		repo.Pool().Exec(ctx, `DELETE FROM transactions WHERE account_id = $1`, account.ID)
		repo.Pool().Exec(ctx, `DELETE FROM accounts WHERE id = $1`, account.ID)
	})
	return account
}

func TestRepository_AccountRoundTrip(t *testing.T) {
	repo := getTestRepo(t)
	ctx := context.Background()

	account := createIntegrationAccount(t, repo, 10000)

	got, err := repo.GetAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if got.ID != account.ID {
		t.Errorf("id = %s, want %s", got.ID, account.ID)
	}
	if !got.Funds.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("funds = %s, want 10000", got.Funds)
	}
}

func TestRepository_GetAccountUnknown(t *testing.T) {
	repo := getTestRepo(t)

	_, err := repo.GetAccount(context.Background(), uuid.New())
	if !errors.Is(err, models.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestRepository_CommitTradeAndReadBack(t *testing.T) {
	repo := getTestRepo(t)
	ctx := context.Background()

	account := createIntegrationAccount(t, repo, 10000)

	txn := models.NewTransaction(account.ID, "AAPL", models.TradeSideBuy, 10, decimal.NewFromInt(100))
	newFunds, err := repo.CommitTrade(ctx, decimal.NewFromInt(-1000), txn)
	if err != nil {
		t.Fatalf("CommitTrade failed: %v", err)
	}
	if !newFunds.Equal(decimal.NewFromInt(9000)) {
		t.Errorf("funds = %s, want 9000", newFunds)
	}

	txns, err := repo.TransactionsForAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("TransactionsForAccount failed: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("entries = %d, want 1", len(txns))
	}
	got := txns[0]
	if got.ID != txn.ID || got.Symbol != "AAPL" || got.Side != models.TradeSideBuy || got.Quantity != 10 {
		t.Errorf("read back entry %+v does not match committed trade", got)
	}
	if !got.Price.Equal(decimal.NewFromInt(100)) {
		t.Errorf("price = %s, want 100", got.Price)
	}
}

func TestRepository_CommitTradeRefusesOverdraft(t *testing.T) {
	repo := getTestRepo(t)
	ctx := context.Background()

	account := createIntegrationAccount(t, repo, 500)

	txn := models.NewTransaction(account.ID, "AAPL", models.TradeSideBuy, 10, decimal.NewFromInt(100))
	_, err := repo.CommitTrade(ctx, decimal.NewFromInt(-1000), txn)
	if !errors.Is(err, models.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// The refused trade rolled back: balance intact, no ledger entry
	got, err := repo.GetAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if !got.Funds.Equal(decimal.NewFromInt(500)) {
		t.Errorf("funds = %s, want 500", got.Funds)
	}
	txns, err := repo.TransactionsForAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("TransactionsForAccount failed: %v", err)
	}
	if len(txns) != 0 {
		t.Errorf("entries = %d, want 0", len(txns))
	}
}

func TestRepository_AdjustFunds(t *testing.T) {
	repo := getTestRepo(t)
	ctx := context.Background()

	account := createIntegrationAccount(t, repo, 1000)

	newFunds, err := repo.AdjustFunds(ctx, account.ID, decimal.NewFromInt(-250))
	if err != nil {
		t.Fatalf("AdjustFunds failed: %v", err)
	}
	if !newFunds.Equal(decimal.NewFromInt(750)) {
		t.Errorf("funds = %s, want 750", newFunds)
	}

	if _, err := repo.AdjustFunds(ctx, account.ID, decimal.NewFromInt(-751)); !errors.Is(err, models.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
	if _, err := repo.AdjustFunds(ctx, uuid.New(), decimal.NewFromInt(-1)); !errors.Is(err, models.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestRepository_DeleteAccountCascade(t *testing.T) {
	repo := getTestRepo(t)
	ctx := context.Background()

	account := createIntegrationAccount(t, repo, 10000)

	for i := 0; i < 3; i++ {
		txn := models.NewTransaction(account.ID, "AAPL", models.TradeSideBuy, 1, decimal.NewFromInt(100))
		if _, err := repo.CommitTrade(ctx, decimal.NewFromInt(-100), txn); err != nil {
			t.Fatalf("CommitTrade failed: %v", err)
		}
	}

	if err := repo.DeleteAccountCascade(ctx, account.ID); err != nil {
		t.Fatalf("DeleteAccountCascade failed: %v", err)
	}

	if _, err := repo.GetAccount(ctx, account.ID); !errors.Is(err, models.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound after cascade, got %v", err)
	}
	txns, err := repo.TransactionsForAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("TransactionsForAccount failed: %v", err)
	}
	if len(txns) != 0 {
		t.Errorf("entries after cascade = %d, want 0", len(txns))
	}
}

func TestRepository_Health(t *testing.T) {
	repo := getTestRepo(t)

	if err := repo.Health(context.Background()); err != nil {
		t.Errorf("Health failed: %v", err)
	}
}
