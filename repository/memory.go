package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paper-trader/models"
)

// MemoryStore is an in-memory implementation of the same storage surface as
// Repository. It backs unit tests and the databaseless development mode.
// The single mutex makes every operation atomic; CommitTrade applies the
// funds change and the ledger append under one lock acquisition.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*models.Account
	// entries holds all committed transactions for all accounts in commit
	// order. Append-only; trimmed only by the admin cascade.
	entries []models.Transaction
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[uuid.UUID]*models.Account),
	}
}

// GetAccount returns a copy of the account, or ErrAccountNotFound
func (s *MemoryStore) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, models.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

// CreateAccount adds a new account
func (s *MemoryStore) CreateAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.ID]; exists {
		return fmt.Errorf("account %s already exists", account.ID)
	}
	copied := *account
	s.accounts[account.ID] = &copied
	return nil
}

// ListAccounts returns copies of all accounts ordered by creation time
func (s *MemoryStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, *account)
	}
	sortAccountsByCreation(accounts)
	return accounts, nil
}

// AdjustFunds applies delta, refusing any adjustment that would leave the
// balance negative
func (s *MemoryStore) AdjustFunds(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return decimal.Zero, models.ErrAccountNotFound
	}

	newFunds := account.Funds.Add(delta)
	if newFunds.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: adjustment of %s would drive funds negative", models.ErrInsufficientFunds, delta)
	}

	account.Funds = newFunds
	return newFunds, nil
}

// TransactionsForAccount returns the account's ledger entries in commit order
func (s *MemoryStore) TransactionsForAccount(ctx context.Context, accountID uuid.UUID) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txns []models.Transaction
	for _, txn := range s.entries {
		if txn.AccountID == accountID {
			txns = append(txns, txn)
		}
	}
	return txns, nil
}

// CommitTrade atomically applies the funds delta and appends the entry
func (s *MemoryStore) CommitTrade(ctx context.Context, fundsDelta decimal.Decimal, txn *models.Transaction) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[txn.AccountID]
	if !ok {
		return decimal.Zero, models.ErrAccountNotFound
	}

	newFunds := account.Funds.Add(fundsDelta)
	if newFunds.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: trade would drive funds to %s", models.ErrInsufficientFunds, newFunds)
	}

	account.Funds = newFunds
	s.entries = append(s.entries, *txn)
	return newFunds, nil
}

// DeleteAccountCascade removes the account and all of its entries as one
// atomic unit
func (s *MemoryStore) DeleteAccountCascade(ctx context.Context, accountID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[accountID]; !ok {
		return models.ErrAccountNotFound
	}

	delete(s.accounts, accountID)

	kept := s.entries[:0]
	for _, txn := range s.entries {
		if txn.AccountID != accountID {
			kept = append(kept, txn)
		}
	}
	s.entries = kept
	return nil
}

// LedgerLength returns the total number of committed entries across all
// accounts. Used by tests to assert that rejected trades append nothing.
func (s *MemoryStore) LedgerLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func sortAccountsByCreation(accounts []models.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
}
