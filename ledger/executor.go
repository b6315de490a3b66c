package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paper-trader/models"
	"paper-trader/observability"
)

// TradeResult is the terminal outcome of a proposed trade: committed with the
// new account state, or rejected with a reason. A rejected trade has no
// effect on funds or the ledger.
type TradeResult struct {
	Committed   bool                   `json:"committed"`
	Reason      models.RejectionReason `json:"reason,omitempty"`
	NewFunds    decimal.Decimal        `json:"new_funds"`
	Position    *models.Position       `json:"position,omitempty"`
	Transaction *models.Transaction    `json:"transaction,omitempty"`
}

// Executor validates proposed trades against current funds and holdings and
// atomically commits them. All commits for a given account are serialized:
// the snapshot-validate-commit sequence runs under a per-account lock, so no
// two trades for the same account can validate against the same stale state.
type Executor struct {
	store Store
	calc  *Calculator

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewExecutor creates an Executor over the given store
func NewExecutor(store Store) *Executor {
	return &Executor{
		store: store,
		calc:  NewCalculator(store),
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// accountLock returns the mutex for one account, creating it on first use.
// Locks are never acquired for two accounts at once, so there is no ordering
// hazard.
func (e *Executor) accountLock(accountID uuid.UUID) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[accountID] = lock
	}
	return lock
}

// validateOrder checks the static preconditions that need no account state
func validateOrder(symbol string, quantity int64, price decimal.Decimal, side models.TradeSide) error {
	if strings.TrimSpace(symbol) == "" {
		return models.ErrInvalidSymbol
	}
	if quantity <= 0 {
		return models.ErrInvalidQuantity
	}
	if !price.IsPositive() {
		return models.ErrInvalidPrice
	}
	if !side.Valid() {
		return fmt.Errorf("%w: got %q", models.ErrInvalidSide, side)
	}
	return nil
}

// Execute validates and, if valid, atomically commits a trade. Expected
// rejections come back as a non-committed TradeResult; only storage failures
// and ledger corruption are returned as errors.
func (e *Executor) Execute(ctx context.Context, accountID uuid.UUID, symbol string, quantity int64, price decimal.Decimal, side models.TradeSide) (*TradeResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	start := time.Now()
	log := observability.With(
		"account_id", accountID,
		"symbol", symbol,
		"side", side,
		"quantity", quantity,
		"price", price,
	)

	if err := validateOrder(symbol, quantity, price, side); err != nil {
		reason, ok := models.ReasonForError(err)
		if !ok {
			return nil, err
		}
		log.Info("trade rejected", "reason", reason)
		observability.GetMetrics().RecordTradeRejected(string(side), string(reason))
		return &TradeResult{Committed: false, Reason: reason}, nil
	}

	lock := e.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	account, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			log.Info("trade rejected", "reason", models.ReasonAccountNotFound)
			observability.GetMetrics().RecordTradeRejected(string(side), string(models.ReasonAccountNotFound))
			return &TradeResult{Committed: false, Reason: models.ReasonAccountNotFound}, nil
		}
		return nil, fmt.Errorf("failed to load account %s: %w", accountID, err)
	}

	positions, err := e.calc.Positions(ctx, accountID)
	if err != nil {
		if errors.Is(err, models.ErrLedgerIntegrity) {
			log.Error("ledger integrity violation, halting trades for account", "error", err)
			observability.GetMetrics().RecordLedgerIntegrityViolation()
		}
		return nil, err
	}

	var held int64
	if pos, ok := positions[symbol]; ok {
		held = pos.NetQuantity
	}

	cost := price.Mul(decimal.NewFromInt(quantity))

	var fundsDelta decimal.Decimal
	switch side {
	case models.TradeSideBuy:
		if cost.GreaterThan(account.Funds) {
			log.Info("trade rejected", "reason", models.ReasonInsufficientFunds, "funds", account.Funds, "cost", cost)
			observability.GetMetrics().RecordTradeRejected(string(side), string(models.ReasonInsufficientFunds))
			return &TradeResult{Committed: false, Reason: models.ReasonInsufficientFunds, NewFunds: account.Funds}, nil
		}
		fundsDelta = cost.Neg()
	case models.TradeSideSell:
		if quantity > held {
			log.Info("trade rejected", "reason", models.ReasonInsufficientHoldings, "held", held)
			observability.GetMetrics().RecordTradeRejected(string(side), string(models.ReasonInsufficientHoldings))
			return &TradeResult{Committed: false, Reason: models.ReasonInsufficientHoldings, NewFunds: account.Funds}, nil
		}
		fundsDelta = cost
	}

	txn := models.NewTransaction(accountID, symbol, side, quantity, price)

	newFunds, err := e.store.CommitTrade(ctx, fundsDelta, txn)
	if err != nil {
		return nil, fmt.Errorf("failed to commit trade for %s: %w", accountID, err)
	}

	// Fold the new entry into the snapshot so the result carries the
	// post-commit position. This cannot fail: the entry passed the same
	// checks the fold enforces.
	position := positions[symbol]
	if position == nil {
		position = &models.Position{AccountID: accountID, Symbol: symbol, CostBasis: decimal.Zero}
	}
	if err := ApplyTransaction(position, *txn); err != nil {
		return nil, err
	}

	observability.GetMetrics().RecordTradeCommitted(string(side), symbol)
	observability.GetMetrics().ObserveExecuteDuration(time.Since(start))
	log.Info("trade committed", "transaction_id", txn.ID, "new_funds", newFunds)

	return &TradeResult{
		Committed:   true,
		NewFunds:    newFunds,
		Position:    position,
		Transaction: txn,
	}, nil
}
