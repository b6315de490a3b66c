package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one committed ledger entry. Entries are append-only and
// immutable; they are never updated or reordered, and are removed only by the
// admin cascade delete.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"account_id"`
	Symbol    string          `json:"symbol"`
	Side      TradeSide       `json:"side"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// Valid reports whether the side is one of the two known values
func (s TradeSide) Valid() bool {
	return s == TradeSideBuy || s == TradeSideSell
}

// NewTransaction creates a ledger entry for a validated trade
func NewTransaction(accountID uuid.UUID, symbol string, side TradeSide, quantity int64, price decimal.Decimal) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		AccountID: accountID,
		Symbol:    symbol,
		Side:      side,
		Quantity:  quantity,
		Price:     price,
		CreatedAt: time.Now(),
	}
}

// TotalValue returns price multiplied by quantity
func (t *Transaction) TotalValue() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Quantity))
}
