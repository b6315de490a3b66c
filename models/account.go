package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account holds a user's identity and cash balance. Funds are mutated only
// through the trade executor or the admin override.
type Account struct {
	ID        uuid.UUID       `json:"id"`
	Funds     decimal.Decimal `json:"funds"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewAccount creates an account with the given starting funds
func NewAccount(funds decimal.Decimal) *Account {
	return &Account{
		ID:        uuid.New(),
		Funds:     funds,
		CreatedAt: time.Now(),
	}
}

// CanAfford reports whether the account can cover a purchase of the given cost
func (a *Account) CanAfford(cost decimal.Decimal) bool {
	return a.Funds.GreaterThanOrEqual(cost)
}
