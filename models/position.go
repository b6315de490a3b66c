package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Position is the derived net holding for one account/symbol pair. It is
// never stored; it is recomputed on demand by folding the account's ledger
// entries in commit order.
type Position struct {
	AccountID   uuid.UUID       `json:"account_id"`
	Symbol      string          `json:"symbol"`
	NetQuantity int64           `json:"net_quantity"`
	CostBasis   decimal.Decimal `json:"cost_basis"`
}

// AvgCost returns the average cost per share, or zero for an empty position
func (p *Position) AvgCost() decimal.Decimal {
	if p.NetQuantity == 0 {
		return decimal.Zero
	}
	return p.CostBasis.Div(decimal.NewFromInt(p.NetQuantity))
}

// MarketValue returns the position's value at the given price
func (p *Position) MarketValue(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(p.NetQuantity))
}

// UnrealizedPL returns the gain or loss against cost basis at the given price
func (p *Position) UnrealizedPL(price decimal.Decimal) decimal.Decimal {
	return p.MarketValue(price).Sub(p.CostBasis)
}
