package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValuedPosition is a position priced by the market data provider
type ValuedPosition struct {
	Position
	CurrentPrice decimal.Decimal `json:"current_price"`
	MarketValue  decimal.Decimal `json:"market_value"`
	UnrealizedPL decimal.Decimal `json:"unrealized_pl"`
}

// Portfolio is an account's full set of positions valued at current prices.
// Symbols whose price lookup failed are listed in Unpriced and excluded from
// TotalValue; the gap is surfaced, never silently treated as zero.
type Portfolio struct {
	AccountID  uuid.UUID        `json:"account_id"`
	Funds      decimal.Decimal  `json:"funds"`
	Holdings   []ValuedPosition `json:"holdings"`
	TotalValue decimal.Decimal  `json:"total_value"`
	Unpriced   []string         `json:"unpriced,omitempty"`
}

// Equity returns cash plus the value of all priced holdings
func (p *Portfolio) Equity() decimal.Decimal {
	return p.Funds.Add(p.TotalValue)
}
