package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paper-trader/models"
	"paper-trader/observability"
)

// Valuator aggregates an account's open positions into a valued portfolio.
// Price lookups go through the external market data provider and never run
// under the account lock; a failed lookup surfaces the symbol in
// Portfolio.Unpriced instead of pricing it at zero.
type Valuator struct {
	store  Store
	calc   *Calculator
	prices PriceSource
}

// NewValuator creates a Valuator over the given store and price source
func NewValuator(store Store, prices PriceSource) *Valuator {
	return &Valuator{
		store:  store,
		calc:   NewCalculator(store),
		prices: prices,
	}
}

// Valuate builds the account's portfolio at current prices
func (v *Valuator) Valuate(ctx context.Context, accountID uuid.UUID) (*models.Portfolio, error) {
	account, err := v.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	open, err := v.calc.OpenPositions(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive positions for %s: %w", accountID, err)
	}

	portfolio := &models.Portfolio{
		AccountID:  account.ID,
		Funds:      account.Funds,
		Holdings:   make([]models.ValuedPosition, 0, len(open)),
		TotalValue: decimal.Zero,
	}

	for _, pos := range open {
		price, err := v.prices.CurrentPrice(ctx, pos.Symbol)
		if err != nil {
			observability.Warn("price unavailable, excluding from valuation",
				"account_id", accountID, "symbol", pos.Symbol, "error", err)
			observability.GetMetrics().RecordPriceLookupFailure(pos.Symbol)
			portfolio.Unpriced = append(portfolio.Unpriced, pos.Symbol)
			continue
		}

		valued := models.ValuedPosition{
			Position:     pos,
			CurrentPrice: price,
			MarketValue:  pos.MarketValue(price),
			UnrealizedPL: pos.UnrealizedPL(price),
		}
		portfolio.Holdings = append(portfolio.Holdings, valued)
		portfolio.TotalValue = portfolio.TotalValue.Add(valued.MarketValue)
	}

	observability.GetMetrics().RecordPortfolioValuation()
	return portfolio, nil
}
