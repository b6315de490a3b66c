package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paper-trader/models"
)

// Calculator derives positions by folding ledger entries. It holds no state
// of its own: positions are a pure function of committed history.
type Calculator struct {
	store Store
}

// NewCalculator creates a Calculator backed by the given store
func NewCalculator(store Store) *Calculator {
	return &Calculator{store: store}
}

// FoldPositions folds transactions, assumed to be in commit order, into
// per-symbol positions using the average-cost method. A fold that drives any
// net quantity negative returns models.ErrLedgerIntegrity: committed history
// can never contain an oversell, so a negative result means the ledger is
// corrupt.
func FoldPositions(accountID uuid.UUID, txns []models.Transaction) (map[string]*models.Position, error) {
	positions := make(map[string]*models.Position)

	for _, txn := range txns {
		pos, ok := positions[txn.Symbol]
		if !ok {
			pos = &models.Position{
				AccountID: accountID,
				Symbol:    txn.Symbol,
				CostBasis: decimal.Zero,
			}
			positions[txn.Symbol] = pos
		}
		if err := ApplyTransaction(pos, txn); err != nil {
			return nil, err
		}
	}

	return positions, nil
}

// ApplyTransaction folds a single committed entry into a position. BUY adds
// quantity and cost; SELL removes quantity and, per the average-cost method,
// basis proportional to the fraction of the holding sold.
func ApplyTransaction(pos *models.Position, txn models.Transaction) error {
	switch txn.Side {
	case models.TradeSideBuy:
		pos.NetQuantity += txn.Quantity
		pos.CostBasis = pos.CostBasis.Add(txn.TotalValue())
	case models.TradeSideSell:
		if txn.Quantity > pos.NetQuantity {
			return fmt.Errorf("%w: account %s sold %d %s with only %d held",
				models.ErrLedgerIntegrity, pos.AccountID, txn.Quantity, txn.Symbol, pos.NetQuantity)
		}
		sold := decimal.NewFromInt(txn.Quantity)
		held := decimal.NewFromInt(pos.NetQuantity)
		pos.CostBasis = pos.CostBasis.Sub(pos.CostBasis.Mul(sold).Div(held))
		pos.NetQuantity -= txn.Quantity
		if pos.NetQuantity == 0 {
			pos.CostBasis = decimal.Zero
		}
	default:
		return fmt.Errorf("%w: unknown side %q in entry %s",
			models.ErrLedgerIntegrity, txn.Side, txn.ID)
	}
	return nil
}

// Positions returns all of an account's current positions, open or flat
func (c *Calculator) Positions(ctx context.Context, accountID uuid.UUID) (map[string]*models.Position, error) {
	txns, err := c.store.TransactionsForAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger for %s: %w", accountID, err)
	}
	return FoldPositions(accountID, txns)
}

// OpenPositions returns only positions with a positive net quantity, sorted
// by symbol for stable output
func (c *Calculator) OpenPositions(ctx context.Context, accountID uuid.UUID) ([]models.Position, error) {
	bySymbol, err := c.Positions(ctx, accountID)
	if err != nil {
		return nil, err
	}

	open := make([]models.Position, 0, len(bySymbol))
	for _, pos := range bySymbol {
		if pos.NetQuantity > 0 {
			open = append(open, *pos)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Symbol < open[j].Symbol })

	return open, nil
}

// NetQuantity returns the account's current net holding for one symbol
func (c *Calculator) NetQuantity(ctx context.Context, accountID uuid.UUID, symbol string) (int64, error) {
	bySymbol, err := c.Positions(ctx, accountID)
	if err != nil {
		return 0, err
	}
	pos, ok := bySymbol[symbol]
	if !ok {
		return 0, nil
	}
	return pos.NetQuantity, nil
}
