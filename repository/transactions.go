package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paper-trader/models"
)

// TransactionsForAccount returns the account's ledger entries in commit order
func (r *Repository) TransactionsForAccount(ctx context.Context, accountID uuid.UUID) ([]models.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, symbol, side, quantity, price, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY seq
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Symbol, &t.Side, &t.Quantity, &t.Price, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}

	return txns, nil
}

// appendTransaction inserts one ledger entry. Entries are append-only: there
// is no update or single-row delete anywhere in this package.
func (r *Repository) appendTransaction(ctx context.Context, txn *models.Transaction) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO transactions (id, account_id, symbol, side, quantity, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, txn.ID, txn.AccountID, txn.Symbol, txn.Side, txn.Quantity, txn.Price, txn.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	return nil
}

// CommitTrade atomically applies the funds delta and appends the ledger
// entry. The account row is locked for the duration of the transaction, so
// no concurrent commit for the same account can observe a stale balance.
func (r *Repository) CommitTrade(ctx context.Context, fundsDelta decimal.Decimal, txn *models.Transaction) (decimal.Decimal, error) {
	tx, txRepo, err := r.BeginTx(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback(ctx)

	funds, err := txRepo.lockAccountFunds(ctx, txn.AccountID)
	if err != nil {
		return decimal.Zero, err
	}

	newFunds := funds.Add(fundsDelta)
	if newFunds.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: trade would drive funds to %s", models.ErrInsufficientFunds, newFunds)
	}

	if _, err := tx.Exec(ctx, `UPDATE accounts SET funds = $2 WHERE id = $1`, txn.AccountID, newFunds); err != nil {
		return decimal.Zero, fmt.Errorf("failed to update funds: %w", err)
	}
	if err := txRepo.appendTransaction(ctx, txn); err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit trade: %w", err)
	}

	return newFunds, nil
}

// DeleteAccountCascade removes the account and all of its ledger entries in
// one transaction. Either everything is deleted or nothing is.
func (r *Repository) DeleteAccountCascade(ctx context.Context, accountID uuid.UUID) error {
	tx, txRepo, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := txRepo.lockAccountFunds(ctx, accountID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, accountID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cascade delete: %w", err)
	}

	return nil
}
