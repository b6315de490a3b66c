package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"paper-trader/models"
)

// GetAccount returns a single account by ID
func (r *Repository) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var a models.Account
	err := r.db.QueryRow(ctx, `
		SELECT id, funds, created_at FROM accounts WHERE id = $1
	`, id).Scan(&a.ID, &a.Funds, &a.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	return &a, nil
}

// CreateAccount creates a new account record
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO accounts (id, funds, created_at)
		VALUES ($1, $2, $3)
	`, account.ID, account.Funds, account.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// ListAccounts returns all accounts ordered by creation time
func (r *Repository) ListAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, funds, created_at FROM accounts ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Funds, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}

	return accounts, nil
}

// AdjustFunds applies delta to the account balance. The WHERE clause refuses
// any adjustment that would drive funds below zero, as a second gate beyond
// the executor's own validation.
func (r *Repository) AdjustFunds(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	var funds decimal.Decimal
	err := r.db.QueryRow(ctx, `
		UPDATE accounts
		SET funds = funds + $2
		WHERE id = $1 AND funds + $2 >= 0
		RETURNING funds
	`, id, delta).Scan(&funds)

	if errors.Is(err, pgx.ErrNoRows) {
		// Either the account is missing or the adjustment would go negative
		if _, getErr := r.GetAccount(ctx, id); getErr != nil {
			return decimal.Zero, getErr
		}
		return decimal.Zero, fmt.Errorf("%w: adjustment of %s would drive funds negative", models.ErrInsufficientFunds, delta)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to adjust funds: %w", err)
	}

	return funds, nil
}

// lockAccountFunds reads the account balance under a row lock. Must be called
// inside a transaction; the lock is held until the transaction finishes.
func (r *Repository) lockAccountFunds(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	var funds decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT funds FROM accounts WHERE id = $1 FOR UPDATE
	`, id).Scan(&funds)

	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, models.ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to lock account row: %w", err)
	}

	return funds, nil
}
