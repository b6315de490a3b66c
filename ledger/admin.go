package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"paper-trader/models"
	"paper-trader/observability"
)

// Identity is the acting caller as reported by the identity provider. The
// core trusts it as given; authentication happens upstream.
type Identity struct {
	AccountID uuid.UUID
	IsAdmin   bool
}

// Admin is the privileged maintenance path. Deleting an account bypasses the
// normal trade invariants: it is an administrative exception, not a trade.
type Admin struct {
	store    Store
	executor *Executor
}

// NewAdmin creates the admin path over the given store. The executor is
// needed so the cascade can hold the account's trade lock.
func NewAdmin(store Store, executor *Executor) *Admin {
	return &Admin{store: store, executor: executor}
}

// DeleteAccount removes the account and cascades deletion of all its ledger
// entries. Either everything is gone or nothing is; no partial deletion is
// observable. Callers without the admin capability are refused.
func (a *Admin) DeleteAccount(ctx context.Context, caller Identity, accountID uuid.UUID) error {
	if !caller.IsAdmin {
		return fmt.Errorf("%w: account deletion requires admin capability", models.ErrNotAuthorized)
	}

	// Hold the account's trade lock so no commit can interleave with the
	// cascade.
	lock := a.executor.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	if err := a.store.DeleteAccountCascade(ctx, accountID); err != nil {
		return err
	}

	observability.Info("account deleted by admin",
		"account_id", accountID, "admin_id", caller.AccountID)
	observability.GetMetrics().RecordAdminDeletion()

	return nil
}

// ListAccounts returns every account, admin only
func (a *Admin) ListAccounts(ctx context.Context, caller Identity) ([]models.Account, error) {
	if !caller.IsAdmin {
		return nil, fmt.Errorf("%w: account listing requires admin capability", models.ErrNotAuthorized)
	}
	return a.store.ListAccounts(ctx)
}
