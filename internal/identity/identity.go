// Package identity resolves the acting caller for each request. It is the
// boundary to the external identity provider: the headers it reads are
// assumed to be set by an authenticating proxy, and the core trusts them as
// given.
package identity

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"paper-trader/ledger"
)

// Header names populated by the upstream identity provider
const (
	AccountHeader = "X-Account-ID"
	AdminHeader   = "X-Admin"
)

type contextKey struct{}

// Middleware extracts the caller identity from request headers and attaches
// it to the request context. Requests without an account header still pass
// through; handlers that need an identity reject them.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var caller ledger.Identity

		if raw := r.Header.Get(AccountHeader); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				caller.AccountID = id
			}
		}
		if raw := r.Header.Get(AdminHeader); raw != "" {
			if isAdmin, err := strconv.ParseBool(raw); err == nil {
				caller.IsAdmin = isAdmin
			}
		}

		ctx := context.WithValue(r.Context(), contextKey{}, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the caller identity attached by Middleware. The second
// return is false when no identity was resolved.
func FromContext(ctx context.Context) (ledger.Identity, bool) {
	caller, ok := ctx.Value(contextKey{}).(ledger.Identity)
	if !ok || caller.AccountID == uuid.Nil {
		return caller, false
	}
	return caller, true
}

// AdminFromContext returns the identity only if it carries the admin flag
func AdminFromContext(ctx context.Context) (ledger.Identity, bool) {
	caller, _ := ctx.Value(contextKey{}).(ledger.Identity)
	return caller, caller.IsAdmin
}
