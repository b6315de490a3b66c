package models

import "errors"

// Expected, recoverable trade outcomes. These are returned to callers as
// structured rejection reasons, never as panics.
var (
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInvalidPrice         = errors.New("price must be positive")
	ErrInvalidSymbol        = errors.New("symbol must not be empty")
	ErrInvalidSide          = errors.New("side must be BUY or SELL")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrAccountNotFound      = errors.New("account not found")
	ErrPriceUnavailable     = errors.New("price unavailable")
	ErrNotAuthorized        = errors.New("not authorized")
)

// ErrLedgerIntegrity is fatal: a fold over committed history produced a
// negative net quantity, which means the ledger itself is corrupt. Processing
// for the affected account must halt; this is never a user error.
var ErrLedgerIntegrity = errors.New("ledger integrity violation")

// RejectionReason is the machine-readable reason attached to a rejected trade
type RejectionReason string

const (
	ReasonInvalidQuantity      RejectionReason = "invalid_quantity"
	ReasonInvalidPrice         RejectionReason = "invalid_price"
	ReasonInvalidSymbol        RejectionReason = "invalid_symbol"
	ReasonInvalidSide          RejectionReason = "invalid_side"
	ReasonInsufficientFunds    RejectionReason = "insufficient_funds"
	ReasonInsufficientHoldings RejectionReason = "insufficient_holdings"
	ReasonAccountNotFound      RejectionReason = "account_not_found"
)

// ReasonForError maps an expected validation error to its rejection reason.
// The second return is false for errors that are not trade rejections.
func ReasonForError(err error) (RejectionReason, bool) {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		return ReasonInvalidQuantity, true
	case errors.Is(err, ErrInvalidPrice):
		return ReasonInvalidPrice, true
	case errors.Is(err, ErrInvalidSymbol):
		return ReasonInvalidSymbol, true
	case errors.Is(err, ErrInvalidSide):
		return ReasonInvalidSide, true
	case errors.Is(err, ErrInsufficientFunds):
		return ReasonInsufficientFunds, true
	case errors.Is(err, ErrInsufficientHoldings):
		return ReasonInsufficientHoldings, true
	case errors.Is(err, ErrAccountNotFound):
		return ReasonAccountNotFound, true
	}
	return "", false
}
