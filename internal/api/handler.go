package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paper-trader/internal/app"
	"paper-trader/internal/identity"
	"paper-trader/models"
	"paper-trader/observability"
)

// Handler handles HTTP API requests
type Handler struct {
	app *app.App
}

// NewHandler creates a new Handler
func NewHandler(application *app.App) *Handler {
	return &Handler{app: application}
}

// HandleHealth returns the health status of the application
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status": "ok",
	}

	if err := h.app.Health(r.Context()); err != nil {
		status["status"] = "degraded"
		status["storage"] = err.Error()
	}

	h.jsonResponse(w, status)
}

// HandleCreateAccount creates a new trading account with starting funds
func (h *Handler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.app.CreateAccount(r.Context())
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonResponseStatus(w, account, http.StatusCreated)
}

// tradeRequest is the body of POST /api/trades
type tradeRequest struct {
	Symbol   string          `json:"symbol"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Side     models.TradeSide `json:"side"`
}

// HandleExecuteTrade validates and commits a trade for the acting account
func (h *Handler) HandleExecuteTrade(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		h.jsonError(w, "account identity required", http.StatusUnauthorized)
		return
	}

	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.app.ExecuteTrade(r.Context(), caller.AccountID, req.Symbol, req.Quantity, req.Price, req.Side)
	if err != nil {
		if errors.Is(err, models.ErrLedgerIntegrity) {
			observability.Error("ledger integrity violation surfaced to API", "error", err)
			h.jsonError(w, "ledger integrity violation", http.StatusInternalServerError)
			return
		}
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if !result.Committed {
		// Rejections are expected outcomes: report the reason, not a 5xx
		h.jsonResponseStatus(w, result, http.StatusUnprocessableEntity)
		return
	}
	h.jsonResponse(w, result)
}

// HandleGetPortfolio returns the acting account's valued portfolio
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		h.jsonError(w, "account identity required", http.StatusUnauthorized)
		return
	}

	portfolio, err := h.app.GetPortfolio(r.Context(), caller.AccountID)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonResponse(w, portfolio)
}

// HandleGetPositions returns the acting account's open positions
func (h *Handler) HandleGetPositions(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		h.jsonError(w, "account identity required", http.StatusUnauthorized)
		return
	}

	positions, err := h.app.GetPositions(r.Context(), caller.AccountID)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonResponse(w, map[string]any{
		"positions": positions,
		"count":     len(positions),
	})
}

// HandleGetTrades returns the acting account's ledger entries in commit order
func (h *Handler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		h.jsonError(w, "account identity required", http.StatusUnauthorized)
		return
	}

	trades, err := h.app.GetTrades(r.Context(), caller.AccountID)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonResponse(w, trades)
}

// HandleGetQuote returns the latest market quote for a symbol
func (h *Handler) HandleGetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	quote, err := h.app.GetQuote(r.Context(), symbol)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonResponse(w, quote)
}

// HandleGetNews returns the latest market headlines
func (h *Handler) HandleGetNews(w http.ResponseWriter, r *http.Request) {
	limit := h.parseLimitParam(r, 20)

	articles, err := h.app.GetNews(r.Context(), limit)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	h.jsonResponse(w, articles)
}

// HandleGetForecast returns a price outlook for a symbol
func (h *Handler) HandleGetForecast(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	horizon := r.URL.Query().Get("horizon")
	if horizon == "" {
		horizon = "1y"
	}

	forecast, err := h.app.GetForecast(r.Context(), symbol, horizon)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonResponse(w, forecast)
}

// HandleGetSymbols returns the tradable symbol whitelist
func (h *Handler) HandleGetSymbols(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.app.Symbols())
}

// HandleAdminListAccounts returns all accounts, admin only
func (h *Handler) HandleAdminListAccounts(w http.ResponseWriter, r *http.Request) {
	caller, _ := identity.AdminFromContext(r.Context())

	accounts, err := h.app.AdminListAccounts(r.Context(), caller)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonResponse(w, accounts)
}

// HandleAdminDeleteAccount removes an account and its ledger entries, admin only
func (h *Handler) HandleAdminDeleteAccount(w http.ResponseWriter, r *http.Request) {
	caller, _ := identity.AdminFromContext(r.Context())

	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.jsonError(w, "invalid account id", http.StatusBadRequest)
		return
	}

	if err := h.app.AdminDeleteAccount(r.Context(), caller, accountID); err != nil {
		h.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// domainError maps domain errors to HTTP status codes
func (h *Handler) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrAccountNotFound):
		h.jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrNotAuthorized):
		h.jsonError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, models.ErrPriceUnavailable):
		h.jsonError(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, models.ErrLedgerIntegrity):
		observability.Error("ledger integrity violation surfaced to API", "error", err)
		h.jsonError(w, "ledger integrity violation", http.StatusInternalServerError)
	default:
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		observability.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) jsonResponseStatus(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		observability.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (h *Handler) parseLimitParam(r *http.Request, defaultLimit int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			return limit
		}
	}
	return defaultLimit
}
