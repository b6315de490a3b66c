package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paper-trader/config"
	"paper-trader/ledger"
	"paper-trader/models"
	"paper-trader/services"
)

// App wires the ledger engine and its collaborators behind one facade for
// the API layer. All dependencies are interfaces so handlers can be tested
// against fakes.
type App struct {
	cfg      *config.Config
	store    ledger.Store
	executor *ledger.Executor
	calc     *ledger.Calculator
	valuator *ledger.Valuator
	admin    *ledger.Admin

	marketData services.MarketDataServiceInterface
	news       services.NewsServiceInterface
	forecast   services.ForecastServiceInterface

	health func(ctx context.Context) error
}

// Option configures optional App collaborators
type Option func(*App)

// WithNews attaches the news collaborator
func WithNews(news services.NewsServiceInterface) Option {
	return func(a *App) { a.news = news }
}

// WithForecast attaches the forecasting collaborator
func WithForecast(forecast services.ForecastServiceInterface) Option {
	return func(a *App) { a.forecast = forecast }
}

// WithHealthCheck attaches a storage health probe
func WithHealthCheck(health func(ctx context.Context) error) Option {
	return func(a *App) { a.health = health }
}

// New creates the application facade over a store, a price source, and the
// market data service used for raw quotes
func New(cfg *config.Config, store ledger.Store, prices ledger.PriceSource, marketData services.MarketDataServiceInterface, opts ...Option) *App {
	executor := ledger.NewExecutor(store)

	a := &App{
		cfg:        cfg,
		store:      store,
		executor:   executor,
		calc:       ledger.NewCalculator(store),
		valuator:   ledger.NewValuator(store, prices),
		admin:      ledger.NewAdmin(store, executor),
		marketData: marketData,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CreateAccount creates a new trading account seeded with the configured
// starting funds
func (a *App) CreateAccount(ctx context.Context) (*models.Account, error) {
	account := models.NewAccount(a.cfg.Trading.StartingFunds)
	if err := a.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ExecuteTrade validates and commits a trade for the acting account
func (a *App) ExecuteTrade(ctx context.Context, accountID uuid.UUID, symbol string, quantity int64, price decimal.Decimal, side models.TradeSide) (*ledger.TradeResult, error) {
	return a.executor.Execute(ctx, accountID, symbol, quantity, price, side)
}

// GetPortfolio returns the account's portfolio valued at current prices
func (a *App) GetPortfolio(ctx context.Context, accountID uuid.UUID) (*models.Portfolio, error) {
	return a.valuator.Valuate(ctx, accountID)
}

// GetPositions returns the account's open positions
func (a *App) GetPositions(ctx context.Context, accountID uuid.UUID) ([]models.Position, error) {
	if _, err := a.store.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return a.calc.OpenPositions(ctx, accountID)
}

// GetTrades returns the account's ledger entries in commit order
func (a *App) GetTrades(ctx context.Context, accountID uuid.UUID) ([]models.Transaction, error) {
	if _, err := a.store.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return a.store.TransactionsForAccount(ctx, accountID)
}

// GetQuote returns the latest market quote for a symbol
func (a *App) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if a.marketData == nil {
		return nil, models.ErrPriceUnavailable
	}
	return a.marketData.GetLatestTrade(ctx, symbol)
}

// GetNews returns the latest market headlines
func (a *App) GetNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	if a.news == nil {
		return nil, fmt.Errorf("news service not configured")
	}
	return a.news.GetHeadlines(ctx, limit)
}

// GetForecast returns a price outlook for a symbol. It prices the symbol
// first so the forecaster sees the same market data the valuator uses.
func (a *App) GetForecast(ctx context.Context, symbol, horizon string) (*models.Forecast, error) {
	if a.forecast == nil {
		return nil, fmt.Errorf("forecast service not configured")
	}
	if a.marketData == nil {
		return nil, models.ErrPriceUnavailable
	}
	price, err := a.marketData.CurrentPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return a.forecast.Forecast(ctx, symbol, price, horizon)
}

// AdminDeleteAccount removes an account and its ledger entries, admin only
func (a *App) AdminDeleteAccount(ctx context.Context, caller ledger.Identity, accountID uuid.UUID) error {
	return a.admin.DeleteAccount(ctx, caller, accountID)
}

// AdminListAccounts returns all accounts, admin only
func (a *App) AdminListAccounts(ctx context.Context, caller ledger.Identity) ([]models.Account, error) {
	return a.admin.ListAccounts(ctx, caller)
}

// Symbols returns the tradable symbol whitelist
func (a *App) Symbols() []string {
	return a.cfg.Trading.Symbols
}

// Health probes storage, if a probe was configured
func (a *App) Health(ctx context.Context) error {
	if a.health == nil {
		return nil
	}
	return a.health(ctx)
}
