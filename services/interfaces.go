package services

import (
	"context"

	"github.com/shopspring/decimal"

	"paper-trader/ledger"
	"paper-trader/models"
)

// MarketDataServiceInterface defines the market data operations consumed by
// the application layer
type MarketDataServiceInterface interface {
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	GetLatestTrade(ctx context.Context, symbol string) (*models.Quote, error)
}

// NewsServiceInterface defines the news operations
type NewsServiceInterface interface {
	GetHeadlines(ctx context.Context, limit int) ([]models.NewsArticle, error)
}

// ForecastServiceInterface defines the forecasting operations
type ForecastServiceInterface interface {
	Forecast(ctx context.Context, symbol string, currentPrice decimal.Decimal, horizon string) (*models.Forecast, error)
}

// Compile-time interface verification
var _ MarketDataServiceInterface = (*MarketDataService)(nil)
var _ NewsServiceInterface = (*NewsService)(nil)
var _ ForecastServiceInterface = (*ForecastService)(nil)
var _ ledger.PriceSource = (*MarketDataService)(nil)
var _ ledger.PriceSource = (*StaticPriceSource)(nil)
