package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"

	"paper-trader/models"
	"paper-trader/observability"
)

// MarketDataService supplies current prices from Alpaca's market data API.
// It satisfies ledger.PriceSource: every failure, upstream or local, maps to
// models.ErrPriceUnavailable so callers never mistake an outage for a zero
// price.
type MarketDataService struct {
	dataClient *marketdata.Client
}

// NewMarketDataService creates a MarketDataService instance
func NewMarketDataService(apiKey, apiSecret string) *MarketDataService {
	dataClient := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	})

	return &MarketDataService{dataClient: dataClient}
}

// CurrentPrice returns the latest trade price for a symbol
func (s *MarketDataService) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	quote, err := s.GetLatestTrade(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return quote.Last, nil
}

// GetLatestTrade returns the latest trade for a symbol as a quote
func (s *MarketDataService) GetLatestTrade(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(symbol)

	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerMarketData, "latest_trade")
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI(BreakerMarketData, "latest_trade")

	trade, err := WithCircuitBreaker(ctx, BreakerMarketData, func() (*marketdata.Trade, error) {
		var t *marketdata.Trade
		retryErr := WithRetry(ctx, DefaultRetryConfig, func() error {
			var reqErr error
			t, reqErr = s.dataClient.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
			return reqErr
		})
		return t, retryErr
	})
	if err != nil {
		metrics.RecordExternalAPIError(BreakerMarketData, "latest_trade", "request_failed")
		return nil, fmt.Errorf("%w: %s: %v", models.ErrPriceUnavailable, symbol, err)
	}
	if trade == nil || trade.Price <= 0 {
		metrics.RecordExternalAPIError(BreakerMarketData, "latest_trade", "empty_price")
		return nil, fmt.Errorf("%w: %s: no usable trade price", models.ErrPriceUnavailable, symbol)
	}

	return &models.Quote{
		Symbol:    symbol,
		Last:      decimal.NewFromFloat(trade.Price),
		Timestamp: trade.Timestamp,
	}, nil
}

// GetQuote returns the latest bid/ask quote for a symbol
func (s *MarketDataService) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(symbol)

	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerMarketData, "latest_quote")
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI(BreakerMarketData, "latest_quote")

	quote, err := WithCircuitBreaker(ctx, BreakerMarketData, func() (*marketdata.Quote, error) {
		var q *marketdata.Quote
		retryErr := WithRetry(ctx, DefaultRetryConfig, func() error {
			var reqErr error
			q, reqErr = s.dataClient.GetLatestQuote(symbol, marketdata.GetLatestQuoteRequest{})
			return reqErr
		})
		return q, retryErr
	})
	if err != nil {
		metrics.RecordExternalAPIError(BreakerMarketData, "latest_quote", "request_failed")
		return nil, fmt.Errorf("%w: %s: %v", models.ErrPriceUnavailable, symbol, err)
	}
	if quote == nil {
		metrics.RecordExternalAPIError(BreakerMarketData, "latest_quote", "empty_quote")
		return nil, fmt.Errorf("%w: %s: empty quote", models.ErrPriceUnavailable, symbol)
	}

	return &models.Quote{
		Symbol:    symbol,
		Bid:       decimal.NewFromFloat(quote.BidPrice),
		Ask:       decimal.NewFromFloat(quote.AskPrice),
		Last:      decimal.NewFromFloat(quote.AskPrice),
		Timestamp: quote.Timestamp,
	}, nil
}

// StaticPriceSource serves fixed prices from a table. It backs development
// mode and tests where no market data credentials exist.
type StaticPriceSource struct {
	prices map[string]decimal.Decimal
}

// NewStaticPriceSource creates a price source over a fixed symbol→price table
func NewStaticPriceSource(prices map[string]decimal.Decimal) *StaticPriceSource {
	table := make(map[string]decimal.Decimal, len(prices))
	for symbol, price := range prices {
		table[strings.ToUpper(symbol)] = price
	}
	return &StaticPriceSource{prices: table}
}

// CurrentPrice returns the fixed price, or ErrPriceUnavailable for unknown symbols
func (s *StaticPriceSource) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	price, ok := s.prices[strings.ToUpper(symbol)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s: not in static price table", models.ErrPriceUnavailable, symbol)
	}
	return price, nil
}

// GetLatestTrade returns the fixed price as a synthetic trade quote
func (s *StaticPriceSource) GetLatestTrade(ctx context.Context, symbol string) (*models.Quote, error) {
	price, err := s.CurrentPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &models.Quote{
		Symbol:    strings.ToUpper(symbol),
		Last:      price,
		Timestamp: time.Now(),
	}, nil
}
