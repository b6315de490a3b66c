package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"paper-trader/config"
	"paper-trader/internal/api"
	"paper-trader/internal/app"
	"paper-trader/ledger"
	"paper-trader/observability"
	"paper-trader/repository"
	"paper-trader/services"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	production := os.Getenv("ENV") == "production"
	observability.InitLogger(production)
	observability.InitMetrics()

	cfg, err := config.Load()
	if err != nil {
		observability.Fatal("invalid configuration", "error", err)
	}

	ctx := context.Background()

	var (
		store       ledger.Store
		healthCheck func(ctx context.Context) error
	)
	if cfg.HasDatabase() {
		repo, err := repository.NewRepository(ctx, cfg.Database.URL)
		if err != nil {
			observability.Fatal("failed to connect to database", "error", err)
		}
		defer repo.Close()

		if err := repo.Migrate(ctx); err != nil {
			observability.Fatal("failed to run migrations", "error", err)
		}

		store = repo
		healthCheck = repo.Health
		observability.Info("connected to database")
	} else {
		store = repository.NewMemoryStore()
		observability.Warn("DATABASE_URL not set, using in-memory store; state is not persisted")
	}

	var (
		prices     ledger.PriceSource
		marketData services.MarketDataServiceInterface
	)
	if cfg.HasAlpaca() {
		svc := services.NewMarketDataService(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret)
		prices = svc
		marketData = svc
	} else {
		// Development fallback: fixed prices for the default symbols
		static := services.NewStaticPriceSource(map[string]decimal.Decimal{
			"AAPL": decimal.NewFromInt(150), "MSFT": decimal.NewFromInt(300),
			"GOOGL": decimal.NewFromInt(120), "AMZN": decimal.NewFromInt(130),
			"TSLA": decimal.NewFromInt(200), "NVDA": decimal.NewFromInt(450),
		})
		prices = static
		marketData = static
		observability.Warn("Alpaca credentials not set, using static prices")
	}

	opts := []app.Option{
		app.WithNews(services.NewNewsService()),
	}
	if healthCheck != nil {
		opts = append(opts, app.WithHealthCheck(healthCheck))
	}
	if forecastSvc, err := services.NewForecastService(ctx, cfg.Bedrock.Region, cfg.Bedrock.ModelID); err == nil {
		opts = append(opts, app.WithForecast(forecastSvc))
	} else {
		observability.Warn("forecast service unavailable", "error", err)
	}

	application := app.New(cfg, store, prices, marketData, opts...)

	handler := api.NewHandler(application)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	go func() {
		observability.Info("server listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			observability.Fatal("server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	observability.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Error("graceful shutdown failed", "error", err)
	}
}
