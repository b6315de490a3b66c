package api

import (
	"net/http"
	"time"

	"paper-trader/config"
	"paper-trader/internal/identity"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures a Chi router with all routes
func NewRouter(h *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(cfg.HTTP.RequestTimeoutSec) * time.Second))
	r.Use(CORSMiddleware(cfg.HTTP.CORSAllowedOrigins))
	r.Use(MetricsMiddleware)
	r.Use(identity.Middleware)

	// Metrics endpoint for Prometheus
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", h.HandleHealth)

		// Accounts
		r.Post("/accounts", h.HandleCreateAccount)

		// Trading
		r.Post("/trades", h.HandleExecuteTrade)
		r.Get("/trades", h.HandleGetTrades)
		r.Get("/portfolio", h.HandleGetPortfolio)
		r.Get("/positions", h.HandleGetPositions)

		// Market data
		r.Get("/symbols", h.HandleGetSymbols)
		r.Get("/quote/{symbol}", h.HandleGetQuote)
		r.Get("/news", h.HandleGetNews)
		r.Get("/forecast/{symbol}", h.HandleGetForecast)

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.Get("/accounts", h.HandleAdminListAccounts)
			r.Delete("/accounts/{id}", h.HandleAdminDeleteAccount)
		})
	})

	return r
}
