package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Trade metrics
	TradesCommittedTotal      *prometheus.CounterVec
	TradesRejectedTotal       *prometheus.CounterVec
	ExecuteDuration           prometheus.Histogram
	LedgerIntegrityViolations prometheus.Counter

	// Portfolio metrics
	PortfolioValuationsTotal prometheus.Counter
	PriceLookupFailuresTotal *prometheus.CounterVec

	// Admin metrics
	AdminDeletionsTotal prometheus.Counter

	// External API metrics
	ExternalAPIRequestsTotal *prometheus.CounterVec
	ExternalAPIErrorsTotal   *prometheus.CounterVec
	ExternalAPIDuration      *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryTotal    *prometheus.CounterVec
	DBErrorsTotal   *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// defaultBuckets are the default histogram buckets for duration metrics (in seconds)
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// globalMetrics is the global metrics instance
var globalMetrics *Metrics

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	m := &Metrics{
		// Trade metrics
		TradesCommittedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "paper_trader",
				Subsystem: "trades",
				Name:      "committed_total",
				Help:      "Total number of committed trades",
			},
			[]string{"side", "symbol"},
		),
		TradesRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "paper_trader",
				Subsystem: "trades",
				Name:      "rejected_total",
				Help:      "Total number of rejected trades by reason",
			},
			[]string{"side", "reason"},
		),
		ExecuteDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "paper_trader",
				Subsystem: "trades",
				Name:      "execute_duration_seconds",
				Help:      "Duration of trade execution in seconds",
				Buckets:   defaultBuckets,
			},
		),
		LedgerIntegrityViolations: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "paper_trader",
				Subsystem: "ledger",
				Name:      "integrity_violations_total",
				Help:      "Total number of ledger integrity violations detected",
			},
		),

		// Portfolio metrics
		PortfolioValuationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "paper_trader",
				Subsystem: "portfolio",
				Name:      "valuations_total",
				Help:      "Total number of portfolio valuations",
			},
		),
		PriceLookupFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "paper_trader",
				Subsystem: "portfolio",
				Name:      "price_lookup_failures_total",
				Help:      "Total number of failed price lookups during valuation",
			},
			[]string{"symbol"},
		),

		// Admin metrics
		AdminDeletionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "paper_trader",
				Subsystem: "admin",
				Name:      "account_deletions_total",
				Help:      "Total number of admin account deletions",
			},
		),

		// External API metrics
		ExternalAPIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "paper_trader",
				Subsystem: "external_api",
				Name:      "requests_total",
				Help:      "Total number of external API requests",
			},
			[]string{"service", "operation"},
		),
		ExternalAPIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "paper_trader",
				Subsystem: "external_api",
				Name:      "errors_total",
				Help:      "Total number of external API errors",
			},
			[]string{"service", "operation", "error_type"},
		),
		ExternalAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "paper_trader",
				Subsystem: "external_api",
				Name:      "duration_seconds",
				Help:      "Duration of external API calls in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"service", "operation"},
		),

		// Database metrics
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "paper_trader",
				Subsystem: "database",
				Name:      "query_duration_seconds",
				Help:      "Duration of database queries in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"operation", "table"},
		),
		DBQueryTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "paper_trader",
				Subsystem: "database",
				Name:      "queries_total",
				Help:      "Total number of database queries",
			},
			[]string{"operation", "table"},
		),
		DBErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "paper_trader",
				Subsystem: "database",
				Name:      "errors_total",
				Help:      "Total number of database errors",
			},
			[]string{"operation", "table"},
		),

		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "paper_trader",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "paper_trader",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "paper_trader",
				Subsystem: "http",
				Name:      "response_size_bytes",
				Help:      "Size of HTTP responses in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "path"},
		),

		// Circuit breaker metrics
		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "paper_trader",
				Subsystem: "circuit_breaker",
				Name:      "state",
				Help:      "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
			},
			[]string{"service"},
		),
		CircuitBreakerTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "paper_trader",
				Subsystem: "circuit_breaker",
				Name:      "trips_total",
				Help:      "Total number of circuit breaker trips",
			},
			[]string{"service"},
		),
	}

	return m
}

// InitMetrics initializes the global metrics instance
func InitMetrics() *Metrics {
	globalMetrics = NewMetrics(nil)
	return globalMetrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	if globalMetrics == nil {
		return InitMetrics()
	}
	return globalMetrics
}

// RecordTradeCommitted records a committed trade
func (m *Metrics) RecordTradeCommitted(side, symbol string) {
	m.TradesCommittedTotal.WithLabelValues(side, symbol).Inc()
}

// RecordTradeRejected records a rejected trade with its reason
func (m *Metrics) RecordTradeRejected(side, reason string) {
	m.TradesRejectedTotal.WithLabelValues(side, reason).Inc()
}

// ObserveExecuteDuration records the duration of a trade execution
func (m *Metrics) ObserveExecuteDuration(duration time.Duration) {
	m.ExecuteDuration.Observe(duration.Seconds())
}

// RecordLedgerIntegrityViolation records a detected ledger corruption
func (m *Metrics) RecordLedgerIntegrityViolation() {
	m.LedgerIntegrityViolations.Inc()
}

// RecordPortfolioValuation records a completed portfolio valuation
func (m *Metrics) RecordPortfolioValuation() {
	m.PortfolioValuationsTotal.Inc()
}

// RecordPriceLookupFailure records a failed price lookup during valuation
func (m *Metrics) RecordPriceLookupFailure(symbol string) {
	m.PriceLookupFailuresTotal.WithLabelValues(symbol).Inc()
}

// RecordAdminDeletion records an admin account deletion
func (m *Metrics) RecordAdminDeletion() {
	m.AdminDeletionsTotal.Inc()
}

// RecordExternalAPIRequest records an external API request
func (m *Metrics) RecordExternalAPIRequest(service, operation string) {
	m.ExternalAPIRequestsTotal.WithLabelValues(service, operation).Inc()
}

// RecordExternalAPIError records an external API error
func (m *Metrics) RecordExternalAPIError(service, operation, errorType string) {
	m.ExternalAPIErrorsTotal.WithLabelValues(service, operation, errorType).Inc()
}

// RecordExternalAPIDuration records the duration of an external API call
func (m *Metrics) RecordExternalAPIDuration(service, operation string, duration time.Duration) {
	m.ExternalAPIDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordDBQuery records a database query
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration) {
	m.DBQueryTotal.WithLabelValues(operation, table).Inc()
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordDBError records a database error
func (m *Metrics) RecordDBError(operation, table string) {
	m.DBErrorsTotal.WithLabelValues(operation, table).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration, responseSize int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// SetCircuitBreakerState sets the current state of a circuit breaker
func (m *Metrics) SetCircuitBreakerState(service string, state int) {
	m.CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(service string) {
	m.CircuitBreakerTrips.WithLabelValues(service).Inc()
}

// Timer is a helper for timing operations
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// NewTimer creates a new timer
func (m *Metrics) NewTimer() *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: m,
	}
}

// ObserveExternalAPI records the external API duration
func (t *Timer) ObserveExternalAPI(service, operation string) {
	t.metrics.RecordExternalAPIDuration(service, operation, time.Since(t.start))
}

// ObserveDB records the database query duration
func (t *Timer) ObserveDB(operation, table string) {
	t.metrics.RecordDBQuery(operation, table, time.Since(t.start))
}

// Duration returns the elapsed time
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
