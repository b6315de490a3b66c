package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}

	// Verify all metrics are initialized
	if m.TradesCommittedTotal == nil {
		t.Error("TradesCommittedTotal is nil")
	}
	if m.TradesRejectedTotal == nil {
		t.Error("TradesRejectedTotal is nil")
	}
	if m.ExecuteDuration == nil {
		t.Error("ExecuteDuration is nil")
	}
	if m.LedgerIntegrityViolations == nil {
		t.Error("LedgerIntegrityViolations is nil")
	}
	if m.PortfolioValuationsTotal == nil {
		t.Error("PortfolioValuationsTotal is nil")
	}
	if m.PriceLookupFailuresTotal == nil {
		t.Error("PriceLookupFailuresTotal is nil")
	}
	if m.AdminDeletionsTotal == nil {
		t.Error("AdminDeletionsTotal is nil")
	}
	if m.ExternalAPIRequestsTotal == nil {
		t.Error("ExternalAPIRequestsTotal is nil")
	}
	if m.DBQueryTotal == nil {
		t.Error("DBQueryTotal is nil")
	}
	if m.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal is nil")
	}
	if m.CircuitBreakerState == nil {
		t.Error("CircuitBreakerState is nil")
	}
}

func TestRecordTradeCommitted(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordTradeCommitted("BUY", "AAPL")
	m.RecordTradeCommitted("BUY", "AAPL")
	m.RecordTradeCommitted("SELL", "MSFT")

	buyCount := testutil.ToFloat64(m.TradesCommittedTotal.WithLabelValues("BUY", "AAPL"))
	if buyCount != 2 {
		t.Errorf("Expected BUY/AAPL count to be 2, got %f", buyCount)
	}

	sellCount := testutil.ToFloat64(m.TradesCommittedTotal.WithLabelValues("SELL", "MSFT"))
	if sellCount != 1 {
		t.Errorf("Expected SELL/MSFT count to be 1, got %f", sellCount)
	}
}

func TestRecordTradeRejected(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordTradeRejected("BUY", "insufficient_funds")
	m.RecordTradeRejected("SELL", "insufficient_holdings")
	m.RecordTradeRejected("SELL", "insufficient_holdings")

	count := testutil.ToFloat64(m.TradesRejectedTotal.WithLabelValues("SELL", "insufficient_holdings"))
	if count != 2 {
		t.Errorf("Expected SELL/insufficient_holdings count to be 2, got %f", count)
	}
}

func TestRecordLedgerIntegrityViolation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordLedgerIntegrityViolation()

	if count := testutil.ToFloat64(m.LedgerIntegrityViolations); count != 1 {
		t.Errorf("Expected violation count to be 1, got %f", count)
	}
}

func TestRecordPortfolioMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordPortfolioValuation()
	m.RecordPortfolioValuation()
	m.RecordPriceLookupFailure("MSFT")

	if count := testutil.ToFloat64(m.PortfolioValuationsTotal); count != 2 {
		t.Errorf("Expected valuation count to be 2, got %f", count)
	}
	if count := testutil.ToFloat64(m.PriceLookupFailuresTotal.WithLabelValues("MSFT")); count != 1 {
		t.Errorf("Expected MSFT failure count to be 1, got %f", count)
	}
}

func TestRecordAdminDeletion(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordAdminDeletion()

	if count := testutil.ToFloat64(m.AdminDeletionsTotal); count != 1 {
		t.Errorf("Expected deletion count to be 1, got %f", count)
	}
}

func TestRecordExternalAPIMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordExternalAPIRequest("marketdata", "latest_trade")
	m.RecordExternalAPIError("marketdata", "latest_trade", "timeout")
	m.RecordExternalAPIDuration("marketdata", "latest_trade", 100*time.Millisecond)

	count := testutil.ToFloat64(m.ExternalAPIRequestsTotal.WithLabelValues("marketdata", "latest_trade"))
	if count != 1 {
		t.Errorf("Expected request count to be 1, got %f", count)
	}
	errCount := testutil.ToFloat64(m.ExternalAPIErrorsTotal.WithLabelValues("marketdata", "latest_trade", "timeout"))
	if errCount != 1 {
		t.Errorf("Expected error count to be 1, got %f", errCount)
	}
}

func TestRecordDBMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordDBQuery("select", "accounts", 5*time.Millisecond)
	m.RecordDBError("insert", "transactions")

	if count := testutil.ToFloat64(m.DBQueryTotal.WithLabelValues("select", "accounts")); count != 1 {
		t.Errorf("Expected query count to be 1, got %f", count)
	}
	if count := testutil.ToFloat64(m.DBErrorsTotal.WithLabelValues("insert", "transactions")); count != 1 {
		t.Errorf("Expected error count to be 1, got %f", count)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordHTTPRequest("POST", "/api/trades", "200", 20*time.Millisecond, 512)
	m.RecordHTTPRequest("POST", "/api/trades", "422", 5*time.Millisecond, 128)

	ok := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/trades", "200"))
	if ok != 1 {
		t.Errorf("Expected 200 count to be 1, got %f", ok)
	}
	rejected := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/trades", "422"))
	if rejected != 1 {
		t.Errorf("Expected 422 count to be 1, got %f", rejected)
	}
}

func TestCircuitBreakerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.SetCircuitBreakerState("news", 2)
	m.RecordCircuitBreakerTrip("news")

	if state := testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("news")); state != 2 {
		t.Errorf("Expected state to be 2, got %f", state)
	}
	if trips := testutil.ToFloat64(m.CircuitBreakerTrips.WithLabelValues("news")); trips != 1 {
		t.Errorf("Expected trip count to be 1, got %f", trips)
	}
}

func TestTimer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	timer := m.NewTimer()
	time.Sleep(time.Millisecond)

	if timer.Duration() <= 0 {
		t.Error("expected elapsed time to be positive")
	}

	// These must not panic
	timer.ObserveExternalAPI("marketdata", "latest_trade")
	timer.ObserveDB("select", "accounts")
}
