package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote represents the latest market price observation for a symbol
type Quote struct {
	Symbol    string          `json:"symbol"`
	Last      decimal.Decimal `json:"last"`
	Bid       decimal.Decimal `json:"bid,omitempty"`
	Ask       decimal.Decimal `json:"ask,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewsArticle represents a single market news headline
type NewsArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// Forecast is the output of the external forecasting collaborator. It is a
// stateless opinion about a symbol, with no invariants of its own.
type Forecast struct {
	Symbol      string          `json:"symbol"`
	Horizon     string          `json:"horizon"`
	Outlook     string          `json:"outlook"`
	TargetPrice decimal.Decimal `json:"target_price"`
	Rationale   string          `json:"rationale"`
	GeneratedAt time.Time       `json:"generated_at"`
}
