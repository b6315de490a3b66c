package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// External service configurations
	Alpaca  AlpacaConfig
	Bedrock BedrockConfig

	// Trading configuration
	Trading TradingConfig

	// HTTP configuration
	HTTP HTTPConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// AlpacaConfig holds Alpaca market data API configuration
type AlpacaConfig struct {
	APIKey    string
	APISecret string
}

// BedrockConfig holds AWS Bedrock configuration for the forecast service
type BedrockConfig struct {
	Region  string
	ModelID string
}

// TradingConfig holds ledger and trading defaults
type TradingConfig struct {
	// StartingFunds is the cash balance a newly created account receives
	StartingFunds decimal.Decimal
	// Symbols is the tradable symbol whitelist; empty means any symbol
	Symbols []string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Addr               string
	CORSAllowedOrigins string
	RequestTimeoutSec  int
}

// defaultSymbols mirrors the dropdown the original UI offered
var defaultSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "META", "TSLA", "BRK-A", "JNJ", "V", "WMT",
	"JPM", "MA", "PG", "UNH", "NVDA", "HD", "DIS", "PYPL", "VZ", "ADBE",
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Alpaca: AlpacaConfig{
			APIKey:    os.Getenv("ALPACA_API_KEY"),
			APISecret: os.Getenv("ALPACA_API_SECRET"),
		},
		Bedrock: BedrockConfig{
			Region:  getEnvString("AWS_REGION", "us-east-1"),
			ModelID: getEnvString("BEDROCK_MODEL_ID", "anthropic.claude-3-5-sonnet-20241022-v2:0"),
		},
		Trading: TradingConfig{
			StartingFunds: getEnvDecimal("TRADING_STARTING_FUNDS", decimal.NewFromInt(10000)),
			Symbols:       getEnvStringList("TRADING_SYMBOLS", defaultSymbols),
		},
		HTTP: HTTPConfig{
			Addr:               getEnvString("HTTP_ADDR", ":8080"),
			CORSAllowedOrigins: getEnvString("CORS_ALLOWED_ORIGINS", "*"),
			RequestTimeoutSec:  getEnvInt("HTTP_REQUEST_TIMEOUT_SEC", 30),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Trading.StartingFunds.IsNegative() {
		return fmt.Errorf("TRADING_STARTING_FUNDS must not be negative, got %s", c.Trading.StartingFunds)
	}
	if c.HTTP.RequestTimeoutSec <= 0 {
		return fmt.Errorf("HTTP_REQUEST_TIMEOUT_SEC must be positive, got %d", c.HTTP.RequestTimeoutSec)
	}
	return nil
}

// HasDatabase returns true if database configuration is available
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// HasAlpaca returns true if Alpaca configuration is available
func (c *Config) HasAlpaca() bool {
	return c.Alpaca.APIKey != "" && c.Alpaca.APISecret != ""
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if val := os.Getenv(key); val != "" {
		if parsed, err := decimal.NewFromString(val); err == nil && !parsed.IsNegative() {
			return parsed
		}
	}
	return defaultValue
}

func getEnvStringList(key string, defaultValue []string) []string {
	if val := os.Getenv(key); val != "" {
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, strings.ToUpper(trimmed))
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{URL: ""},
		Alpaca:   AlpacaConfig{},
		Bedrock: BedrockConfig{
			Region:  "us-east-1",
			ModelID: "anthropic.claude-3-5-sonnet-20241022-v2:0",
		},
		Trading: TradingConfig{
			StartingFunds: decimal.NewFromInt(10000),
			Symbols:       defaultSymbols,
		},
		HTTP: HTTPConfig{
			Addr:               ":8080",
			CORSAllowedOrigins: "*",
			RequestTimeoutSec:  30,
		},
	}
}
