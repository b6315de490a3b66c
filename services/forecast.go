package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/shopspring/decimal"

	"paper-trader/models"
	"paper-trader/observability"
)

// ForecastService produces a price outlook for a symbol via AWS Bedrock.
// It is a stateless collaborator: the core ledger never depends on its
// output and it carries no invariants of its own.
type ForecastService struct {
	client *bedrockruntime.Client
	model  string
}

// claudeRequest represents the request format for Claude models via Bedrock
type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	System           string          `json:"system,omitempty"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse represents the response from Claude models
type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// forecastPayload is the structured JSON the model is asked to produce
type forecastPayload struct {
	Outlook     string  `json:"outlook"`
	TargetPrice float64 `json:"target_price"`
	Rationale   string  `json:"rationale"`
}

const forecastSystemPrompt = `You are a market analyst. Given a stock symbol, its current price,
and a forecast horizon, respond with a JSON object containing exactly these fields:
"outlook" (one of "bullish", "bearish", "neutral"), "target_price" (a number), and
"rationale" (one sentence). Respond with JSON only.`

// NewForecastService creates a ForecastService instance
func NewForecastService(ctx context.Context, region, modelID string) (*ForecastService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return &ForecastService{
		client: bedrockruntime.NewFromConfig(cfg),
		model:  modelID,
	}, nil
}

// Forecast returns a price outlook for the symbol over the given horizon
func (s *ForecastService) Forecast(ctx context.Context, symbol string, currentPrice decimal.Decimal, horizon string) (*models.Forecast, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerForecast, "forecast")
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI(BreakerForecast, "forecast")

	userPrompt := fmt.Sprintf("Symbol: %s\nCurrent price: %s\nHorizon: %s", symbol, currentPrice, horizon)

	text, err := WithCircuitBreaker(ctx, BreakerForecast, func() (string, error) {
		return s.invoke(ctx, forecastSystemPrompt, userPrompt)
	})
	if err != nil {
		metrics.RecordExternalAPIError(BreakerForecast, "forecast", "request_failed")
		return nil, err
	}

	var payload forecastPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		metrics.RecordExternalAPIError(BreakerForecast, "forecast", "bad_response")
		return nil, fmt.Errorf("failed to parse forecast response: %w", err)
	}

	return &models.Forecast{
		Symbol:      symbol,
		Horizon:     horizon,
		Outlook:     payload.Outlook,
		TargetPrice: decimal.NewFromFloat(payload.TargetPrice),
		Rationale:   payload.Rationale,
		GeneratedAt: time.Now(),
	}, nil
}

// invoke sends one prompt to the model and returns the response text
func (s *ForecastService) invoke(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	request := claudeRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        1024,
		System:           systemPrompt,
		Messages: []claudeMessage{
			{Role: "user", Content: userPrompt},
		},
	}

	reqBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	output, err := s.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(s.model),
		Body:        reqBody,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke model: %w", err)
	}

	var response claudeResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(response.Content) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	return response.Content[0].Text, nil
}
