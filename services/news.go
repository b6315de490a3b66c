package services

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"paper-trader/models"
	"paper-trader/observability"
)

// NewsService fetches market headlines from the Yahoo Finance RSS feed
type NewsService struct {
	httpClient *http.Client
	feedURL    string
}

// NewNewsService creates a NewsService instance
func NewNewsService() *NewsService {
	return &NewsService{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		feedURL:    "https://finance.yahoo.com/rss/topstories",
	}
}

// rssFeed maps the subset of the RSS document we consume
type rssFeed struct {
	Channel struct {
		Items []struct {
			Title       string `xml:"title"`
			Description string `xml:"description"`
			Link        string `xml:"link"`
			PubDate     string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

// GetHeadlines returns the latest market news headlines. Failures are
// returned to the caller, never swallowed into a placeholder article.
func (s *NewsService) GetHeadlines(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	if limit <= 0 {
		limit = 20
	}

	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerNews, "headlines")
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI(BreakerNews, "headlines")

	articles, err := WithCircuitBreaker(ctx, BreakerNews, func() ([]models.NewsArticle, error) {
		var result []models.NewsArticle
		retryErr := WithRetry(ctx, DefaultRetryConfig, func() error {
			req, err := http.NewRequestWithContext(ctx, "GET", s.feedURL, nil)
			if err != nil {
				return fmt.Errorf("failed to create request: %w", err)
			}

			resp, err := s.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("failed to fetch news feed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("news feed returned status %d", resp.StatusCode)
			}

			var feed rssFeed
			if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
				return fmt.Errorf("failed to decode feed: %w", err)
			}

			result = make([]models.NewsArticle, 0, len(feed.Channel.Items))
			for _, item := range feed.Channel.Items {
				if len(result) >= limit {
					break
				}
				publishedAt, parseErr := time.Parse(time.RFC1123Z, item.PubDate)
				if parseErr != nil {
					publishedAt, _ = time.Parse(time.RFC1123, item.PubDate)
				}
				result = append(result, models.NewsArticle{
					Title:       item.Title,
					Description: item.Description,
					URL:         item.Link,
					Source:      "Yahoo Finance",
					PublishedAt: publishedAt,
				})
			}
			return nil
		})
		return result, retryErr
	})
	if err != nil {
		metrics.RecordExternalAPIError(BreakerNews, "headlines", "request_failed")
		return nil, err
	}

	return articles, nil
}
