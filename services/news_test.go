package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Top Stories</title>
    <item>
      <title>Markets rally on earnings</title>
      <description>Broad gains across sectors.</description>
      <link>https://example.com/rally</link>
      <pubDate>Mon, 31 Aug 2026 14:30:00 +0000</pubDate>
    </item>
    <item>
      <title>Fed holds rates steady</title>
      <description>No change this quarter.</description>
      <link>https://example.com/fed</link>
      <pubDate>Mon, 31 Aug 2026 13:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Chipmakers extend gains</title>
      <description>Demand stays strong.</description>
      <link>https://example.com/chips</link>
      <pubDate>not a date</pubDate>
    </item>
  </channel>
</rss>`

// newsServiceForFeed points a NewsService at a local stand-in for the feed
func newsServiceForFeed(server *httptest.Server) *NewsService {
	return &NewsService{
		httpClient: server.Client(),
		feedURL:    server.URL,
	}
}

func TestNewsService_GetHeadlines(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeed))
	}))
	defer server.Close()

	service := newsServiceForFeed(server)
	articles, err := service.GetHeadlines(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetHeadlines failed: %v", err)
	}

	if len(articles) != 3 {
		t.Fatalf("articles = %d, want 3", len(articles))
	}
	first := articles[0]
	if first.Title != "Markets rally on earnings" {
		t.Errorf("title = %q", first.Title)
	}
	if first.URL != "https://example.com/rally" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Source != "Yahoo Finance" {
		t.Errorf("source = %q", first.Source)
	}
	want := time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(want) {
		t.Errorf("published at = %v, want %v", first.PublishedAt, want)
	}
	// An unparseable pubDate yields a zero time, not an error
	if !articles[2].PublishedAt.IsZero() {
		t.Errorf("expected zero time for unparseable pubDate, got %v", articles[2].PublishedAt)
	}
}

func TestNewsService_GetHeadlinesLimit(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testFeed))
	}))
	defer server.Close()

	service := newsServiceForFeed(server)
	articles, err := service.GetHeadlines(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetHeadlines failed: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("articles = %d, want 2", len(articles))
	}
}

func TestNewsService_FeedError(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	service := newsServiceForFeed(server)
	if _, err := service.GetHeadlines(context.Background(), 5); err == nil {
		t.Fatal("expected error for failing feed")
	}
}

func TestNewsService_MalformedFeed(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not xml"))
	}))
	defer server.Close()

	service := newsServiceForFeed(server)
	if _, err := service.GetHeadlines(context.Background(), 5); err == nil {
		t.Fatal("expected error for malformed feed")
	}
}
