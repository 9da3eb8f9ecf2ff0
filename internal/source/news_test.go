package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const rssTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Test Feed</title>
%s
</channel>
</rss>`

func rssItem(title, link, pubDate, description string) string {
	return fmt.Sprintf(`<item>
<title>%s</title>
<link>%s</link>
<pubDate>%s</pubDate>
<description>%s</description>
</item>`, title, link, pubDate, description)
}

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewsFeedFetch(t *testing.T) {
	pubDate := time.Date(2026, 8, 19, 10, 0, 0, 0, time.UTC).Format(time.RFC1123Z)
	body := fmt.Sprintf(rssTemplate,
		rssItem("First story", "https://example.com/1", pubDate, "<p>Body of the first story.</p>")+
			rssItem("Second story", "https://example.com/2", pubDate, "Body of the second story."))
	srv := feedServer(t, body)

	adapter := NewNewsFeed(srv.URL, "Test Feed", srv.Client(), false)
	entries, err := adapter.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	e := entries[0]
	if e.Title != "First story" {
		t.Errorf("unexpected title %q", e.Title)
	}
	if e.Body != "Body of the first story." {
		t.Errorf("expected HTML stripped from body, got %q", e.Body)
	}
	if e.URL != "https://example.com/1" || e.ExternalID != "https://example.com/1" {
		t.Errorf("unexpected URL/ID: %q / %q", e.URL, e.ExternalID)
	}
	if e.SourceName != "Test Feed" {
		t.Errorf("unexpected source name %q", e.SourceName)
	}
	if e.Published.IsZero() {
		t.Error("expected published timestamp")
	}
}

func TestNewsFeedDropsIncompleteItems(t *testing.T) {
	pubDate := time.Date(2026, 8, 19, 10, 0, 0, 0, time.UTC).Format(time.RFC1123Z)
	body := fmt.Sprintf(rssTemplate,
		rssItem("", "https://example.com/no-title", pubDate, "Body.")+
			`<item><title>No date</title><link>https://example.com/no-date</link><description>Body.</description></item>`+
			rssItem("Good", "https://example.com/good", pubDate, "Body."))
	srv := feedServer(t, body)

	adapter := NewNewsFeed(srv.URL, "Test Feed", srv.Client(), false)
	entries, err := adapter.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Good" {
		t.Errorf("expected only the complete item, got %+v", entries)
	}
}

func TestNewsFeedRespectsMaxResults(t *testing.T) {
	pubDate := time.Date(2026, 8, 19, 10, 0, 0, 0, time.UTC).Format(time.RFC1123Z)
	var items string
	for i := 0; i < 5; i++ {
		items += rssItem(fmt.Sprintf("Story %d", i), fmt.Sprintf("https://example.com/%d", i), pubDate, "Body.")
	}
	srv := feedServer(t, fmt.Sprintf(rssTemplate, items))

	adapter := NewNewsFeed(srv.URL, "Test Feed", srv.Client(), false)
	entries, err := adapter.Fetch(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}
}

func TestNewsFeedUnreachable(t *testing.T) {
	adapter := NewNewsFeed("http://127.0.0.1:1/feed", "Broken", &http.Client{Timeout: time.Second}, false)
	if _, err := adapter.Fetch(context.Background(), 10); err == nil {
		t.Error("expected error for unreachable feed")
	}
}

func TestNewsFeedDefaultsNameToHost(t *testing.T) {
	adapter := NewNewsFeed("https://www.example.com/rss", "", nil, false)
	if adapter.Name() != "example.com" {
		t.Errorf("expected host-derived name, got %q", adapter.Name())
	}
}
