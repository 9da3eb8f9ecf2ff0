package summarize

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/VamsiPutheti12/News-Agent/internal/model"
)

// mockProvider returns a canned summary or error.
type mockProvider struct {
	summary Summary
	err     error
	calls   atomic.Int64
}

func (m *mockProvider) Summarize(ctx context.Context, title, body string) (Summary, error) {
	m.calls.Add(1)
	if m.err != nil {
		return Summary{}, m.err
	}
	return m.summary, nil
}

func testItems(n int) []model.Item {
	items := make([]model.Item, n)
	for i := range items {
		items[i] = model.Item{
			Title:       "Title",
			SummaryText: "This is the original body text with enough length to matter for fallbacks.",
		}
	}
	return items
}

func TestEnrichAppliesSummary(t *testing.T) {
	provider := &mockProvider{summary: Summary{
		Text:       "A concise summary.",
		KeyPoints:  []string{"point one", "point two"},
		Importance: 7.5,
	}}
	s := New(provider, Options{Concurrency: 2, Timeout: time.Second})

	items := s.Enrich(context.Background(), testItems(3))

	for i, it := range items {
		if it.SummaryText != "A concise summary." {
			t.Errorf("item %d: unexpected summary %q", i, it.SummaryText)
		}
		if len(it.KeyPoints) != 2 {
			t.Errorf("item %d: unexpected key points %v", i, it.KeyPoints)
		}
		if it.Importance == nil || *it.Importance != 7.5 {
			t.Errorf("item %d: unexpected importance %v", i, it.Importance)
		}
	}
	if provider.calls.Load() != 3 {
		t.Errorf("expected 3 provider calls, got %d", provider.calls.Load())
	}
}

func TestEnrichFallbackOnFailure(t *testing.T) {
	provider := &mockProvider{err: errors.New("quota exceeded")}
	s := New(provider, Options{Concurrency: 1, Timeout: time.Second, MaxRetries: 1})

	items := s.Enrich(context.Background(), testItems(1))

	it := items[0]
	if it.Importance != nil {
		t.Errorf("expected importance unset on failure, got %v", *it.Importance)
	}
	if it.SummaryText == "" {
		t.Error("expected excerpt fallback to keep a summary")
	}
	if len(it.KeyPoints) == 0 {
		t.Error("expected heuristic key points on failure")
	}
	// MaxRetries 1 means two attempts.
	if provider.calls.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", provider.calls.Load())
	}
}

func TestEnrichClampsImportance(t *testing.T) {
	provider := &mockProvider{summary: Summary{Text: "S.", Importance: 42}}
	s := New(provider, Options{Timeout: time.Second})

	items := s.Enrich(context.Background(), testItems(1))
	if items[0].Importance == nil || *items[0].Importance != 10 {
		t.Errorf("expected importance clamped to 10, got %v", items[0].Importance)
	}
}

func TestExcerpt(t *testing.T) {
	short := "Short text."
	if got := Excerpt(short, 100); got != short {
		t.Errorf("expected short text unchanged, got %q", got)
	}

	long := strings.Repeat("Sentence number one goes here. ", 40)
	got := Excerpt(long, 200)
	if len(got) > 210 {
		t.Errorf("expected excerpt near 200 chars, got %d", len(got))
	}
	if !strings.HasSuffix(got, ".") {
		t.Errorf("expected excerpt to end at a sentence, got %q", got)
	}
}

func TestFallbackKeyPoints(t *testing.T) {
	text := "First substantial sentence right here. Second one with enough length. " +
		"Third sentence also long enough to count. Fourth should be ignored entirely."
	points := FallbackKeyPoints(text)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d: %v", len(points), points)
	}
	if !strings.HasPrefix(points[0], "First substantial") {
		t.Errorf("unexpected first point %q", points[0])
	}
}

func TestFallbackKeyPointsSkipsShortSentences(t *testing.T) {
	points := FallbackKeyPoints("Too short. Tiny. This sentence is long enough to be a key point.")
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %v", points)
	}
}
