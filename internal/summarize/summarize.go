// Package summarize enriches items with LLM-generated summaries, key points,
// and importance scores. Enrichment is best-effort: a failed call degrades
// the item to heuristic fallbacks and the run continues.
package summarize

import (
	"context"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/VamsiPutheti12/News-Agent/internal/model"
	"github.com/VamsiPutheti12/News-Agent/internal/retry"
)

// Summary is the structured result of one summarization call.
type Summary struct {
	Text       string
	KeyPoints  []string
	Importance float64
}

// Provider generates a summary for one item. Implementations must be safe
// for concurrent use.
type Provider interface {
	Summarize(ctx context.Context, title, body string) (Summary, error)
}

// Options bound the enrichment run.
type Options struct {
	Concurrency int
	Timeout     time.Duration
	MaxRetries  int
}

// Summarizer fans item enrichment out over a bounded worker pool.
type Summarizer struct {
	provider Provider
	opts     Options
}

func New(provider Provider, opts Options) *Summarizer {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Summarizer{provider: provider, opts: opts}
}

// Enrich summarizes every item in place. Items whose calls fail keep a
// truncated excerpt as summary and heuristic key points; importance stays
// unset so ranking substitutes its neutral default.
func (s *Summarizer) Enrich(ctx context.Context, items []model.Item) []model.Item {
	sem := make(chan struct{}, s.opts.Concurrency)
	var wg sync.WaitGroup

	for i := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(it *model.Item) {
			defer wg.Done()
			defer func() { <-sem }()
			s.enrichOne(ctx, it)
		}(&items[i])
	}

	wg.Wait()
	return items
}

func (s *Summarizer) enrichOne(ctx context.Context, it *model.Item) {
	var summary Summary
	err := retry.Do(ctx, retry.Config{
		MaxAttempts: s.opts.MaxRetries + 1,
		Delay:       time.Second,
		Backoff:     true,
	}, func() error {
		callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()

		var callErr error
		summary, callErr = s.provider.Summarize(callCtx, it.Title, it.SummaryText)
		return callErr
	})

	if err != nil {
		log.WithFields(log.Fields{"title": it.Title, "source": it.SourceName}).
			WithError(err).Warn("Summarization failed, using excerpt fallback")
		it.SummaryText = Excerpt(it.SummaryText, 500)
		it.KeyPoints = FallbackKeyPoints(it.SummaryText)
		return
	}

	if summary.Text != "" {
		it.SummaryText = summary.Text
	}
	it.KeyPoints = summary.KeyPoints
	if len(it.KeyPoints) == 0 {
		it.KeyPoints = FallbackKeyPoints(it.SummaryText)
	}
	if summary.Importance > 0 {
		imp := clampImportance(summary.Importance)
		it.Importance = &imp
	}
}

// Excerpt truncates text to roughly max characters, cutting at the last
// sentence boundary when one lands far enough in.
func Excerpt(text string, max int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	trimmed := string(runes[:max])
	if idx := strings.LastIndex(trimmed, ". "); idx > max/3 {
		return trimmed[:idx+1]
	}
	return trimmed + "..."
}

// FallbackKeyPoints extracts the first few substantial sentences as key
// points when no structured points are available.
func FallbackKeyPoints(text string) []string {
	var points []string
	for _, sentence := range strings.Split(text, ". ") {
		sentence = strings.TrimSpace(strings.TrimSuffix(sentence, "."))
		if len(sentence) > 20 {
			points = append(points, sentence)
		}
		if len(points) == 3 {
			break
		}
	}
	return points
}

func clampImportance(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}
