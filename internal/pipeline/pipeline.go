// Package pipeline orchestrates a curation run: fetch from all sources,
// normalize, filter, classify, enrich, rank, select, and persist.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/VamsiPutheti12/News-Agent/internal/classify"
	"github.com/VamsiPutheti12/News-Agent/internal/cohort"
	"github.com/VamsiPutheti12/News-Agent/internal/config"
	"github.com/VamsiPutheti12/News-Agent/internal/digest"
	"github.com/VamsiPutheti12/News-Agent/internal/filter"
	"github.com/VamsiPutheti12/News-Agent/internal/model"
	"github.com/VamsiPutheti12/News-Agent/internal/rank"
	"github.com/VamsiPutheti12/News-Agent/internal/source"
	"github.com/VamsiPutheti12/News-Agent/internal/store"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	CohortKey string
	Selected  []model.Item
	Steps     []StepResult
	Err       error
}

// Summarizer enriches a batch of items. Satisfied by *summarize.Summarizer;
// kept as an interface so runs without an API key skip enrichment cleanly.
type Summarizer interface {
	Enrich(ctx context.Context, items []model.Item) []model.Item
}

// Pipeline wires sources, classifier, scorer, summarizer, and store into one
// run. The clock is injected so runs are reproducible under test.
type Pipeline struct {
	cfg        *config.Config
	db         *store.DB
	adapters   []source.Adapter
	classifier *classify.Classifier
	summarizer Summarizer
	now        func() time.Time
}

// New creates a pipeline from config with the standard adapter set.
func New(cfg *config.Config, db *store.DB, summarizer Summarizer) *Pipeline {
	client := source.NewHTTPClient(
		time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second,
		cfg.Fetch.RetryMax,
	)

	var adapters []source.Adapter
	for _, f := range cfg.Sources.Feeds {
		adapters = append(adapters, source.NewNewsFeed(f.URL, f.Name, client, cfg.Fetch.FetchBody))
	}
	if cfg.Sources.Arxiv.Enabled {
		adapters = append(adapters, source.NewArxiv(
			cfg.Sources.Arxiv.Endpoint,
			cfg.Sources.Arxiv.Categories,
			cfg.Sources.Arxiv.MaxResults,
			client,
		))
	}

	return &Pipeline{
		cfg:        cfg,
		db:         db,
		adapters:   adapters,
		classifier: classify.NewDefault(),
		summarizer: summarizer,
		now:        time.Now,
	}
}

// WithAdapters replaces the adapter set. Used by tests.
func (p *Pipeline) WithAdapters(adapters ...source.Adapter) *Pipeline {
	p.adapters = adapters
	return p
}

// WithClock replaces the time source. Used by tests.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

type fetchResult struct {
	name    string
	entries []model.RawEntry
	err     error
}

// Run executes the full pipeline. Individual source failures are recorded
// and skipped; the run fails only when every source fails or the store does.
func (p *Pipeline) Run(ctx context.Context) *Result {
	now := p.now().UTC()
	window := cohort.ForTime(now)
	r := &Result{CohortKey: window.Key()}

	if deadline := p.cfg.Fetch.RunDeadlineMin; deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(deadline)*time.Minute)
		defer cancel()
	}

	// Fetch
	entries, step := p.runFetch(ctx)
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		r.Err = step.Err
		return r
	}

	// Normalize
	items := p.normalize(entries)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Normalize",
		Summary: fmt.Sprintf("%d of %d entries usable", len(items), len(entries)),
	})

	// Filter and dedupe
	windows := filter.Windows{News: p.cfg.NewsWindow(), Paper: p.cfg.PaperWindow()}
	recent := filter.Recent(items, now, windows)
	unique := filter.Dedupe(recent)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Filter",
		Summary: fmt.Sprintf("%d recent, %d after dedupe", len(recent), len(unique)),
	})

	// Classify
	p.classifier.Apply(unique)

	// Enrich
	if p.summarizer != nil {
		unique = p.summarizer.Enrich(ctx, unique)
		r.Steps = append(r.Steps, StepResult{
			Name:    "Summarize",
			Summary: fmt.Sprintf("%d items enriched", len(unique)),
		})
	}

	// Score and select
	scorer := rank.NewScorer(rank.Weights{
		Importance: p.cfg.Ranking.ImportanceWeight,
		Recency:    p.cfg.Ranking.RecencyWeight,
		Diversity:  p.cfg.Ranking.DiversityWeight,
	}, windows)
	scorer.Score(unique, now)

	selected := rank.SelectTop(unique, p.cfg.Ranking.TopN, p.cfg.Ranking.MaxCategoryShare)
	r.Selected = selected
	r.Steps = append(r.Steps, StepResult{
		Name:    "Rank",
		Summary: fmt.Sprintf("%d selected of %d candidates", len(selected), len(unique)),
	})

	// Persist
	if p.db != nil {
		step = p.runStore(selected, window.Key(), now)
		r.Steps = append(r.Steps, step)
		if step.Err != nil {
			r.Err = step.Err
		}
	}

	return r
}

// runFetch fans adapters out concurrently, one goroutine per source, each
// bounded by the per-source timeout. Results merge in adapter order so the
// pipeline output does not depend on goroutine scheduling.
func (p *Pipeline) runFetch(ctx context.Context) ([]model.RawEntry, StepResult) {
	if len(p.adapters) == 0 {
		return nil, StepResult{Name: "Fetch", Err: fmt.Errorf("no sources configured")}
	}

	timeout := time.Duration(p.cfg.Fetch.TimeoutSeconds) * time.Second
	results := make([]fetchResult, len(p.adapters))
	var wg sync.WaitGroup

	for i, a := range p.adapters {
		wg.Add(1)
		go func(slot int, adapter source.Adapter) {
			defer wg.Done()

			fetchCtx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			entries, err := adapter.Fetch(fetchCtx, p.cfg.Fetch.MaxPerSource)
			results[slot] = fetchResult{name: adapter.Name(), entries: entries, err: err}
		}(i, a)
	}
	wg.Wait()

	var merged []model.RawEntry
	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			log.WithField("source", res.name).WithError(res.err).Warn("Source fetch failed, continuing")
			continue
		}
		log.WithFields(log.Fields{"source": res.name, "entries": len(res.entries)}).Info("Fetched source")
		merged = append(merged, res.entries...)
	}

	if failed == len(p.adapters) {
		return nil, StepResult{Name: "Fetch", Err: fmt.Errorf("all %d sources failed", failed)}
	}

	return merged, StepResult{
		Name:    "Fetch",
		Summary: fmt.Sprintf("%d entries from %d sources (%d failed)", len(merged), len(p.adapters)-failed, failed),
	}
}

func (p *Pipeline) normalize(entries []model.RawEntry) []model.Item {
	var items []model.Item
	for _, e := range entries {
		item, ok := model.Normalize(e)
		if !ok {
			log.WithFields(log.Fields{"source": e.SourceName, "title": e.Title}).
				Debug("Dropping entry that failed normalization")
			continue
		}
		items = append(items, item)
	}
	return items
}

// runStore upserts every selected item and the rendered digest. Per-item
// failures are logged and skipped; the step fails only when nothing could be
// written.
func (p *Pipeline) runStore(selected []model.Item, cohortKey string, now time.Time) StepResult {
	stored := 0
	for _, it := range selected {
		if err := p.db.UpsertItem(it, cohortKey); err != nil {
			log.WithField("item", it.Key()).WithError(err).Warn("Failed to store item")
			continue
		}
		stored++
	}

	if stored == 0 && len(selected) > 0 {
		return StepResult{Name: "Store", Err: fmt.Errorf("failed to store any of %d items", len(selected))}
	}

	markdown := digest.Compose(cohortKey, selected, now)
	if err := p.db.SaveDigest(cohortKey, markdown, len(selected)); err != nil {
		log.WithError(err).Warn("Failed to save digest")
	}

	return StepResult{
		Name:    "Store",
		Summary: fmt.Sprintf("%d items stored under cohort %s", stored, cohortKey),
	}
}
