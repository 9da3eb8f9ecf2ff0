// Package rank computes composite relevance scores and selects the
// diversity-capped top-N.
package rank

import (
	"math"
	"sort"
	"time"

	"github.com/VamsiPutheti12/News-Agent/internal/filter"
	"github.com/VamsiPutheti12/News-Agent/internal/model"
)

// NeutralImportance is substituted when no external importance was computed.
// A mid-scale default keeps all-unscored batches from collapsing to zero.
const NeutralImportance = 5.0

// Weights are the tunable factors of the composite score. Defaults are
// 0.6 importance / 0.3 recency / 0.1 source-diversity prior.
type Weights struct {
	Importance float64
	Recency    float64
	Diversity  float64
}

// DefaultWeights returns the documented default weighting.
func DefaultWeights() Weights {
	return Weights{Importance: 0.6, Recency: 0.3, Diversity: 0.1}
}

// Scorer computes a single relevance number per item. Scoring never fails;
// missing inputs degrade to neutral defaults.
type Scorer struct {
	weights Weights
	windows filter.Windows
}

// NewScorer builds a scorer with the given weights and recency windows. The
// recency component reaches zero at the window bound, so items passing the
// recency filter always score a non-negative recency.
func NewScorer(weights Weights, windows filter.Windows) *Scorer {
	return &Scorer{weights: weights, windows: windows}
}

// Score assigns the composite score to every item in place:
//
//	w.Importance*importance/10 + w.Recency*recency + w.Diversity*prior
//
// where recency = max(0, 1 - elapsedHours/windowHours) and prior is the
// inverse of how many batch items share the item's source, so thinly
// represented sources get a small static boost. The per-selection diversity
// adjustment lives in SelectTop, not here, to avoid double-penalizing an item
// independent of what else is selected.
func (s *Scorer) Score(items []model.Item, now time.Time) []model.Item {
	perSource := make(map[string]int, len(items))
	for _, it := range items {
		perSource[it.SourceName]++
	}

	for i := range items {
		importance := NeutralImportance
		if items[i].Importance != nil {
			importance = *items[i].Importance
		}

		recency := recencyScore(now.Sub(items[i].PublishedAt), s.windows.For(items[i].SourceType))

		prior := 0.0
		if n := perSource[items[i].SourceName]; n > 0 {
			prior = 1.0 / float64(n)
		}

		items[i].Score = s.weights.Importance*importance/10 +
			s.weights.Recency*recency +
			s.weights.Diversity*prior
	}

	return items
}

func recencyScore(elapsed, window time.Duration) float64 {
	if window <= 0 {
		return 0
	}
	v := 1 - elapsed.Hours()/window.Hours()
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SelectTop returns at most n items, greedily taken in score order with a
// per-category quota of ceil(n*maxShare). Items skipped by the quota are
// retained as fallbacks; a relaxed second pass fills from them when the first
// pass comes up short, so the result length is min(n, len(items)). Ties are
// broken by first-seen order, keeping selection stable across re-runs.
func SelectTop(items []model.Item, n int, maxShare float64) []model.Item {
	if n <= 0 || len(items) == 0 {
		return nil
	}

	ranked := make([]model.Item, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].FirstSeen < ranked[j].FirstSeen
	})

	quota := int(math.Ceil(float64(n) * maxShare))
	if quota < 1 {
		quota = 1
	}

	counts := make(map[model.Category]int)
	selected := make([]model.Item, 0, n)
	var fallback []model.Item

	for _, it := range ranked {
		if len(selected) == n {
			break
		}
		if counts[it.Category] < quota {
			selected = append(selected, it)
			counts[it.Category]++
		} else {
			fallback = append(fallback, it)
		}
	}

	// Relaxed pass: quotas exhausted the diverse categories, fill from the
	// retained candidates in score order.
	for _, it := range fallback {
		if len(selected) == n {
			break
		}
		selected = append(selected, it)
	}

	return selected
}
