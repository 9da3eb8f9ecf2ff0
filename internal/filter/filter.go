// Package filter holds the pure post-fetch transformations: the recency
// filter and the deduplicator.
package filter

import (
	"time"

	"github.com/VamsiPutheti12/News-Agent/internal/model"
)

// Windows holds the per-source recency windows. News moves faster than
// scholarly papers, so the two source types carry different bounds.
type Windows struct {
	News  time.Duration
	Paper time.Duration
}

// For returns the window for a source type.
func (w Windows) For(st model.SourceType) time.Duration {
	if st == model.SourcePaper {
		return w.Paper
	}
	return w.News
}

// Recent retains items with PublishedAt >= now - window for their source
// type. Output depends only on now and the input sequence.
func Recent(items []model.Item, now time.Time, windows Windows) []model.Item {
	var kept []model.Item
	for _, it := range items {
		cutoff := now.Add(-windows.For(it.SourceType))
		if !it.PublishedAt.Before(cutoff) {
			kept = append(kept, it)
		}
	}
	return kept
}

// Dedupe merges items sharing (sourceType, externalId). The later entry in
// the input wins all fields, but the first-seen position is preserved so that
// re-ingestion over overlapping fetch windows keeps score tie-breaking
// stable.
func Dedupe(items []model.Item) []model.Item {
	index := make(map[string]int, len(items))
	var unique []model.Item

	for _, it := range items {
		key := it.Key()
		if pos, seen := index[key]; seen {
			firstSeen := unique[pos].FirstSeen
			it.FirstSeen = firstSeen
			unique[pos] = it
			continue
		}
		it.FirstSeen = len(unique)
		index[key] = len(unique)
		unique = append(unique, it)
	}

	return unique
}
