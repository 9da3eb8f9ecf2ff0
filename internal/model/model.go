package model

import (
	"strings"
	"time"
)

// SourceType identifies which kind of upstream produced an entry.
type SourceType string

const (
	SourceNews  SourceType = "news"
	SourcePaper SourceType = "paper"
)

// Category is one value of the closed topic taxonomy. Items always carry a
// taxonomy member; the classifier falls back to CategoryAI for unmapped codes.
type Category string

const (
	CategoryAI       Category = "Artificial Intelligence"
	CategoryML       Category = "Machine Learning"
	CategoryDL       Category = "Deep Learning"
	CategoryCV       Category = "Computer Vision"
	CategoryNLP      Category = "NLP"
	CategoryRobotics Category = "Robotics"
	CategoryRL       Category = "Reinforcement Learning"
	CategorySafety   Category = "AI Safety"
)

// Categories returns the full taxonomy in display order.
func Categories() []Category {
	return []Category{
		CategoryAI, CategoryML, CategoryDL, CategoryCV,
		CategoryNLP, CategoryRobotics, CategoryRL, CategorySafety,
	}
}

// RawEntry is a source-native record as extracted by an adapter, before
// normalization. It is transient: consumed by Normalize and discarded.
type RawEntry struct {
	ExternalID  string
	SourceType  SourceType
	SourceName  string
	Title       string
	Body        string
	Authors     []string
	RawCategory string
	Published   time.Time
	URL         string
	MediaURL    string
}

// Item is the canonical unit flowing through the pipeline after
// normalization.
type Item struct {
	ExternalID  string
	SourceType  SourceType
	SourceName  string
	Title       string
	SummaryText string
	Authors     []string
	RawCategory string
	Category    Category
	PublishedAt time.Time
	URL         string
	MediaURL    string

	// Importance is a 0-10 value supplied by the summarization collaborator;
	// nil until computed. The scorer substitutes a neutral default.
	Importance *float64
	KeyPoints  []string

	// Score is the composite relevance assigned by the scorer.
	Score float64

	// FirstSeen is the position in the merged fetch sequence, assigned by the
	// deduplicator and used for stable tie-breaking.
	FirstSeen int
}

// Normalize converts a raw entry into a canonical item. It returns false when
// a required field (title, body, valid published timestamp, URL) is missing;
// such entries are filtered-out candidates, not errors.
func Normalize(e RawEntry) (Item, bool) {
	title := strings.TrimSpace(e.Title)
	body := strings.TrimSpace(e.Body)
	if title == "" || body == "" || e.URL == "" || e.Published.IsZero() {
		return Item{}, false
	}

	id := e.ExternalID
	if id == "" {
		id = e.URL
	}

	return Item{
		ExternalID:  id,
		SourceType:  e.SourceType,
		SourceName:  e.SourceName,
		Title:       title,
		SummaryText: body,
		Authors:     e.Authors,
		RawCategory: e.RawCategory,
		PublishedAt: e.Published,
		URL:         e.URL,
		MediaURL:    e.MediaURL,
	}, true
}

// Key returns the identity an item is deduplicated and upserted on.
func (it Item) Key() string {
	return string(it.SourceType) + "|" + it.ExternalID
}
