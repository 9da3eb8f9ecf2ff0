// Package classify maps source-native category codes onto the canonical
// taxonomy and applies ordered keyword overrides on the item text.
package classify

import (
	"strings"

	"github.com/VamsiPutheti12/News-Agent/internal/model"
)

// OverrideRule forces a category when any of its vocabulary tokens appears in
// the title+body text. Matching is case-insensitive substring matching; short
// tokens may match inside unrelated words, which is accepted behavior.
type OverrideRule struct {
	Vocabulary []string
	Target     model.Category
}

// Classifier assigns taxonomy categories. The code table and override rules
// are immutable after construction so tests can substitute taxonomies.
type Classifier struct {
	table     map[string]model.Category
	overrides []OverrideRule
	fallback  model.Category
}

// DefaultCodeTable maps arXiv primary-category codes to the taxonomy.
func DefaultCodeTable() map[string]model.Category {
	return map[string]model.Category{
		"cs.AI":   model.CategoryAI,
		"cs.LG":   model.CategoryML,
		"stat.ML": model.CategoryML,
		"cs.NE":   model.CategoryDL,
		"cs.CV":   model.CategoryCV,
		"cs.CL":   model.CategoryNLP,
		"cs.RO":   model.CategoryRobotics,
		"cs.MA":   model.CategoryAI,
	}
}

// DefaultOverrides returns the ordered override rules. The reinforcement
// learning rule is evaluated before the safety rule; when both vocabularies
// match the same text the first rule wins.
func DefaultOverrides() []OverrideRule {
	return []OverrideRule{
		{
			Target: model.CategoryRL,
			Vocabulary: []string{
				"reinforcement learning", "reward shaping", "policy gradient",
				"q-learning", "actor-critic", "markov decision", "rlhf",
				"multi-armed bandit", "temporal difference",
			},
		},
		{
			Target: model.CategorySafety,
			Vocabulary: []string{
				"ai safety", "alignment", "interpretability", "interpretable",
				"red teaming", "jailbreak", "adversarial robustness",
				"value learning", "reward hacking",
			},
		},
	}
}

// New builds a classifier from a code table, ordered overrides, and the
// fallback category for unmapped codes.
func New(table map[string]model.Category, overrides []OverrideRule, fallback model.Category) *Classifier {
	copied := make(map[string]model.Category, len(table))
	for k, v := range table {
		copied[k] = v
	}
	return &Classifier{table: copied, overrides: overrides, fallback: fallback}
}

// NewDefault builds a classifier with the stock table and overrides.
func NewDefault() *Classifier {
	return New(DefaultCodeTable(), DefaultOverrides(), model.CategoryAI)
}

// Classify is a pure function of (rawCategory, title, body).
func (c *Classifier) Classify(rawCategory, title, body string) model.Category {
	category, ok := c.table[rawCategory]
	if !ok {
		category = c.fallback
	}

	text := strings.ToLower(title + " " + body)
	for _, rule := range c.overrides {
		for _, token := range rule.Vocabulary {
			if strings.Contains(text, token) {
				return rule.Target
			}
		}
	}

	return category
}

// Apply classifies every item in place and returns the slice for chaining.
func (c *Classifier) Apply(items []model.Item) []model.Item {
	for i := range items {
		items[i].Category = c.Classify(items[i].RawCategory, items[i].Title, items[i].SummaryText)
	}
	return items
}
