// Package digest renders a cohort's selected items into a markdown document.
package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/VamsiPutheti12/News-Agent/internal/model"
)

// Compose renders the weekly digest for the given items, which are expected
// to arrive already scored and selected.
func Compose(cohortKey string, items []model.Item, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# AI Digest — Week of %s\n\n", cohortKey)
	fmt.Fprintf(&b, "*Generated %s*\n\n", generatedAt.UTC().Format("2006-01-02 15:04 UTC"))

	if len(items) == 0 {
		b.WriteString("No items made the cut this week.\n")
		return b.String()
	}

	for i, it := range items {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, it.Title)
		fmt.Fprintf(&b, "**%s** · %s · %s\n\n",
			it.Category, it.SourceName, it.PublishedAt.UTC().Format("2006-01-02"))

		if it.SummaryText != "" {
			b.WriteString(it.SummaryText)
			b.WriteString("\n\n")
		}

		for _, point := range it.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", point)
		}
		if len(it.KeyPoints) > 0 {
			b.WriteString("\n")
		}

		fmt.Fprintf(&b, "[Read more](%s)", it.URL)
		if it.MediaURL != "" {
			fmt.Fprintf(&b, " · [PDF](%s)", it.MediaURL)
		}
		b.WriteString("\n\n")
	}

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "%d items · %s\n", len(items), sourceBreakdown(items))

	return b.String()
}

func sourceBreakdown(items []model.Item) string {
	counts := make(map[string]int)
	var order []string
	for _, it := range items {
		if counts[it.SourceName] == 0 {
			order = append(order, it.SourceName)
		}
		counts[it.SourceName]++
	}

	parts := make([]string, len(order))
	for i, name := range order {
		parts[i] = fmt.Sprintf("%s: %d", name, counts[name])
	}
	return strings.Join(parts, ", ")
}
