package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"

	"github.com/VamsiPutheti12/News-Agent/internal/model"
)

// Arxiv fetches recent submissions from the arXiv export API. The API speaks
// Atom, so the same feed parser the news adapters use handles the response.
type Arxiv struct {
	endpoint   string
	categories []string
	maxResults int
	client     *http.Client
}

// NewArxiv builds an adapter querying the given category codes. maxResults is
// the source's own result cap; the tighter of it and the caller's fetch bound
// wins.
func NewArxiv(endpoint string, categories []string, maxResults int, client *http.Client) *Arxiv {
	if endpoint == "" {
		endpoint = "http://export.arxiv.org/api/query"
	}
	return &Arxiv{endpoint: endpoint, categories: categories, maxResults: maxResults, client: client}
}

func (a *Arxiv) Name() string { return "arxiv" }

// Fetch queries the export API for the newest submissions across the
// configured categories, newest first, bounded by maxResults.
func (a *Arxiv) Fetch(ctx context.Context, maxResults int) ([]model.RawEntry, error) {
	if len(a.categories) == 0 {
		return nil, nil
	}

	if a.maxResults > 0 && (maxResults <= 0 || maxResults > a.maxResults) {
		maxResults = a.maxResults
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.queryURL(maxResults), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying arxiv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned status %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing arxiv response: %w", err)
	}

	var entries []model.RawEntry
	for _, item := range feed.Items {
		entry, ok := parseArxivEntry(item)
		if !ok {
			log.WithField("title", item.Title).Debug("Dropping arxiv entry missing required fields")
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// queryURL builds the export API query: category terms OR-combined, newest
// submissions first.
func (a *Arxiv) queryURL(maxResults int) string {
	terms := make([]string, len(a.categories))
	for i, c := range a.categories {
		terms[i] = "cat:" + c
	}

	q := url.Values{}
	q.Set("search_query", strings.Join(terms, " OR "))
	q.Set("sortBy", "submittedDate")
	q.Set("sortOrder", "descending")
	q.Set("max_results", fmt.Sprintf("%d", maxResults))

	return a.endpoint + "?" + q.Encode()
}

func parseArxivEntry(item *gofeed.Item) (model.RawEntry, bool) {
	title := strings.Join(strings.Fields(item.Title), " ")
	abstract := strings.TrimSpace(item.Description)

	var published time.Time
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	if item.Link == "" || title == "" || abstract == "" || published.IsZero() {
		return model.RawEntry{}, false
	}

	var authors []string
	for _, au := range item.Authors {
		if au != nil && au.Name != "" {
			authors = append(authors, au.Name)
		}
	}

	var rawCategory string
	if len(item.Categories) > 0 {
		rawCategory = item.Categories[0]
	}

	return model.RawEntry{
		ExternalID:  arxivID(item.Link),
		SourceType:  model.SourcePaper,
		SourceName:  "arxiv",
		Title:       title,
		Body:        abstract,
		Authors:     authors,
		RawCategory: rawCategory,
		Published:   published,
		URL:         item.Link,
		MediaURL:    pdfURL(item.Link),
	}, true
}

// arxivID extracts the identifier from an abstract page URL, e.g.
// http://arxiv.org/abs/2401.12345v2 -> 2401.12345v2. Unrecognized links fall
// back to the full URL.
func arxivID(link string) string {
	if idx := strings.Index(link, "/abs/"); idx >= 0 {
		return link[idx+len("/abs/"):]
	}
	return link
}

// pdfURL derives the PDF location from the abstract page URL.
func pdfURL(link string) string {
	if strings.Contains(link, "/abs/") {
		return strings.Replace(link, "/abs/", "/pdf/", 1)
	}
	return ""
}
