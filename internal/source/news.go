package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"

	"github.com/VamsiPutheti12/News-Agent/internal/model"
)

// NewsFeed is an RSS/Atom adapter for one configured feed.
type NewsFeed struct {
	feedURL   string
	name      string
	client    *http.Client
	fetchBody bool
}

// NewNewsFeed builds an adapter for a single feed. When fetchBody is set the
// adapter follows each entry link and extracts the article text; otherwise the
// feed's own content or description serves as the body.
func NewNewsFeed(feedURL, name string, client *http.Client, fetchBody bool) *NewsFeed {
	if name == "" {
		name = hostOf(feedURL)
	}
	return &NewsFeed{feedURL: feedURL, name: name, client: client, fetchBody: fetchBody}
}

func (n *NewsFeed) Name() string { return n.name }

// Fetch parses the feed and returns up to maxResults entries. Entries missing
// a link, title, or timestamp are dropped with a debug log rather than
// failing the whole feed.
func (n *NewsFeed) Fetch(ctx context.Context, maxResults int) ([]model.RawEntry, error) {
	parser := gofeed.NewParser()
	parser.Client = n.client
	parser.UserAgent = userAgent

	feed, err := parser.ParseURLWithContext(n.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", n.feedURL, err)
	}

	var entries []model.RawEntry
	for _, item := range feed.Items {
		if len(entries) >= maxResults {
			break
		}

		entry, ok := n.parseItem(ctx, item)
		if !ok {
			log.WithFields(log.Fields{"feed": n.name, "title": item.Title}).
				Debug("Dropping feed item missing required fields")
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (n *NewsFeed) parseItem(ctx context.Context, item *gofeed.Item) (model.RawEntry, bool) {
	link := item.Link
	if link == "" {
		link = item.GUID
	}
	title := strings.TrimSpace(item.Title)

	var published time.Time
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	if link == "" || title == "" || published.IsZero() {
		return model.RawEntry{}, false
	}

	body := feedBody(item)
	if n.fetchBody {
		if text := n.extractBody(ctx, link); text != "" {
			body = text
		}
	}
	if strings.TrimSpace(body) == "" {
		return model.RawEntry{}, false
	}

	var authors []string
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	var mediaURL string
	if item.Image != nil {
		mediaURL = item.Image.URL
	}

	return model.RawEntry{
		ExternalID: link,
		SourceType: model.SourceNews,
		SourceName: n.name,
		Title:      title,
		Body:       body,
		Authors:    authors,
		Published:  published,
		URL:        link,
		MediaURL:   mediaURL,
	}, true
}

// extractBody downloads the article page and extracts readable text,
// preferring readability and falling back to concatenated paragraph text when
// readability yields nothing usable.
func (n *NewsFeed) extractBody(ctx context.Context, articleURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		log.WithField("url", articleURL).WithError(err).Debug("Article fetch failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.WithFields(log.Fields{"url": articleURL, "status": resp.StatusCode}).
			Debug("Article fetch returned error status")
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	parsedURL, _ := url.Parse(articleURL)
	html, err := doc.Html()
	if err == nil {
		article, rerr := readability.FromReader(strings.NewReader(html), parsedURL)
		if rerr == nil {
			if text := strings.TrimSpace(article.TextContent); len(text) > 100 {
				return text
			}
		}
	}

	// Readability came up empty; join the page's paragraphs instead.
	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); len(t) > 40 {
			paragraphs = append(paragraphs, t)
		}
	})
	return strings.Join(paragraphs, "\n\n")
}

func feedBody(item *gofeed.Item) string {
	if item.Content != "" {
		return stripHTML(item.Content)
	}
	return stripHTML(item.Description)
}

// stripHTML flattens markup to plain text via goquery; on unparseable input
// the raw string is returned as-is.
func stripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
