package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/NPierce1798/launchlens/internal/models"
)

// maxNewsItems bounds how many articles a report carries per competitor.
const maxNewsItems = 5

// NewsClient fetches recent articles about a company from an RSS search
// feed. Unlike enrichment, a fetch failure here is fatal for the operation:
// news absence without an explicit empty feed is an anomaly worth surfacing.
type NewsClient struct {
	feedURL    string
	httpClient *http.Client
	parser     *gofeed.Parser
}

func NewNewsClient(feedURL string) *NewsClient {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	parser := gofeed.NewParser()
	parser.Client = httpClient
	return &NewsClient{feedURL: feedURL, httpClient: httpClient, parser: parser}
}

// GetNews returns at most the first five feed entries for the company,
// preserving feed order. An empty slice means the feed simply had no matches.
func (c *NewsClient) GetNews(ctx context.Context, companyName string) ([]models.NewsItem, error) {
	feedURL := c.feedURL + "?q=" + url.QueryEscape(companyName)
	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("news feed %q: %w", companyName, err)
	}

	items := make([]models.NewsItem, 0, maxNewsItems)
	for _, it := range feed.Items {
		if len(items) == maxNewsItems {
			break
		}
		content := it.Content
		if content == "" {
			content = it.Description
		}
		items = append(items, models.NewsItem{
			Title:   it.Title,
			Link:    it.Link,
			Content: content,
		})
	}
	return items, nil
}
