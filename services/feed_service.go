package services

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"

	"newsrag/models"
)

const (
	defaultPerFeedLimit = 5
	// Delay between per-article fetches. Politeness towards the article
	// hosts, not a performance knob.
	articleFetchDelay = 1 * time.Second
	maxArticleBytes   = 2 << 20
)

// FeedService pulls configured news feeds, extracts readable article text,
// and pushes the results through the RAG ingestion path.
type FeedService struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	rag        RAGService
	feeds      []FeedSource
	delay      time.Duration
}

// NewFeedService creates a feed ingester over the configured sources.
func NewFeedService(client *http.Client, rag RAGService, feeds []FeedSource) *FeedService {
	parser := gofeed.NewParser()
	parser.Client = client
	return &FeedService{
		httpClient: client,
		parser:     parser,
		rag:        rag,
		feeds:      feeds,
		delay:      articleFetchDelay,
	}
}

// IngestAll walks every configured feed sequentially, fetching at most limit
// articles per feed with a fixed delay between article fetches. A failing
// feed is reported in its result entry and does not stop the others.
func (f *FeedService) IngestAll(ctx context.Context, limit int) *models.IngestResponse {
	if limit <= 0 {
		limit = defaultPerFeedLimit
	}
	resp := &models.IngestResponse{Feeds: []models.FeedIngestResult{}}
	for _, src := range f.feeds {
		result := f.ingestFeed(ctx, src, limit)
		resp.Feeds = append(resp.Feeds, result)
		resp.TotalAdded += result.Added
	}
	log.Printf("FEED: ingestion finished, %d new documents", resp.TotalAdded)
	return resp
}

func (f *FeedService) ingestFeed(ctx context.Context, src FeedSource, limit int) models.FeedIngestResult {
	result := models.FeedIngestResult{Feed: src.Name}
	log.Printf("FEED: fetching '%s' (%s)", src.Name, src.URL)

	feed, err := f.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		log.Printf("FEED WARN: could not fetch feed '%s': %v", src.Name, err)
		result.Error = err.Error()
		return result
	}

	items := feed.Items
	if len(items) > limit {
		items = items[:limit]
	}

	docs := make([]models.Document, 0, len(items))
	for i, item := range items {
		if i > 0 {
			// Sequential on purpose; see delay comment above.
			select {
			case <-time.After(f.delay):
			case <-ctx.Done():
				result.Error = ctx.Err().Error()
				return result
			}
		}
		text := f.FetchArticle(ctx, item.Link)
		if text == "" {
			// Nothing extractable; the feed's own summary is better than
			// dropping the item.
			text = strings.TrimSpace(item.Description)
		}
		if text == "" {
			continue
		}
		docs = append(docs, models.Document{
			Text: text,
			Metadata: models.DocumentMetadata{
				Title:       item.Title,
				URL:         item.Link,
				PublishedAt: publishedAt(item),
				Source:      src.Name,
			},
		})
	}

	result.Fetched = len(docs)
	result.Added = f.rag.AddDocuments(ctx, docs)
	return result
}

// FetchArticle downloads an article page and extracts its readable main
// text. Returns an empty string when nothing extractable was found.
func (f *FeedService) FetchArticle(ctx context.Context, link string) string {
	if link == "" {
		return ""
	}
	pageURL, err := url.Parse(link)
	if err != nil {
		log.Printf("FEED WARN: bad article url '%s': %v", link, err)
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "newsrag/1.0")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		log.Printf("FEED WARN: could not fetch article '%s': %v", link, err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("FEED WARN: article '%s' returned status %d", link, resp.StatusCode)
		return ""
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxArticleBytes), pageURL)
	if err != nil {
		log.Printf("FEED WARN: could not extract article '%s': %v", link, err)
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}

func publishedAt(item *gofeed.Item) string {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC().Format(time.RFC3339)
	}
	return item.Published
}
