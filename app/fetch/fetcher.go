package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"feedmail/app/database"
	"feedmail/app/feed"
)

const requestTimeout = 30 * time.Second

// Fetcher performs one conditional HTTP exchange for one feed URL and writes
// the parsed result through the repositories.
type Fetcher struct {
	client    *http.Client
	parser    *feed.Parser
	feedRepo  database.FeedRepository
	itemRepo  database.ItemRepository
	userAgent string
}

// NewFetcher creates a new fetcher with the fixed request timeout.
func NewFetcher(feedRepo database.FeedRepository, itemRepo database.ItemRepository, userAgent string) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: requestTimeout},
		parser:    feed.NewParser(),
		feedRepo:  feedRepo,
		itemRepo:  itemRepo,
		userAgent: userAgent,
	}
}

// Run fetches feedURL once. Per-feed failures come back as *FeedError;
// anything else is a storage failure and fatal to the run. On a 2xx response
// the feed row is fully replaced and every parsed entry upserted, preserving
// the read state of items seen before.
func (f *Fetcher) Run(ctx context.Context, feedURL string) error {
	stored, err := f.feedRepo.GetByURL(feedURL)
	if err != nil {
		return err
	}

	slog.Debug("Fetching feed", "url", feedURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return &FeedError{URL: feedURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)
	if stored != nil {
		if stored.ETag != nil {
			req.Header.Set("If-None-Match", *stored.ETag)
		}
		if stored.LastModified != nil {
			req.Header.Set("If-Modified-Since", *stored.LastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return &FeedError{URL: feedURL, Err: fmt.Errorf("failed to fetch feed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return &FeedError{URL: feedURL, Err: ErrNotModified}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FeedError{URL: feedURL, Err: &StatusError{Code: resp.StatusCode}}
	}

	// Headers absent from this response clear the stored values on upsert;
	// they are not carried over from the previous fetch.
	etag := optionalHeader(resp.Header, "ETag")
	lastModified := optionalHeader(resp.Header, "Last-Modified")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FeedError{URL: feedURL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	metadata, items, err := f.parser.Run(data)
	if err != nil {
		return &FeedError{URL: feedURL, Err: err}
	}

	err = f.feedRepo.Upsert(database.Feed{
		URL:          feedURL,
		Link:         metadata.Link,
		Title:        metadata.Title,
		ETag:         etag,
		LastModified: lastModified,
	})
	if err != nil {
		return err
	}

	for _, item := range items {
		err := f.itemRepo.Upsert(database.Item{
			FeedURL:      feedURL,
			GUID:         item.GUID,
			Link:         item.Link,
			CommentsLink: item.CommentsLink,
			Title:        item.Title,
			PubDate:      item.PubDate,
			IsRead:       false,
		})
		if err != nil {
			return err
		}
	}

	slog.Debug("Fetched feed", "url", feedURL, "items", len(items))
	return nil
}

func optionalHeader(header http.Header, name string) *string {
	value := header.Get(name)
	if value == "" {
		return nil
	}
	return &value
}
