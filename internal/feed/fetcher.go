// Package feed pulls subscribed feeds into the entry store.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/Eckii24/fresh-rss-summary/internal/database"
	"github.com/Eckii24/fresh-rss-summary/internal/models"
)

// Fetcher downloads and parses feeds, upserting their items as entries.
type Fetcher struct {
	db      *database.DB
	parser  *gofeed.Parser
	timeout time.Duration
	log     *slog.Logger
}

func NewFetcher(db *database.DB, timeout time.Duration, log *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{
		db:      db,
		parser:  gofeed.NewParser(),
		timeout: timeout,
		log:     log,
	}
}

// Probe parses the given URL as a feed and returns its title, so a
// subscription can be validated before it is stored.
func (f *Fetcher) Probe(ctx context.Context, url string) (title string, err error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parsed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return "", fmt.Errorf("parse feed %s: %w", url, err)
	}
	return parsed.Title, nil
}

// RefreshFeed fetches one feed and upserts its items. Returns the number of
// newly inserted entries.
func (f *Fetcher) RefreshFeed(ctx context.Context, feed models.Feed) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parsed, err := f.parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return 0, fmt.Errorf("parse feed %s: %w", feed.URL, err)
	}

	added := 0
	for _, item := range parsed.Items {
		guid := item.GUID
		if guid == "" {
			guid = item.Link
		}
		if guid == "" {
			continue
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}

		entry := models.Entry{
			FeedID:  feed.ID,
			GUID:    guid,
			Title:   item.Title,
			Link:    item.Link,
			Content: content,
		}
		if item.PublishedParsed != nil {
			entry.PublishedAt = item.PublishedParsed
		}

		inserted, err := f.db.UpsertEntry(entry)
		if err != nil {
			f.log.Warn("Failed to store entry", "feed", feed.URL, "guid", guid, "error", err)
			continue
		}
		if inserted {
			added++
		}
	}

	if err := f.db.TouchFeedFetched(feed.ID); err != nil {
		f.log.Warn("Failed to update feed fetch time", "feed", feed.URL, "error", err)
	}
	return added, nil
}

// RefreshAll fetches every subscribed feed in sequence. Per-feed failures
// are logged and skipped so one broken feed does not block the rest.
func (f *Fetcher) RefreshAll(ctx context.Context) (int, error) {
	feeds, err := f.db.ListFeeds()
	if err != nil {
		return 0, fmt.Errorf("list feeds: %w", err)
	}

	total := 0
	for _, feed := range feeds {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		added, err := f.RefreshFeed(ctx, feed)
		if err != nil {
			f.log.Warn("Feed refresh failed", "feed", feed.URL, "error", err)
			continue
		}
		total += added
	}
	return total, nil
}
