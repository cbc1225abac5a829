package source

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"

	"albot/internal/model"
)

const userAgent = "albot (+https://github.com/ufosc/albot-and-albota)"

// FeedSource reads RSS and Atom feeds, retrying transient failures.
type FeedSource struct {
	client  *http.Client
	retries int
	backoff time.Duration
}

func NewFeedSource(timeout time.Duration) *FeedSource {
	return &FeedSource{
		client:  &http.Client{Timeout: timeout},
		retries: 3,
		backoff: 3 * time.Second,
	}
}

// WithRetries returns a copy of s making at most attempts requests per
// fetch, waiting backoff, 2*backoff, ... between them.
func (s *FeedSource) WithRetries(attempts int, backoff time.Duration) *FeedSource {
	c := *s
	c.retries = max(attempts, 1)
	c.backoff = backoff
	return &c
}

// Fetch returns the feed's entries, newest first as published.
func (s *FeedSource) Fetch(ctx context.Context, name, url string) ([]model.Item, error) {
	feed, err := s.loadFeedWithRetry(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed from %s: %w", url, err)
	}

	return lo.Map(feed.Items, func(item *gofeed.Item, _ int) model.Item {
		return model.Item{
			Title:      item.Title,
			Link:       item.Link,
			Author:     itemAuthor(item),
			Date:       itemDate(item),
			Summary:    item.Description,
			SourceName: name,
		}
	}), nil
}

func (s *FeedSource) loadFeedWithRetry(ctx context.Context, url string) (*gofeed.Feed, error) {
	var lastErr error
	for attempt := 0; attempt < s.retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * s.backoff
			log.Printf("[INFO] Retry %d for %s, waiting %v", attempt, url, backoff)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		feed, err := s.loadFeed(ctx, url)
		if err == nil {
			return feed, nil
		}
		lastErr = err

		if !retryable(err) {
			break
		}
	}
	return nil, lastErr
}

func (s *FeedSource) loadFeed(ctx context.Context, url string) (*gofeed.Feed, error) {
	parser := gofeed.NewParser()
	parser.Client = s.client
	parser.UserAgent = userAgent

	return parser.ParseURLWithContext(url, ctx)
}

// retryable reports whether a failed fetch may succeed later: network
// errors, rate limiting and server errors.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}

	return true
}

func itemAuthor(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		return item.Authors[0].Name
	}
	return ""
}

func itemDate(item *gofeed.Item) time.Time {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC()
	default:
		return time.Time{}
	}
}
