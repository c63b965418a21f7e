package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
)

// FeedClient reads RSS/Atom feeds. The category string lists feed URLs
// separated by whitespace or commas.
type FeedClient struct {
	http      *http.Client
	parser    *gofeed.Parser
	userAgent string
	logger    zerolog.Logger
}

func NewFeedClient(userAgent string, httpClient *http.Client, logger zerolog.Logger) *FeedClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &FeedClient{http: httpClient, parser: gofeed.NewParser(), userAgent: userAgent, logger: logger}
}

func (c *FeedClient) FetchLatest(ctx context.Context, category string) ([]Candidate, error) {
	feeds := strings.FieldsFunc(category, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	if len(feeds) == 0 {
		return nil, fmt.Errorf("no feeds configured")
	}

	var out []Candidate
	var lastErr error
	ok := 0
	for _, feedURL := range feeds {
		items, err := c.fetchFeed(ctx, feedURL)
		if err != nil {
			c.logger.Warn().Err(err).Str("feed", feedURL).Msg("feed fetch failed")
			lastErr = err
			continue
		}
		ok++
		out = append(out, items...)
	}
	if ok == 0 {
		return nil, lastErr
	}
	return out, nil
}

func (c *FeedClient) fetchFeed(ctx context.Context, feedURL string) ([]Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s status %d", feedURL, resp.StatusCode)
	}

	parsed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	out := make([]Candidate, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		link := entry.Link
		if link == "" && len(entry.Links) > 0 {
			link = entry.Links[0]
		}
		published := time.Now().UTC()
		if entry.PublishedParsed != nil {
			published = entry.PublishedParsed.UTC()
		} else if entry.UpdatedParsed != nil {
			published = entry.UpdatedParsed.UTC()
		}
		out = append(out, Candidate{
			Title:     strings.TrimSpace(entry.Title),
			URL:       link,
			Category:  strings.TrimSpace(parsed.Title),
			CreatedAt: float64(published.Unix()),
			IsSelf:    link == "",
		})
	}
	return out, nil
}

func (c *FeedClient) FetchReplies(context.Context, string) ([]Reply, error) {
	return nil, ErrNoReplies
}
