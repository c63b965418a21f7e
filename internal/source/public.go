package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://www.reddit.com"

// PublicClient reads the unauthenticated JSON listings.
type PublicClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

func NewPublicClient(baseURL, userAgent string, httpClient *http.Client) *PublicClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &PublicClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      httpClient,
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

type listing struct {
	Kind string `json:"kind"`
	Data struct {
		Children []thing `json:"children"`
	} `json:"data"`
}

type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type postData struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Subreddit   string  `json:"subreddit"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	IsSelf      bool    `json:"is_self"`
}

type commentData struct {
	Author   string          `json:"author"`
	Score    int             `json:"score"`
	Body     string          `json:"body"`
	BodyHTML string          `json:"body_html"`
	Replies  json.RawMessage `json:"replies"`
}

func (c *PublicClient) FetchLatest(ctx context.Context, category string) ([]Candidate, error) {
	category = strings.Trim(strings.TrimSpace(category), "/")
	if category == "" {
		return nil, fmt.Errorf("no categories configured")
	}

	q := make(url.Values)
	q.Set("limit", strconv.Itoa(PageSize))
	body, err := c.get(ctx, "/r/"+category+"/new.json?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	var l listing
	if err := json.Unmarshal(body, &l); err != nil {
		return nil, fmt.Errorf("decode listing response: %w", err)
	}

	out := make([]Candidate, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		var p postData
		if err := json.Unmarshal(child.Data, &p); err != nil {
			continue
		}
		out = append(out, Candidate{
			Title:      p.Title,
			URL:        p.URL,
			Category:   p.Subreddit,
			CreatedAt:  p.CreatedUTC,
			DetailLink: p.Permalink,
			Score:      p.Score,
			ReplyCount: p.NumComments,
			IsSelf:     p.IsSelf,
		})
	}
	return out, nil
}

func (c *PublicClient) FetchReplies(ctx context.Context, detailLink string) ([]Reply, error) {
	detailLink = strings.TrimSpace(detailLink)
	if detailLink == "" {
		return nil, fmt.Errorf("no permalink")
	}

	body, err := c.get(ctx, strings.TrimRight(detailLink, "/")+".json")
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return DecodeReplies(body)
}

// DecodeReplies parses a [post, comments] listing pair into the neutral reply tree.
func DecodeReplies(body []byte) ([]Reply, error) {
	var listings []json.RawMessage
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("decode comments response: %w", err)
	}
	if len(listings) < 2 {
		return nil, fmt.Errorf("unexpected comments response: %d listings", len(listings))
	}
	var l listing
	if err := json.Unmarshal(listings[1], &l); err != nil {
		return nil, fmt.Errorf("decode comment listing: %w", err)
	}
	return convertThings(l.Data.Children, 0), nil
}

func convertThings(things []thing, depth int) []Reply {
	if depth >= MaxReplyDepth {
		return nil
	}
	out := make([]Reply, 0, len(things))
	for _, t := range things {
		r := Reply{Kind: t.Kind}
		if t.Kind == CommentKind {
			var d commentData
			if err := json.Unmarshal(t.Data, &d); err != nil {
				continue
			}
			r.Author = d.Author
			r.Score = d.Score
			r.Body = d.Body
			r.BodyHTML = d.BodyHTML
			r.Replies = convertNested(d.Replies, depth+1)
		}
		out = append(out, r)
	}
	return out
}

// convertNested handles the "replies" field, which is "" when a comment has no replies.
func convertNested(raw json.RawMessage, depth int) []Reply {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var l listing
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil
	}
	return convertThings(l.Data.Children, depth)
}

func (c *PublicClient) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func (c *PublicClient) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}
