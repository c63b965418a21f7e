package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"golang.org/x/time/rate"
)

// APIClient reads listings through the authenticated Reddit API.
type APIClient struct {
	client  *reddit.Client
	limiter *rate.Limiter
}

func NewAPIClient(creds Credentials, userAgent string) (*APIClient, error) {
	if creds.ID == "" || creds.Secret == "" {
		return nil, fmt.Errorf("api source requires REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET")
	}
	opts := []reddit.Opt{}
	if userAgent != "" {
		opts = append(opts, reddit.WithUserAgent(userAgent))
	}
	client, err := reddit.NewClient(reddit.Credentials{
		ID:       creds.ID,
		Secret:   creds.Secret,
		Username: creds.Username,
		Password: creds.Password,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("create reddit client: %w", err)
	}
	return &APIClient{client: client, limiter: rate.NewLimiter(rate.Every(time.Second), 1)}, nil
}

func (c *APIClient) FetchLatest(ctx context.Context, category string) ([]Candidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	posts, _, err := c.client.Subreddit.NewPosts(ctx, strings.Trim(category, "/ "), &reddit.ListOptions{Limit: PageSize})
	if err != nil {
		return nil, fmt.Errorf("authenticated api error: %w", err)
	}

	out := make([]Candidate, 0, len(posts))
	for _, p := range posts {
		var created float64
		if p.Created != nil {
			created = float64(p.Created.Time.Unix())
		}
		out = append(out, Candidate{
			Title:      p.Title,
			URL:        p.URL,
			Category:   p.SubredditName,
			CreatedAt:  created,
			DetailLink: p.Permalink,
			Score:      p.Score,
			ReplyCount: p.NumberOfComments,
			IsSelf:     p.IsSelfPost,
		})
	}
	return out, nil
}

func (c *APIClient) FetchReplies(ctx context.Context, detailLink string) ([]Reply, error) {
	id := postIDFromPermalink(detailLink)
	if id == "" {
		return nil, fmt.Errorf("no permalink")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	pc, _, err := c.client.Post.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("authenticated api error: %w", err)
	}
	return convertComments(pc.Comments, 0), nil
}

func convertComments(comments []*reddit.Comment, depth int) []Reply {
	if depth >= MaxReplyDepth {
		return nil
	}
	out := make([]Reply, 0, len(comments))
	for _, c := range comments {
		if c == nil {
			continue
		}
		out = append(out, Reply{
			Kind:    CommentKind,
			Author:  c.Author,
			Score:   c.Score,
			Body:    c.Body,
			Replies: convertComments(c.Replies.Comments, depth+1),
		})
	}
	return out
}

// postIDFromPermalink extracts "abc123" from "/r/news/comments/abc123/some_title/".
func postIDFromPermalink(permalink string) string {
	parts := strings.Split(strings.Trim(permalink, "/"), "/")
	for i, p := range parts {
		if p == "comments" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}
