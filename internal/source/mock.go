package source

import (
	"context"
	"fmt"
	"time"
)

// MockClient serves a fixed, offline set of posts.
type MockClient struct {
	nowFn func() time.Time
}

func NewMockClient(nowFn func() time.Time) *MockClient {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &MockClient{nowFn: nowFn}
}

func (c *MockClient) FetchLatest(_ context.Context, category string) ([]Candidate, error) {
	now := c.nowFn().Unix()
	out := make([]Candidate, 0, 6)
	domains := []string{"example.com", "youtube.com", "news.example.org"}
	for i := 0; i < 6; i++ {
		out = append(out, Candidate{
			Title:      fmt.Sprintf("Offline story %d from %s", i+1, category),
			URL:        fmt.Sprintf("https://%s/story/%d", domains[i%len(domains)], i+1),
			Category:   "mock",
			CreatedAt:  float64(now - int64(i*90)),
			DetailLink: fmt.Sprintf("/r/mock/comments/m%d/story/", i+1),
			Score:      10 * (6 - i),
			ReplyCount: 3,
		})
	}
	return out, nil
}

func (c *MockClient) FetchReplies(context.Context, string) ([]Reply, error) {
	return []Reply{
		{Kind: CommentKind, Author: "alice", Score: 12, Body: "Interesting, see [the source](https://example.com/src).", Replies: []Reply{
			{Kind: CommentKind, Author: "bob", Score: 3, Body: "> Interesting\nAgreed."},
			{Kind: MoreKind},
		}},
		{Kind: CommentKind, Author: "carol", Score: 1, Body: "Mirror: https://mirror.example.net/x"},
	}, nil
}
