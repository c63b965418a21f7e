package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/time/rate"
)

const listingJSON = `{"kind":"Listing","data":{"children":[
 {"kind":"t3","data":{"title":"Link post","url":"https://www.example.com/a","subreddit":"news","created_utc":1700000000.5,"permalink":"/r/news/comments/abc/link_post/","score":42,"num_comments":7,"is_self":false}},
 {"kind":"t3","data":{"title":"Self post","url":"https://www.reddit.com/r/news/comments/def/","subreddit":"news","created_utc":1700000001,"permalink":"/r/news/comments/def/self/","score":1,"num_comments":0,"is_self":true}}
]}}`

const commentsJSON = `[
 {"kind":"Listing","data":{"children":[{"kind":"t3","data":{"title":"post"}}]}},
 {"kind":"Listing","data":{"children":[
  {"kind":"t1","data":{"author":"a","score":5,"body":"top","body_html":"&lt;p&gt;top&lt;/p&gt;","replies":{"kind":"Listing","data":{"children":[
    {"kind":"t1","data":{"author":"b","score":2,"body":"child","replies":""}},
    {"kind":"more","data":{"count":3}}
  ]}}}},
  {"kind":"t1","data":{"author":"c","score":1,"body":"second","replies":""}}
 ]}}
]`

func newTestPublicClient(baseURL string, httpClient *http.Client) *PublicClient {
	c := NewPublicClient(baseURL, "alienfeed-test/1.0", httpClient)
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestPublicClient_FetchLatest(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/r/news+worldnews/new.json" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "50" {
			t.Fatalf("unexpected limit query: %s", r.URL.RawQuery)
		}
		if got := r.Header.Get("User-Agent"); got != "alienfeed-test/1.0" {
			t.Fatalf("unexpected user agent: %q", got)
		}
		_, _ = w.Write([]byte(listingJSON))
	}))
	defer ts.Close()

	c := newTestPublicClient(ts.URL, ts.Client())
	got, err := c.FetchLatest(context.Background(), "news+worldnews")
	if err != nil {
		t.Fatalf("FetchLatest returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	first := got[0]
	if first.Title != "Link post" || first.Category != "news" || first.DetailLink != "/r/news/comments/abc/link_post/" {
		t.Fatalf("unexpected first candidate: %+v", first)
	}
	if first.Score != 42 || first.ReplyCount != 7 || first.CreatedAt != 1700000000.5 || first.IsSelf {
		t.Fatalf("unexpected first candidate numbers: %+v", first)
	}
	if !got[1].IsSelf {
		t.Fatalf("expected second candidate to be a self post: %+v", got[1])
	}
}

func TestPublicClient_FetchLatest_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := newTestPublicClient(ts.URL, ts.Client())
	_, err := c.FetchLatest(context.Background(), "news")
	if err == nil {
		t.Fatal("expected status error")
	}
	if !strings.Contains(err.Error(), "status 429") || !strings.Contains(err.Error(), "slow down") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPublicClient_FetchReplies(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/r/news/comments/abc/link_post.json" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(commentsJSON))
	}))
	defer ts.Close()

	c := newTestPublicClient(ts.URL, ts.Client())
	replies, err := c.FetchReplies(context.Background(), "/r/news/comments/abc/link_post/")
	if err != nil {
		t.Fatalf("FetchReplies returned error: %v", err)
	}
	if len(replies) != 2 {
		t.Fatalf("expected 2 top-level replies, got %d", len(replies))
	}
	top := replies[0]
	if top.Author != "a" || top.Body != "top" || top.BodyHTML != "&lt;p&gt;top&lt;/p&gt;" {
		t.Fatalf("unexpected top reply: %+v", top)
	}
	if len(top.Replies) != 2 || top.Replies[0].Author != "b" || top.Replies[1].Kind != MoreKind {
		t.Fatalf("unexpected nested replies: %+v", top.Replies)
	}
	if replies[1].Replies != nil {
		t.Fatalf("expected empty string replies to decode as none, got %+v", replies[1].Replies)
	}

	if _, err := c.FetchReplies(context.Background(), " "); err == nil || !strings.Contains(err.Error(), "no permalink") {
		t.Fatalf("expected no permalink error, got %v", err)
	}
}

func TestDecodeReplies_UnexpectedShapes(t *testing.T) {
	if _, err := DecodeReplies([]byte(`{"kind":"Listing"}`)); err == nil {
		t.Fatal("expected error for non-array response")
	}
	if _, err := DecodeReplies([]byte(`[{"kind":"Listing"}]`)); err == nil {
		t.Fatal("expected error for single listing")
	}
	replies, err := DecodeReplies([]byte(`[{}, {"kind":"Listing","data":{"children":[{"kind":"t1","data":"weird"}]}}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(replies) != 0 {
		t.Fatalf("expected malformed comment to be dropped, got %+v", replies)
	}
}

func TestDecodeReplies_BoundsDepth(t *testing.T) {
	var b strings.Builder
	depth := MaxReplyDepth + 10
	b.WriteString(`[{}, {"kind":"Listing","data":{"children":[`)
	for i := 0; i < depth; i++ {
		b.WriteString(`{"kind":"t1","data":{"author":"x","body":"y","replies":{"kind":"Listing","data":{"children":[`)
	}
	for i := 0; i < depth; i++ {
		b.WriteString(`]}}}}`)
	}
	b.WriteString(`]}}]`)

	replies, err := DecodeReplies([]byte(b.String()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	levels := 0
	for cur := replies; len(cur) > 0; cur = cur[0].Replies {
		levels++
	}
	if levels != MaxReplyDepth {
		t.Fatalf("expected %d levels, got %d", MaxReplyDepth, levels)
	}
}

func TestCommentsURLAndPostID(t *testing.T) {
	if got := CommentsURL("/r/news/comments/abc/x/"); got != "https://www.reddit.com/r/news/comments/abc/x/" {
		t.Fatalf("unexpected comments URL: %q", got)
	}
	if got := CommentsURL(""); got != "" {
		t.Fatalf("expected empty comments URL, got %q", got)
	}
	if got := postIDFromPermalink("/r/news/comments/abc123/some_title/"); got != "abc123" {
		t.Fatalf("unexpected post id: %q", got)
	}
	if got := postIDFromPermalink("/r/news/"); got != "" {
		t.Fatalf("expected empty post id, got %q", got)
	}
}
