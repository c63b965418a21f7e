package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	PageSize       = 50
	DefaultTimeout = 10 * time.Second
	// MaxReplyDepth caps how deep nested reply data is walked.
	MaxReplyDepth = 48
	CommentKind   = "t1"
	MoreKind      = "more"
)

// ErrNoReplies is returned by sources that have no discussion threads.
var ErrNoReplies = errors.New("source has no replies")

// Candidate is one post returned by a listing fetch.
type Candidate struct {
	Title      string
	URL        string
	Category   string
	CreatedAt  float64
	DetailLink string
	Score      int
	ReplyCount int
	IsSelf     bool
}

// Reply is one entry of a nested reply listing. Only CommentKind entries are comments.
type Reply struct {
	Kind     string
	Author   string
	Score    int
	Body     string
	BodyHTML string
	Replies  []Reply
}

type Source interface {
	FetchLatest(ctx context.Context, category string) ([]Candidate, error)
	FetchReplies(ctx context.Context, detailLink string) ([]Reply, error)
}

const (
	ModePublic = "public"
	ModeAPI    = "api"
	ModeRSS    = "rss"
	ModeMock   = "mock"
)

type Options struct {
	Mode       string
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Creds      Credentials
	Logger     zerolog.Logger
}

type Credentials struct {
	ID       string
	Secret   string
	Username string
	Password string
}

// New builds the source selected by opts.Mode.
func New(opts Options) (Source, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	switch strings.ToLower(strings.TrimSpace(opts.Mode)) {
	case "", ModePublic:
		return NewPublicClient(opts.BaseURL, opts.UserAgent, httpClient), nil
	case ModeAPI:
		return NewAPIClient(opts.Creds, opts.UserAgent)
	case ModeRSS:
		return NewFeedClient(opts.UserAgent, httpClient, opts.Logger), nil
	case ModeMock:
		return NewMockClient(time.Now), nil
	default:
		return nil, fmt.Errorf("unknown source mode: %s", opts.Mode)
	}
}

// CommentsURL is the browser address of an item's discussion page.
func CommentsURL(detailLink string) string {
	detailLink = strings.TrimSpace(detailLink)
	if detailLink == "" {
		return ""
	}
	if strings.HasPrefix(detailLink, "http://") || strings.HasPrefix(detailLink, "https://") {
		return detailLink
	}
	return "https://www.reddit.com" + detailLink
}
