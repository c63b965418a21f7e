package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/glabrego/alienfeed/internal/news"
	"github.com/glabrego/alienfeed/internal/source"
)

type Source interface {
	FetchLatest(ctx context.Context, category string) ([]source.Candidate, error)
}

type Store interface {
	Tombstones(ctx context.Context) (map[string]struct{}, error)
	InsertIfAbsent(ctx context.Context, item news.Item) (bool, error)
}

// Fetcher polls the source and inserts unseen link posts.
type Fetcher struct {
	source  Source
	store   Store
	state   *State
	logger  zerolog.Logger
	timeout time.Duration
	nowFn   func() time.Time
}

func New(src Source, store Store, state *State, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		source:  src,
		store:   store,
		state:   state,
		logger:  logger,
		timeout: source.DefaultTimeout,
		nowFn:   time.Now,
	}
}

// Run fetches immediately and then once per interval until ctx is cancelled.
func (f *Fetcher) Run(ctx context.Context) {
	f.logger.Info().Dur("interval", f.state.Interval()).Msg("fetcher started")
	for {
		if _, err := f.RunOnce(ctx); err != nil {
			f.logger.Error().Err(err).Msg("fetcher stopped on store failure")
			f.state.Fail(err)
			return
		}

		timer := time.NewTimer(f.state.Interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			f.logger.Info().Msg("fetcher stopped")
			return
		case <-timer.C:
		}
	}
}

// RunOnce performs a single cycle. Transport errors are recorded in the shared
// state and swallowed; only store failures are returned.
func (f *Fetcher) RunOnce(ctx context.Context) (int, error) {
	start := f.nowFn()
	category := f.state.Category()

	tombstones, err := f.store.Tombstones(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil
		}
		return 0, fmt.Errorf("load tombstones: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	candidates, fetchErr := f.source.FetchLatest(reqCtx, category)
	cancel()
	if fetchErr != nil {
		if ctx.Err() != nil {
			return 0, nil
		}
		f.logger.Warn().Err(fetchErr).Str("category", category).Msg("fetch failed")
		f.state.RecordCycle(0, fetchErr, f.nowFn())
		return 0, nil
	}

	inserted := 0
	for _, cand := range candidates {
		if cand.IsSelf || strings.TrimSpace(cand.URL) == "" {
			continue
		}
		domain := news.DomainFromURL(cand.URL)
		if f.state.IsBlocked(domain) {
			continue
		}
		if _, gone := tombstones[cand.URL]; gone {
			continue
		}
		ok, err := f.store.InsertIfAbsent(ctx, news.Item{
			URL:        cand.URL,
			Title:      cand.Title,
			Category:   cand.Category,
			Domain:     domain,
			DetailLink: cand.DetailLink,
			CreatedAt:  cand.CreatedAt,
			Score:      cand.Score,
			ReplyCount: cand.ReplyCount,
		})
		if err != nil {
			if ctx.Err() != nil {
				return inserted, nil
			}
			return inserted, fmt.Errorf("insert %s: %w", cand.URL, err)
		}
		if ok {
			inserted++
		}
	}

	f.state.RecordCycle(inserted, nil, f.nowFn())
	f.logger.Debug().
		Int("candidates", len(candidates)).
		Int("inserted", inserted).
		Dur("duration", f.nowFn().Sub(start)).
		Msg("fetch cycle complete")
	return inserted, nil
}
