package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glabrego/alienfeed/internal/comments"
	"github.com/glabrego/alienfeed/internal/news"
	"github.com/glabrego/alienfeed/internal/storage"
)

type Repository interface {
	Scan(ctx context.Context, excludedDomains []string) ([]news.Item, error)
	Bookmarks(ctx context.Context) ([]news.Item, error)
	UpdateFlags(ctx context.Context, itemURL string, update news.FlagUpdate) error
	DeleteAndTombstone(ctx context.Context, itemURL string) error
	Backup(ctx context.Context, dest string) error
}

// Service is what the UI needs from storage and the reply source.
type Service struct {
	repo    Repository
	replies comments.RepliesFetcher
	nowFn   func() time.Time
}

func NewService(repo Repository, replies comments.RepliesFetcher) *Service {
	return &Service{repo: repo, replies: replies, nowFn: time.Now}
}

// SetNowFn replaces the clock used to name export files.
func (s *Service) SetNowFn(fn func() time.Time) {
	if fn != nil {
		s.nowFn = fn
	}
}

func (s *Service) ListItems(ctx context.Context, excludedDomains []string) ([]news.Item, error) {
	items, err := s.repo.Scan(ctx, excludedDomains)
	if err != nil {
		return nil, fmt.Errorf("load items from store: %w", err)
	}
	return items, nil
}

// UpdateFlags persists flag changes. An item deleted in the meantime is not an error.
func (s *Service) UpdateFlags(ctx context.Context, itemURL string, update news.FlagUpdate) error {
	err := s.repo.UpdateFlags(ctx, itemURL, update)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("update item flags: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, itemURL string) error {
	if err := s.repo.DeleteAndTombstone(ctx, itemURL); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (s *Service) LoadComments(ctx context.Context, detailLink string) *comments.Thread {
	return comments.Load(ctx, s.replies, detailLink)
}
