package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/glabrego/alienfeed/internal/config"
	"github.com/glabrego/alienfeed/internal/fetcher"
	"github.com/glabrego/alienfeed/internal/source"
	"github.com/glabrego/alienfeed/internal/storage"
)

// Runtime owns the per-profile resources: the store, the source and the
// background fetcher that feeds the shared state.
type Runtime struct {
	Config  config.Config
	Profile config.Profile
	Store   *storage.Repository
	Source  source.Source
	State   *fetcher.State
	Service *Service

	fetcher *fetcher.Fetcher
	logger  zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

// Open prepares the active profile's store and source. The fetcher is not
// started until Start is called.
func Open(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Runtime, error) {
	profile := cfg.Active()
	dbPath := cfg.DatabasePath(profile)

	repo, err := storage.NewRepository(dbPath)
	if err != nil {
		return nil, err
	}
	if err := repo.Init(ctx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("init %s: %w", dbPath, err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("database %s is not writable: %w", dbPath, err)
	}

	src, err := source.New(source.Options{
		Mode:      cfg.General.Source,
		UserAgent: cfg.General.UserAgent,
		Timeout:   cfg.RequestTimeout(),
		Creds: source.Credentials{
			ID:       cfg.Reddit.ClientID,
			Secret:   cfg.Reddit.ClientSecret,
			Username: cfg.Reddit.Username,
			Password: cfg.Reddit.Password,
		},
		Logger: logger.With().Str("component", "source").Logger(),
	})
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("build source: %w", err)
	}

	state := fetcher.NewState(cfg.Interval(), profile.Categories, cfg.General.BlockedDomains)
	f := fetcher.New(src, repo, state, logger.With().Str("component", "fetcher").Str("profile", profile.Name).Logger())

	logger.Info().
		Str("profile", profile.Name).
		Str("database", dbPath).
		Str("source", cfg.General.Source).
		Msg("runtime opened")

	return &Runtime{
		Config:  cfg,
		Profile: profile,
		Store:   repo,
		Source:  src,
		State:   state,
		Service: NewService(repo, src),
		fetcher: f,
		logger:  logger,
	}, nil
}

// Start launches the fetcher. Calling it twice is a no-op.
func (r *Runtime) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil || r.closed {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		r.fetcher.Run(ctx)
	}(r.done)
}

// Stop cancels the fetcher and waits for its current cycle to finish.
func (r *Runtime) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *Runtime) Close() error {
	r.Stop()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if err := r.Store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	r.logger.Info().Str("profile", r.Profile.Name).Msg("runtime closed")
	return nil
}
