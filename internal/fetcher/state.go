package fetcher

import (
	"strings"
	"sync"
	"time"
)

const (
	MinInterval     = 15 * time.Second
	DefaultInterval = 5 * time.Minute
)

// State is shared between the fetcher goroutine and the UI loop.
type State struct {
	mu           sync.Mutex
	hasNew       bool
	updated      bool
	connectionOK bool
	lastChecked  time.Time
	lastErr      string
	fatal        error
	interval     time.Duration
	category     string
	blocked      map[string]struct{}
}

// Snapshot is a copy of State taken under its lock.
type Snapshot struct {
	HasNew       bool
	Updated      bool
	ConnectionOK bool
	LastChecked  time.Time
	LastError    string
	Fatal        error
}

func NewState(interval time.Duration, category string, blocked []string) *State {
	s := &State{category: category}
	s.SetInterval(interval)
	s.SetBlockedDomains(blocked)
	return s
}

func ClampInterval(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultInterval
	}
	if d < MinInterval {
		return MinInterval
	}
	return d
}

func (s *State) SetInterval(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = ClampInterval(d)
}

func (s *State) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func (s *State) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = category
}

func (s *State) Category() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

func (s *State) SetBlockedDomains(domains []string) {
	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			set[d] = struct{}{}
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocked = set
}

func (s *State) IsBlocked(domain string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blocked[strings.ToLower(domain)]
	return ok
}

// RecordCycle publishes the outcome of one fetch cycle.
func (s *State) RecordCycle(inserted int, err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inserted > 0 {
		s.hasNew = true
	}
	if err != nil {
		s.connectionOK = false
		s.lastErr = err.Error()
	} else {
		s.connectionOK = true
		s.lastChecked = at
		s.lastErr = ""
	}
	s.updated = true
}

// Fail records a store failure the UI must treat as fatal.
func (s *State) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fatal = err
	s.updated = true
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Consume returns the snapshot and clears the one-shot updated and new-data signals.
func (s *State) Consume() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshotLocked()
	s.updated = false
	s.hasNew = false
	return snap
}

func (s *State) snapshotLocked() Snapshot {
	return Snapshot{
		HasNew:       s.hasNew,
		Updated:      s.updated,
		ConnectionOK: s.connectionOK,
		LastChecked:  s.lastChecked,
		LastError:    s.lastErr,
		Fatal:        s.fatal,
	}
}
