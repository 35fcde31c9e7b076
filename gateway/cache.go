// Package gateway provides the shared infrastructure behind the portal's
// upstream data clients: cache keys, a TTL policy, an in-memory store with
// stale fallback, bounded retries and the fetch facade tying them together.
package gateway

import (
	"sync"
	"time"
)

// maxIdle is how long an entry may go unread before the sweep drops it.
// Expired entries are otherwise retained on purpose so they can serve as
// stale fallbacks when the upstream is down.
const maxIdle = 24 * time.Hour

// Entry is one cached value with its freshness window.
type Entry struct {
	Value      any
	FetchedAt  time.Time
	TTL        time.Duration
	lastAccess time.Time
}

// Fresh reports whether the entry may be returned without refetching.
func (e *Entry) Fresh(now time.Time) bool {
	return now.Sub(e.FetchedAt) < e.TTL
}

// Age returns how long ago the entry was fetched.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// Store is a process-wide map from cache key to Entry, safe for concurrent
// use. Construct one at startup and inject it into every client; there is
// no package-level instance.
type Store struct {
	mu         sync.Mutex
	entries    map[string]*Entry
	maxEntries int
	now        func() time.Time
}

// NewStore returns an empty store holding at most maxEntries entries.
// maxEntries <= 0 means unbounded.
func NewStore(maxEntries int) *Store {
	return &Store{
		entries:    make(map[string]*Entry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the entry for key, fresh or stale, and whether one exists.
func (s *Store) Get(key string) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if ok {
		e.lastAccess = s.now()
	}
	return e, ok
}

// Put replaces the entry for key atomically. The value must not be
// mutated afterwards; refreshes always install a new value.
func (s *Store) Put(key string, value any, ttl time.Duration) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &Entry{Value: value, FetchedAt: now, TTL: ttl, lastAccess: now}
	s.sweepLocked(now)
}

// Len returns the number of entries currently held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// sweepLocked drops entries unread for longer than maxIdle, then enforces
// the size cap by evicting the longest-unread entries. Caller holds mu.
func (s *Store) sweepLocked(now time.Time) {
	for k, e := range s.entries {
		if now.Sub(e.lastAccess) > maxIdle {
			delete(s.entries, k)
		}
	}
	if s.maxEntries <= 0 {
		return
	}
	for len(s.entries) > s.maxEntries {
		var oldestKey string
		var oldest time.Time
		for k, e := range s.entries {
			if oldestKey == "" || e.lastAccess.Before(oldest) {
				oldestKey, oldest = k, e.lastAccess
			}
		}
		delete(s.entries, oldestKey)
	}
}
