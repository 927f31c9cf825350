// Package cache keeps full-reload snapshots of catalog tables in memory.
package cache

import (
	"context"
	"sync"
	"time"
)

type key struct {
	kind    string
	version uint64
}

type item struct {
	value      any
	expiration time.Time
}

// Snapshots is a thread-safe TTL cache of whole-table snapshots. Entries are keyed
// by (kind, version); Bump moves a kind to a new version so a snapshot loaded before
// a write is never served after it.
type Snapshots struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	versions map[string]uint64
	data     map[key]item
}

// New creates a cache whose entries live for ttl. A ttl of zero disables caching.
func New(ttl time.Duration) *Snapshots {
	return &Snapshots{
		ttl:      ttl,
		now:      time.Now,
		versions: make(map[string]uint64),
		data:     make(map[key]item),
	}
}

// Version is the current version of kind.
func (s *Snapshots) Version(kind string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[kind]
}

// Get returns the live snapshot of kind at its current version.
func (s *Snapshots) Get(kind string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.data[key{kind, s.versions[kind]}]
	if !ok || s.now().After(it.expiration) {
		return nil, false
	}
	return it.value, true
}

// Set stores value as the snapshot of kind taken at version. A snapshot whose version
// was overtaken while it loaded is dropped.
func (s *Snapshots) Set(kind string, version uint64, value any) {
	if s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.versions[kind] != version {
		return
	}
	s.data[key{kind, version}] = item{value: value, expiration: s.now().Add(s.ttl)}
}

// Bump invalidates every snapshot of kind.
func (s *Snapshots) Bump(kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.versions[kind]++
	for k := range s.data {
		if k.kind == kind {
			delete(s.data, k)
		}
	}
}

// Size returns the number of stored snapshots (for debugging/monitoring)
func (s *Snapshots) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Load returns the cached snapshot of kind, calling fetch on a miss. Callers must
// treat the returned slice as read-only.
func Load[T any](ctx context.Context, s *Snapshots, kind string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if v, ok := s.Get(kind); ok {
		if out, ok := v.([]T); ok {
			return out, nil
		}
	}
	version := s.Version(kind)
	out, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.Set(kind, version, out)
	return out, nil
}
