// Package cache provides bounded, TTL-aware in-memory caches and a gin
// middleware that memoizes JSON responses per route.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dalfonso89/prayer-times-api/internal/observability"
)

// Entry is a cached value and the time it was stored.
type Entry[V any] struct {
	Value    V
	StoredAt time.Time
}

// Option configures a Store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now as the store's clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Store is a capacity-bounded LRU whose entries expire after a TTL.
// It is safe for concurrent use; concurrent writes to a key are last-write-wins.
type Store[V any] struct {
	name    string
	ttl     time.Duration
	now     func() time.Time
	entries *lru.Cache[string, Entry[V]]
}

// NewStore creates a store holding at most capacity entries for ttl each.
func NewStore[V any](name string, capacity int, ttl time.Duration, opts ...Option) (*Store[V], error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	entries, err := lru.NewWithEvict[string, Entry[V]](capacity, func(string, Entry[V]) {
		observability.CacheEvictions.WithLabelValues(name).Inc()
	})
	if err != nil {
		return nil, err
	}

	return &Store[V]{
		name:    name,
		ttl:     ttl,
		now:     o.now,
		entries: entries,
	}, nil
}

// Name identifies the store in logs and metrics.
func (s *Store[V]) Name() string {
	return s.name
}

// TTL returns the freshness window.
func (s *Store[V]) TTL() time.Duration {
	return s.ttl
}

// Get returns the entry for key if it is younger than the TTL. Stale
// entries are dropped and reported as absent.
func (s *Store[V]) Get(key string) (Entry[V], bool) {
	entry, ok := s.entries.Get(key)
	if !ok {
		observability.CacheLookups.WithLabelValues(s.name, "miss").Inc()
		return Entry[V]{}, false
	}
	if s.Age(entry) >= s.ttl {
		s.entries.Remove(key)
		observability.CacheLookups.WithLabelValues(s.name, "stale").Inc()
		return Entry[V]{}, false
	}
	observability.CacheLookups.WithLabelValues(s.name, "hit").Inc()
	return entry, true
}

// Set stores value under key stamped with the current time.
func (s *Store[V]) Set(key string, value V) {
	s.entries.Add(key, Entry[V]{Value: value, StoredAt: s.now()})
	observability.CacheStores.WithLabelValues(s.name, "stored").Inc()
}

// Age returns how long ago entry was stored.
func (s *Store[V]) Age(entry Entry[V]) time.Duration {
	return s.now().Sub(entry.StoredAt)
}

// Len returns the number of entries, including ones not yet found stale.
func (s *Store[V]) Len() int {
	return s.entries.Len()
}

// Purge drops every entry.
func (s *Store[V]) Purge() {
	s.entries.Purge()
}
