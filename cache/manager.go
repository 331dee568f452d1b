// Package cache provides the process-wide result cache shared by
// concurrent filter-chain executions.
//
// The Manager is a sharded LRU cache with per-entry TTL. Keys are 64-bit
// hashes combining graph structure, parameter values and the source
// fingerprint, so structurally identical graphs applied to different
// geometry never collide. A background sweep removes TTL-expired entries
// independent of access pattern.
//
// Manager is safe for concurrent use and must not be copied after
// creation.
package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Default configuration values.
const (
	// DefaultShardCount is the number of shards for reduced lock
	// contention. Must be a power of 2 for fast modulo via bitwise AND.
	DefaultShardCount = 16

	// DefaultCapacity is the default maximum entries per shard.
	DefaultCapacity = 256

	// DefaultTTL is the default entry lifetime.
	DefaultTTL = 5 * time.Minute

	// DefaultSweepInterval is how often the background sweep runs.
	DefaultSweepInterval = 30 * time.Second

	// shardMask is used for fast shard selection (DefaultShardCount - 1).
	shardMask = DefaultShardCount - 1
)

// CorruptionError reports a cached entry whose stored size estimate no
// longer matches its value. The offending key is flushed; the rest of the
// cache is untouched.
type CorruptionError struct {
	// Key is the flushed cache key.
	Key uint64
}

// Error implements error.
func (e *CorruptionError) Error() string {
	return fmt.Sprintf("cache: corrupt entry for key %#x flushed", e.Key)
}

// Options configures a Manager.
type Options[V any] struct {
	// Capacity is the maximum entries per shard.
	// Zero means DefaultCapacity. Total capacity is Capacity * 16 shards.
	Capacity int

	// TTL is the lifetime applied to entries stored with Put.
	// Zero means DefaultTTL; negative disables expiry.
	TTL time.Duration

	// SweepInterval is how often expired entries are swept out regardless
	// of access pattern. Zero means DefaultSweepInterval; negative
	// disables the background sweep.
	SweepInterval time.Duration

	// SizeOf recomputes a value's size estimate, enabling corruption
	// detection on Get. Nil disables the check.
	SizeOf func(V) int

	// OnCorruption is called after a corrupt entry has been flushed.
	// Nil means corrupt entries are flushed silently (the corruption
	// counter still advances).
	OnCorruption func(*CorruptionError)
}

// entry holds a cached value with its bookkeeping.
type entry[V any] struct {
	value      V
	size       int
	insertedAt time.Time
	ttl        time.Duration
	node       *lruNode
}

// expired reports whether the entry's TTL has elapsed at now.
func (e *entry[V]) expired(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.insertedAt) >= e.ttl
}

// shard is a single cache shard with its own lock.
type shard[V any] struct {
	mu      sync.RWMutex
	entries map[uint64]*entry[V]
	lru     *lruList
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Len         int
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
	Corruptions uint64
}

// Manager is the process-wide filter-result cache.
//
// It is initialized once at process start, injected into chains, and torn
// down with Close at shutdown.
type Manager[V any] struct {
	shards   [DefaultShardCount]*shard[V]
	opts     Options[V]
	capacity int
	ttl      time.Duration

	sweeper *cron.Cron

	hits        atomic.Uint64
	misses      atomic.Uint64
	evictions   atomic.Uint64
	expirations atomic.Uint64
	corruptions atomic.Uint64
}

// NewManager creates a Manager and starts its background sweep.
// Call Close when the process shuts down.
func NewManager[V any](opts Options[V]) *Manager[V] {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	ttl := opts.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	m := &Manager[V]{opts: opts, capacity: capacity, ttl: ttl}
	for i := range m.shards {
		m.shards[i] = &shard[V]{
			entries: make(map[uint64]*entry[V]),
			lru:     &lruList{},
		}
	}

	sweep := opts.SweepInterval
	if sweep == 0 {
		sweep = DefaultSweepInterval
	}
	if sweep > 0 {
		m.sweeper = cron.New()
		_, _ = m.sweeper.AddFunc(fmt.Sprintf("@every %s", sweep), m.Sweep)
		m.sweeper.Start()
	}
	return m
}

// getShard returns the shard for a key.
func (m *Manager[V]) getShard(key uint64) *shard[V] {
	return m.shards[key&shardMask]
}

// Get retrieves a cached value by key.
// Returns (value, true) on a hit; expired and corrupt entries count as
// misses and are removed.
func (m *Manager[V]) Get(key uint64) (V, bool) {
	var zero V
	s := m.getShard(key)

	// Fast path: read lock to check existence.
	s.mu.RLock()
	_, exists := s.entries[key]
	s.mu.RUnlock()

	if !exists {
		m.misses.Add(1)
		return zero, false
	}

	// Slow path: write lock for LRU update and expiry/corruption checks.
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		m.misses.Add(1)
		return zero, false
	}
	if e.expired(time.Now()) {
		s.lru.Remove(e.node)
		delete(s.entries, key)
		s.mu.Unlock()
		m.expirations.Add(1)
		m.misses.Add(1)
		return zero, false
	}
	if m.opts.SizeOf != nil && m.opts.SizeOf(e.value) != e.size {
		s.lru.Remove(e.node)
		delete(s.entries, key)
		s.mu.Unlock()
		m.corruptions.Add(1)
		m.misses.Add(1)
		if m.opts.OnCorruption != nil {
			m.opts.OnCorruption(&CorruptionError{Key: key})
		}
		return zero, false
	}
	s.lru.MoveToFront(e.node)
	value := e.value
	s.mu.Unlock()

	m.hits.Add(1)
	return value, true
}

// Put stores a value with the manager's TTL. sizeHint is the caller's
// size estimate; it drives corruption detection when Options.SizeOf is
// set. If the shard exceeds capacity, the oldest entries are evicted.
//
// The value is stored as-is (not copied). Callers must not modify it
// after caching.
func (m *Manager[V]) Put(key uint64, value V, sizeHint int) {
	s := m.getShard(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[key]; ok {
		existing.value = value
		existing.size = sizeHint
		existing.insertedAt = time.Now()
		existing.ttl = m.ttl
		s.lru.MoveToFront(existing.node)
		return
	}

	for s.lru.Len() >= m.capacity {
		oldest, ok := s.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(s.entries, oldest)
		m.evictions.Add(1)
	}

	node := s.lru.PushFront(key)
	s.entries[key] = &entry[V]{
		value:      value,
		size:       sizeHint,
		insertedAt: time.Now(),
		ttl:        m.ttl,
		node:       node,
	}
}

// Delete removes an entry. Returns true if the entry was present.
func (m *Manager[V]) Delete(key uint64) bool {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.lru.Remove(e.node)
	delete(s.entries, key)
	return true
}

// Flush removes all entries from the cache.
func (m *Manager[V]) Flush() {
	for _, s := range m.shards {
		s.mu.Lock()
		s.entries = make(map[uint64]*entry[V])
		s.lru.Clear()
		s.mu.Unlock()
	}
}

// Sweep removes all TTL-expired entries. It runs periodically in the
// background; exposing it also lets tests trigger expiry deterministically.
func (m *Manager[V]) Sweep() {
	now := time.Now()
	for _, s := range m.shards {
		s.mu.Lock()
		for key, e := range s.entries {
			if e.expired(now) {
				s.lru.Remove(e.node)
				delete(s.entries, key)
				m.expirations.Add(1)
			}
		}
		s.mu.Unlock()
	}
}

// Len returns the total number of entries across all shards.
func (m *Manager[V]) Len() int {
	total := 0
	for _, s := range m.shards {
		s.mu.RLock()
		total += len(s.entries)
		s.mu.RUnlock()
	}
	return total
}

// Capacity returns the total capacity across all shards.
func (m *Manager[V]) Capacity() int {
	return m.capacity * DefaultShardCount
}

// Stats returns current cache statistics.
func (m *Manager[V]) Stats() Stats {
	return Stats{
		Len:         m.Len(),
		Hits:        m.hits.Load(),
		Misses:      m.misses.Load(),
		Evictions:   m.evictions.Load(),
		Expirations: m.expirations.Load(),
		Corruptions: m.corruptions.Load(),
	}
}

// Close stops the background sweep. The cache remains usable afterwards;
// only the periodic expiry stops.
func (m *Manager[V]) Close() {
	if m.sweeper != nil {
		ctx := m.sweeper.Stop()
		<-ctx.Done()
	}
}
