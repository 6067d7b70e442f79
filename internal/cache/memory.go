package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/metrics"
)

// Memory is an in-process TTL cache. A TTL of zero effectively disables it:
// every entry is expired by the time it is read.
type Memory struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]memoryEntry

	stopOnce sync.Once
	stop     chan struct{}
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory creates a memory cache with the given TTL and starts its
// expiry sweep.
func NewMemory(ttl time.Duration) *Memory {
	m := &Memory{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
	}

	go m.sweep()
	return m
}

// Get returns the entry if present and not expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}

	metrics.CacheHitsTotal.Inc()
	return e.data, true
}

// Set stores a copy of value under key.
func (m *Memory) Set(_ context.Context, key string, value []byte) {
	data := make([]byte, len(value))
	copy(data, value)

	m.mu.Lock()
	m.entries[key] = memoryEntry{
		data:      data,
		expiresAt: time.Now().Add(m.ttl),
	}
	m.mu.Unlock()
}

// Close stops the expiry sweep. Idempotent.
func (m *Memory) Close() error {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	return nil
}

// sweep drops expired entries so the map cannot grow without bound.
func (m *Memory) sweep() {
	interval := m.ttl
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for key, e := range m.entries {
				if now.After(e.expiresAt) {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		}
	}
}
