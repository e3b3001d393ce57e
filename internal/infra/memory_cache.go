package infra

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/Vovarama1992/newsroom/internal/metrics"
	"github.com/Vovarama1992/newsroom/internal/ports"
)

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryCache is the single instance fallback used when REDIS_URL is unset.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ ports.Cache = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expires) {
		metrics.CacheLookups.WithLabelValues("memory", "miss").Inc()
		return nil, false, nil
	}
	metrics.CacheLookups.WithLabelValues("memory", "hit").Inc()
	return e.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{value: value, expires: c.now().Add(ttl)}
	// expired entries are dropped lazily on writes
	for k, e := range c.entries {
		if !c.now().Before(e.expires) {
			delete(c.entries, k)
		}
	}
	return nil
}

// DeletePattern accepts the same glob syntax as redis SCAN MATCH for '*' and '?'.
func (c *MemoryCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.entries {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.entries, k)
		}
	}
	return nil
}
