package vehicles

import (
	"sync"
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/plates"
)

type cacheEntry struct {
	vehicle   plates.Vehicle
	expiresAt time.Time
}

// memoryCache is the per-process lookup cache. Expired entries are dropped
// when read.
type memoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func newMemoryCache(ttl time.Duration) *memoryCache {
	return &memoryCache{ttl: ttl, now: time.Now, entries: map[string]cacheEntry{}}
}

func (c *memoryCache) get(plate string) (plates.Vehicle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[plate]
	if !ok {
		return plates.Vehicle{}, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, plate)
		return plates.Vehicle{}, false
	}
	return entry.vehicle, true
}

func (c *memoryCache) set(plate string, vehicle plates.Vehicle) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[plate] = cacheEntry{vehicle: vehicle, expiresAt: c.now().Add(c.ttl)}
}
