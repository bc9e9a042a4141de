package memory

import (
	"context"
	"sync"
	"time"
)

type cachedDistance struct {
	km      float64
	expires time.Time
}

// DistanceCache is an expiring in-process distance cache.
type DistanceCache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]cachedDistance
}

func NewDistanceCache() *DistanceCache {
	return &DistanceCache{now: time.Now, entries: make(map[string]cachedDistance)}
}

func (c *DistanceCache) GetDistance(ctx context.Context, origin, destination string) (float64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := origin + "|" + destination
	e, ok := c.entries[key]
	if !ok {
		return 0, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, key)
		return 0, false, nil
	}
	return e.km, true, nil
}

func (c *DistanceCache) PutDistance(ctx context.Context, origin, destination string, km float64, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := cachedDistance{km: km}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.entries[origin+"|"+destination] = e
	return nil
}
