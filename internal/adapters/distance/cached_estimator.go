package distance

import (
	"context"
	"time"

	"delivery-tracking-service/internal/platform/logging"
	"delivery-tracking-service/internal/ports"
)

// CachedEstimator serves repeated origin/destination pairs from a cache.
// Cache failures are logged and fall through to the wrapped estimator.
type CachedEstimator struct {
	next  ports.DistanceEstimator
	cache ports.DistanceCache
	ttl   time.Duration
}

func NewCachedEstimator(next ports.DistanceEstimator, cache ports.DistanceCache, ttl time.Duration) *CachedEstimator {
	return &CachedEstimator{next: next, cache: cache, ttl: ttl}
}

func (c *CachedEstimator) EstimateDistance(ctx context.Context, origin, destination string) (float64, error) {
	log := logging.WithComponent("distance-cache")

	km, ok, err := c.cache.GetDistance(ctx, origin, destination)
	if err != nil {
		log.Warn().Err(err).Str("destination", destination).Msg("cache lookup failed")
	} else if ok {
		return km, nil
	}

	km, err = c.next.EstimateDistance(ctx, origin, destination)
	if err != nil {
		return 0, err
	}

	if err := c.cache.PutDistance(ctx, origin, destination, km, c.ttl); err != nil {
		log.Warn().Err(err).Str("destination", destination).Msg("cache store failed")
	}
	return km, nil
}
