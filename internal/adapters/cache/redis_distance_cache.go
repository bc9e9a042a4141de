package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"delivery-tracking-service/internal/platform/obs"

	goredis "github.com/redis/go-redis/v9"
)

const distanceKeyPrefix = "distance:"

// Redis backed cache for origin->destination distance estimates.
// Keys are normalized (trimmed, lower-cased) so "Sydney" and " sydney" share an entry.
type RedisDistanceCache struct {
	client goredis.Cmdable
}

func NewRedisDistanceCache(client goredis.Cmdable) *RedisDistanceCache {
	return &RedisDistanceCache{client: client}
}

func (c *RedisDistanceCache) GetDistance(ctx context.Context, origin, destination string) (_ float64, _ bool, err error) {
	defer obs.Time(ctx, "redis.distance.Get")(&err)

	key, err := distanceKey(origin, destination)
	if err != nil {
		return 0, false, err
	}

	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get distance cache %q: %w", key, err)
	}

	km, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("get distance cache %q: parse %q: %w", key, raw, err)
	}
	return km, true, nil
}

func (c *RedisDistanceCache) PutDistance(ctx context.Context, origin, destination string, km float64, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "redis.distance.Put")(&err)

	key, err := distanceKey(origin, destination)
	if err != nil {
		return err
	}

	value := strconv.FormatFloat(km, 'f', -1, 64)
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("put distance cache %q: %w", key, err)
	}
	return nil
}

func distanceKey(origin, destination string) (string, error) {
	origin = strings.ToLower(strings.TrimSpace(origin))
	destination = strings.ToLower(strings.TrimSpace(destination))
	if origin == "" || destination == "" {
		return "", errors.New("distance cache: origin and destination must not be empty")
	}
	return distanceKeyPrefix + origin + "|" + destination, nil
}
