package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisDistanceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDistanceCache(client), mr
}

func TestRedisDistanceCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.GetDistance(ctx, "Melbourne", "Sydney")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.PutDistance(ctx, "Melbourne", "Sydney", 878.5, time.Hour))

	km, ok, err := c.GetDistance(ctx, " melbourne ", "SYDNEY")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 878.5, km)
}

func TestRedisDistanceCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.PutDistance(ctx, "Melbourne", "Perth", 3400, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.GetDistance(ctx, "Melbourne", "Perth")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisDistanceCacheRejectsEmptyKeys(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, _, err := c.GetDistance(ctx, "", "Sydney")
	assert.Error(t, err)
	assert.Error(t, c.PutDistance(ctx, "Melbourne", "  ", 1, time.Minute))
}

func TestRedisDistanceCacheCorruptValue(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("distance:melbourne|hobart", "far"))

	_, _, err := c.GetDistance(context.Background(), "Melbourne", "Hobart")
	assert.Error(t, err)
}
