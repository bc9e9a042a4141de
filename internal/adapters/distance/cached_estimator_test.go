package distance

import (
	"context"
	"errors"
	"testing"
	"time"

	"delivery-tracking-service/internal/adapters/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEstimator struct {
	calls int
	km    float64
	err   error
}

func (c *countingEstimator) EstimateDistance(ctx context.Context, origin, destination string) (float64, error) {
	c.calls++
	return c.km, c.err
}

type brokenCache struct{}

func (brokenCache) GetDistance(ctx context.Context, origin, destination string) (float64, bool, error) {
	return 0, false, errors.New("cache down")
}

func (brokenCache) PutDistance(ctx context.Context, origin, destination string, km float64, ttl time.Duration) error {
	return errors.New("cache down")
}

func TestCachedEstimatorServesRepeatsFromCache(t *testing.T) {
	next := &countingEstimator{km: 878}
	e := NewCachedEstimator(next, memory.NewDistanceCache(), time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		km, err := e.EstimateDistance(ctx, "Melbourne", "Sydney")
		require.NoError(t, err)
		assert.Equal(t, 878.0, km)
	}
	assert.Equal(t, 1, next.calls)
}

func TestCachedEstimatorDoesNotCacheFailures(t *testing.T) {
	next := &countingEstimator{err: errors.New("boom")}
	e := NewCachedEstimator(next, memory.NewDistanceCache(), time.Hour)
	ctx := context.Background()

	_, err := e.EstimateDistance(ctx, "Melbourne", "Sydney")
	require.Error(t, err)
	_, err = e.EstimateDistance(ctx, "Melbourne", "Sydney")
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedEstimatorToleratesCacheFailure(t *testing.T) {
	next := &countingEstimator{km: 12}
	e := NewCachedEstimator(next, brokenCache{}, time.Hour)

	km, err := e.EstimateDistance(context.Background(), "Melbourne", "Geelong")
	require.NoError(t, err)
	assert.Equal(t, 12.0, km)
}

func TestStaticEstimator(t *testing.T) {
	e := NewStaticEstimator([]StaticPair{{From: "Melbourne", To: "Sydney", Km: 878}})

	km, err := e.EstimateDistance(context.Background(), "Melbourne", "Sydney")
	require.NoError(t, err)
	assert.Equal(t, 878.0, km)

	_, err = e.EstimateDistance(context.Background(), "Melbourne", "Nowhere")
	assert.Error(t, err)
}
