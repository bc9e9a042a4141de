package distance

import (
	"context"
	"fmt"

	"delivery-tracking-service/internal/domain"
)

type StaticPair struct {
	From, To string
	Km       float64
}

// StaticEstimator answers from a fixed table of pairs. Used for local runs
// without an LLM key and in tests.
type StaticEstimator struct {
	m map[string]float64
}

func NewStaticEstimator(pairs []StaticPair) *StaticEstimator {
	m := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = p.Km
	}
	return &StaticEstimator{m: m}
}

func (s *StaticEstimator) EstimateDistance(ctx context.Context, origin, destination string) (float64, error) {
	km, ok := s.m[origin+"|"+destination]
	if !ok {
		return 0, fmt.Errorf("missing pair %q -> %q: %w", origin, destination, domain.ErrUpstream)
	}
	return km, nil
}
