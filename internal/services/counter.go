package services

import (
	"context"
	"fmt"

	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/logging"
	"delivery-tracking-service/internal/platform/metrics"
	"delivery-tracking-service/internal/ports"
)

// CounterService tallies CRUD operations. Increments are best-effort: a failed
// increment is logged and counted but never fails the operation it records.
type CounterService struct {
	store ports.CounterStore
}

func NewCounterService(store ports.CounterStore) *CounterService {
	return &CounterService{store: store}
}

func (s *CounterService) Init(ctx context.Context) error {
	if err := s.store.InitCounters(ctx); err != nil {
		return fmt.Errorf("init counters: %w", err)
	}
	return nil
}

func (s *CounterService) Record(ctx context.Context, kind domain.OperationKind) {
	if err := s.store.Increment(ctx, kind); err != nil {
		metrics.CounterIncrementFailures.WithLabelValues(string(kind)).Inc()
		log := logging.WithComponent("counters")
		log.Warn().
			Err(err).
			Str("kind", string(kind)).
			Msg("operation counter increment dropped")
	}
}

func (s *CounterService) Statistics(ctx context.Context) (domain.OperationCounters, error) {
	c, err := s.store.ReadCounters(ctx)
	if err != nil {
		return domain.OperationCounters{}, fmt.Errorf("statistics: %w", err)
	}
	return c, nil
}
