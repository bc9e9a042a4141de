package ports

import (
	"context"
	"delivery-tracking-service/internal/domain"
)

// Port: the single persisted operation-counters record.
type CounterStore interface {
	// Create the record with all counts at zero if it does not exist yet.
	InitCounters(ctx context.Context) error
	// Add one to the count for kind. Must be an atomic store-side add.
	Increment(ctx context.Context, kind domain.OperationKind) error
	// Fails with domain.ErrNotFound when the record was never initialized.
	ReadCounters(ctx context.Context) (domain.OperationCounters, error)
}
