package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/obs"
)

const countersRowID = "operationCount"

// SQLCounterStore keeps the operation counters in a single Postgres row.
type SQLCounterStore struct {
	db *sql.DB
}

func NewSQLCounterStore(db *sql.DB) *SQLCounterStore {
	return &SQLCounterStore{db: db}
}

func (s *SQLCounterStore) InitCounters(ctx context.Context) (err error) {
	defer obs.Time(ctx, "sql.counters.Init")(&err)

	query := `
	INSERT INTO operation_counts (id) VALUES ($1)
	ON CONFLICT (id) DO NOTHING;
	`
	if _, err := s.db.ExecContext(ctx, query, countersRowID); err != nil {
		return fmt.Errorf("init counters: %w", err)
	}
	return nil
}

// Increment adds one to the column for kind in a single UPDATE, so concurrent
// increments never lose an update.
func (s *SQLCounterStore) Increment(ctx context.Context, kind domain.OperationKind) (err error) {
	defer obs.Time(ctx, "sql.counters.Increment")(&err)

	column, err := counterColumn(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE operation_counts SET %[1]s = %[1]s + 1 WHERE id = $1;`, column)
	res, err := s.db.ExecContext(ctx, query, countersRowID)
	if err != nil {
		return fmt.Errorf("increment %s count: %w", kind, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment %s count: rows affected: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("increment %s count: counters record: %w", kind, domain.ErrNotFound)
	}
	return nil
}

func (s *SQLCounterStore) ReadCounters(ctx context.Context) (_ domain.OperationCounters, err error) {
	defer obs.Time(ctx, "sql.counters.Read")(&err)

	query := `
	SELECT create_count, read_count, update_count, delete_count
	FROM operation_counts
	WHERE id = $1;
	`

	var c domain.OperationCounters
	err = s.db.QueryRowContext(ctx, query, countersRowID).
		Scan(&c.CreateCount, &c.ReadCount, &c.UpdateCount, &c.DeleteCount)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.OperationCounters{}, fmt.Errorf("read counters: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.OperationCounters{}, fmt.Errorf("read counters: %w", err)
	}
	return c, nil
}

func counterColumn(kind domain.OperationKind) (string, error) {
	switch kind {
	case domain.OpCreate:
		return "create_count", nil
	case domain.OpRead:
		return "read_count", nil
	case domain.OpUpdate:
		return "update_count", nil
	case domain.OpDelete:
		return "delete_count", nil
	default:
		return "", fmt.Errorf("counter kind %q: %w", kind, domain.ErrValidation)
	}
}
