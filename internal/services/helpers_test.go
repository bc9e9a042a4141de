package services

import (
	"context"
	"errors"
	"testing"

	"delivery-tracking-service/internal/adapters/memory"
	"delivery-tracking-service/internal/domain"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	drivers  *memory.DriverRepository
	packages *memory.PackageRepository
	store    *memory.CounterStore
	counters *CounterService
	driverS  *DriverService
	packageS *PackageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		drivers:  memory.NewDriverRepository(),
		packages: memory.NewPackageRepository(),
		store:    memory.NewCounterStore(),
	}
	f.counters = NewCounterService(f.store)
	require.NoError(t, f.counters.Init(context.Background()))
	f.driverS = NewDriverService(f.drivers, f.packages, f.counters)
	f.packageS = NewPackageService(f.packages, f.drivers, f.counters)
	return f
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func validDriver() domain.DriverInput {
	return domain.DriverInput{Name: "Sam", Department: "Food", LicenseCode: "AB123", IsActive: boolPtr(true)}
}

func validPackage(driverID string) domain.PackageInput {
	return domain.PackageInput{
		Title:       "Box1",
		WeightKg:    2,
		Destination: "Sydney",
		IsAllocated: boolPtr(false),
		DriverID:    driverID,
	}
}

func (f *fixture) createDriver(t *testing.T) *domain.Driver {
	t.Helper()
	d, err := f.driverS.Create(context.Background(), validDriver())
	require.NoError(t, err)
	return d
}

func (f *fixture) createPackage(t *testing.T, driverID string) *domain.Package {
	t.Helper()
	p, err := f.packageS.Create(context.Background(), validPackage(driverID))
	require.NoError(t, err)
	return p
}

func (f *fixture) stats(t *testing.T) domain.OperationCounters {
	t.Helper()
	c, err := f.counters.Statistics(context.Background())
	require.NoError(t, err)
	return c
}

// failingDrivers wraps a driver repository and fails selected list operations.
type failingDrivers struct {
	*memory.DriverRepository
	appendErr error
	removeErr error
	deleteErr error
}

func (f *failingDrivers) AppendPackage(ctx context.Context, driverID, packageID string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	return f.DriverRepository.AppendPackage(ctx, driverID, packageID)
}

func (f *failingDrivers) RemovePackages(ctx context.Context, driverID string, packageIDs ...string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.DriverRepository.RemovePackages(ctx, driverID, packageIDs...)
}

func (f *failingDrivers) DeleteDriver(ctx context.Context, id string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	return f.DriverRepository.DeleteDriver(ctx, id)
}

var errStore = errors.New("store unavailable")
