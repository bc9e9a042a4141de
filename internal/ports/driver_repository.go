package ports

import (
	"context"
	"delivery-tracking-service/internal/domain"
)

// Port: persistence boundary for Driver records.
// Lookups of an unknown identity fail with domain.ErrNotFound.
type DriverRepository interface {
	ListDrivers(ctx context.Context) ([]*domain.Driver, error)
	GetDriver(ctx context.Context, id string) (*domain.Driver, error)
	// Exact match on department; unknown departments yield an empty list.
	ListDriversByDepartment(ctx context.Context, department string) ([]*domain.Driver, error)
	// Persist a new driver and return its store-assigned identity.
	CreateDriver(ctx context.Context, d *domain.Driver) (string, error)
	UpdateDriver(ctx context.Context, id string, patch domain.DriverPatch) error
	DeleteDriver(ctx context.Context, id string) (int64, error)
	// Atomically append a package identity to the driver's assigned list.
	AppendPackage(ctx context.Context, driverID, packageID string) error
	// Atomically remove package identities from the driver's assigned list.
	RemovePackages(ctx context.Context, driverID string, packageIDs ...string) error
	CountDrivers(ctx context.Context) (int64, error)
}
