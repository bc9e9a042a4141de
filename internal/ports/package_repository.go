package ports

import (
	"context"
	"delivery-tracking-service/internal/domain"
)

// Port: persistence boundary for Package records.
type PackageRepository interface {
	ListPackages(ctx context.Context) ([]*domain.Package, error)
	GetPackage(ctx context.Context, id string) (*domain.Package, error)
	// Return the packages among ids that exist, in no particular order.
	GetPackagesByIDs(ctx context.Context, ids []string) ([]*domain.Package, error)
	CreatePackage(ctx context.Context, p *domain.Package) (string, error)
	UpdatePackageDestination(ctx context.Context, id string, destination string) error
	DeletePackage(ctx context.Context, id string) (int64, error)
	DeletePackagesByIDs(ctx context.Context, ids []string) (int64, error)
	CountPackages(ctx context.Context) (int64, error)
}
