package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/logging"
	"delivery-tracking-service/internal/ports"
)

type PackageService struct {
	packages ports.PackageRepository
	drivers  ports.DriverRepository
	counters *CounterService
	now      func() time.Time
}

func NewPackageService(
	packages ports.PackageRepository,
	drivers ports.DriverRepository,
	counters *CounterService,
) *PackageService {
	return &PackageService{
		packages: packages,
		drivers:  drivers,
		counters: counters,
		now:      time.Now,
	}
}

func (s *PackageService) ListAll(ctx context.Context) ([]*domain.Package, error) {
	pkgs, err := s.packages.ListPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	s.counters.Record(ctx, domain.OpRead)
	return pkgs, nil
}

func (s *PackageService) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	p, err := s.packages.GetPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	s.counters.Record(ctx, domain.OpRead)
	return p, nil
}

// Create persists the package and then appends it to its driver's list. If
// the append fails the package is deleted again so it never exists unlisted.
func (s *PackageService) Create(ctx context.Context, in domain.PackageInput) (*domain.Package, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	if _, err := s.drivers.GetDriver(ctx, in.DriverID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: driverId %q does not reference an existing driver", domain.ErrValidation, in.DriverID)
		}
		return nil, fmt.Errorf("create package: lookup driver: %w", err)
	}

	p := &domain.Package{
		PackageCode: domain.NewPackageCode(),
		Title:       in.Title,
		WeightKg:    in.WeightKg,
		Destination: in.Destination,
		Description: in.Description,
		IsAllocated: in.IsAllocated != nil && *in.IsAllocated,
		DriverID:    in.DriverID,
		CreatedAt:   s.now().UTC(),
	}

	id, err := s.packages.CreatePackage(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}
	p.ID = id

	if err := s.drivers.AppendPackage(ctx, p.DriverID, id); err != nil {
		if _, derr := s.packages.DeletePackage(ctx, id); derr != nil {
			log := logging.WithComponent("packages")
			log.Error().
				Err(derr).
				Str("package_id", id).
				Str("driver_id", p.DriverID).
				Msg("compensating delete failed; package left unlisted")
		}
		return nil, fmt.Errorf("create package: link to driver %q: %w", p.DriverID, err)
	}

	s.counters.Record(ctx, domain.OpCreate)
	return p, nil
}

// Update changes only the destination.
func (s *PackageService) Update(ctx context.Context, id string, patch domain.PackagePatch) error {
	if err := domain.Validate(patch); err != nil {
		return err
	}
	if err := s.packages.UpdatePackageDestination(ctx, id, patch.Destination); err != nil {
		return err
	}
	s.counters.Record(ctx, domain.OpUpdate)
	return nil
}

// Delete removes the package and pulls its identity from the owning driver's
// list. A failed pull is logged; the reconciler removes the dangling reference.
func (s *PackageService) Delete(ctx context.Context, id string) (int64, error) {
	p, err := s.packages.GetPackage(ctx, id)
	if err != nil {
		return 0, err
	}

	deleted, err := s.packages.DeletePackage(ctx, id)
	if err != nil {
		return 0, err
	}

	if err := s.drivers.RemovePackages(ctx, p.DriverID, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		log := logging.WithComponent("packages")
		log.Warn().
			Err(err).
			Str("package_id", id).
			Str("driver_id", p.DriverID).
			Msg("could not remove package from driver list")
	}

	s.counters.Record(ctx, domain.OpDelete)
	return deleted, nil
}

type RecordCounts struct {
	Drivers  int64
	Packages int64
}

// CountRecords reports how many drivers and packages are stored.
func CountRecords(
	ctx context.Context,
	drivers ports.DriverRepository,
	packages ports.PackageRepository,
) (RecordCounts, error) {
	d, err := drivers.CountDrivers(ctx)
	if err != nil {
		return RecordCounts{}, fmt.Errorf("count records: %w", err)
	}
	p, err := packages.CountPackages(ctx)
	if err != nil {
		return RecordCounts{}, fmt.Errorf("count records: %w", err)
	}
	return RecordCounts{Drivers: d, Packages: p}, nil
}
