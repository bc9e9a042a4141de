package services

import (
	"context"
	"fmt"
	"time"

	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/logging"
	"delivery-tracking-service/internal/ports"
)

type DriverService struct {
	drivers  ports.DriverRepository
	packages ports.PackageRepository
	counters *CounterService
	now      func() time.Time
}

func NewDriverService(
	drivers ports.DriverRepository,
	packages ports.PackageRepository,
	counters *CounterService,
) *DriverService {
	return &DriverService{
		drivers:  drivers,
		packages: packages,
		counters: counters,
		now:      time.Now,
	}
}

func (s *DriverService) ListAll(ctx context.Context) ([]*domain.ResolvedDriver, error) {
	drivers, err := s.drivers.ListDrivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}

	resolved, err := s.resolve(ctx, drivers)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	s.counters.Record(ctx, domain.OpRead)
	return resolved, nil
}

func (s *DriverService) GetByID(ctx context.Context, id string) (*domain.ResolvedDriver, error) {
	d, err := s.drivers.GetDriver(ctx, id)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolve(ctx, []*domain.Driver{d})
	if err != nil {
		return nil, fmt.Errorf("get driver %q: %w", id, err)
	}
	s.counters.Record(ctx, domain.OpRead)
	return resolved[0], nil
}

// ListByDepartment is a pass-through filter: an unknown department yields an
// empty list rather than an error.
func (s *DriverService) ListByDepartment(ctx context.Context, department string) ([]*domain.ResolvedDriver, error) {
	drivers, err := s.drivers.ListDriversByDepartment(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("list drivers by department %q: %w", department, err)
	}

	resolved, err := s.resolve(ctx, drivers)
	if err != nil {
		return nil, fmt.Errorf("list drivers by department %q: %w", department, err)
	}
	s.counters.Record(ctx, domain.OpRead)
	return resolved, nil
}

func (s *DriverService) Create(ctx context.Context, in domain.DriverInput) (*domain.Driver, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	d := &domain.Driver{
		DriverCode:       domain.NewDriverCode(),
		Name:             in.Name,
		Department:       domain.Department(in.Department),
		LicenseCode:      in.LicenseCode,
		IsActive:         *in.IsActive,
		AssignedPackages: []string{},
		CreatedAt:        s.now().UTC(),
	}

	id, err := s.drivers.CreateDriver(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("create driver: %w", err)
	}
	d.ID = id

	s.counters.Record(ctx, domain.OpCreate)
	return d, nil
}

// Update changes only the license code and department.
func (s *DriverService) Update(ctx context.Context, id string, patch domain.DriverPatch) error {
	if patch.Empty() {
		return fmt.Errorf("%w: licenseCode or department is required", domain.ErrValidation)
	}
	if err := domain.Validate(patch); err != nil {
		return err
	}

	if err := s.drivers.UpdateDriver(ctx, id, patch); err != nil {
		return err
	}
	s.counters.Record(ctx, domain.OpUpdate)
	return nil
}

// Delete removes the driver and every package it lists. The two deletes are
// not atomic; a driver that survives a failed second step is left for the
// reconciler, whose orphan sweep also covers packages that outlive it.
func (s *DriverService) Delete(ctx context.Context, id string) (int64, error) {
	d, err := s.drivers.GetDriver(ctx, id)
	if err != nil {
		return 0, err
	}

	if len(d.AssignedPackages) > 0 {
		n, err := s.packages.DeletePackagesByIDs(ctx, d.AssignedPackages)
		if err != nil {
			return 0, fmt.Errorf("delete driver %q: cascade packages: %w", id, err)
		}
		log := logging.WithComponent("drivers")
		log.Debug().
			Str("driver_id", id).
			Int64("packages_deleted", n).
			Msg("cascaded package delete")
	}

	deleted, err := s.drivers.DeleteDriver(ctx, id)
	if err != nil {
		log := logging.WithComponent("drivers")
		log.Error().
			Err(err).
			Str("driver_id", id).
			Msg("driver delete failed after its packages were removed")
		return 0, err
	}

	s.counters.Record(ctx, domain.OpDelete)
	return deleted, nil
}

// resolve joins each driver's assigned identities to package records in
// assignment order, skipping identities that no longer resolve.
func (s *DriverService) resolve(ctx context.Context, drivers []*domain.Driver) ([]*domain.ResolvedDriver, error) {
	var ids []string
	for _, d := range drivers {
		ids = append(ids, d.AssignedPackages...)
	}

	byID := make(map[string]*domain.Package, len(ids))
	if len(ids) > 0 {
		pkgs, err := s.packages.GetPackagesByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("resolve packages: %w", err)
		}
		for _, p := range pkgs {
			byID[p.ID] = p
		}
	}

	out := make([]*domain.ResolvedDriver, 0, len(drivers))
	for _, d := range drivers {
		rd := &domain.ResolvedDriver{Driver: d, Packages: make([]*domain.Package, 0, len(d.AssignedPackages))}
		for _, pid := range d.AssignedPackages {
			if p, ok := byID[pid]; ok {
				rd.Packages = append(rd.Packages, p)
			}
		}
		out = append(out, rd)
	}
	return out, nil
}
