package services

import (
	"context"
	"fmt"
	"time"

	"delivery-tracking-service/internal/platform/logging"
	"delivery-tracking-service/internal/ports"
)

// Packages younger than this are skipped so a create that is still between
// its two writes is not mistaken for an unlisted package.
const DefaultReconcileGrace = time.Minute

type ReconcileReport struct {
	DanglingRemoved int
	OrphansDeleted  int
	Relinked        int
}

// Reconciler repairs the driver/package references that non-transactional
// writes can leave behind:
//   - identities in a driver's list whose package no longer exists are pulled,
//   - packages whose driver no longer exists are deleted,
//   - packages missing from their existing driver's list are appended.
type Reconciler struct {
	drivers  ports.DriverRepository
	packages ports.PackageRepository
	grace    time.Duration
	now      func() time.Time
}

func NewReconciler(drivers ports.DriverRepository, packages ports.PackageRepository) *Reconciler {
	return &Reconciler{
		drivers:  drivers,
		packages: packages,
		grace:    DefaultReconcileGrace,
		now:      time.Now,
	}
}

func (r *Reconciler) Run(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	drivers, err := r.drivers.ListDrivers(ctx)
	if err != nil {
		return report, fmt.Errorf("reconcile: list drivers: %w", err)
	}
	pkgs, err := r.packages.ListPackages(ctx)
	if err != nil {
		return report, fmt.Errorf("reconcile: list packages: %w", err)
	}

	pkgExists := make(map[string]bool, len(pkgs))
	for _, p := range pkgs {
		pkgExists[p.ID] = true
	}

	listed := make(map[string]map[string]bool, len(drivers))
	for _, d := range drivers {
		set := make(map[string]bool, len(d.AssignedPackages))
		var dangling []string
		for _, pid := range d.AssignedPackages {
			set[pid] = true
			if !pkgExists[pid] {
				dangling = append(dangling, pid)
			}
		}
		listed[d.ID] = set

		if len(dangling) > 0 {
			if err := r.drivers.RemovePackages(ctx, d.ID, dangling...); err != nil {
				return report, fmt.Errorf("reconcile: driver %q: %w", d.ID, err)
			}
			report.DanglingRemoved += len(dangling)
		}
	}

	cutoff := r.now().Add(-r.grace)
	for _, p := range pkgs {
		if p.CreatedAt.After(cutoff) {
			continue
		}

		set, driverExists := listed[p.DriverID]
		switch {
		case !driverExists:
			if _, err := r.packages.DeletePackage(ctx, p.ID); err != nil {
				return report, fmt.Errorf("reconcile: delete orphan %q: %w", p.ID, err)
			}
			report.OrphansDeleted++
		case !set[p.ID]:
			if err := r.drivers.AppendPackage(ctx, p.DriverID, p.ID); err != nil {
				return report, fmt.Errorf("reconcile: relink %q: %w", p.ID, err)
			}
			report.Relinked++
		}
	}

	return report, nil
}

// RunEvery runs a pass every interval until ctx is done. Pass failures are
// logged and do not stop the loop.
func (r *Reconciler) RunEvery(ctx context.Context, interval time.Duration) error {
	log := logging.WithComponent("reconciler")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			report, err := r.Run(ctx)
			if err != nil {
				log.Error().Err(err).Msg("reconcile pass failed")
				continue
			}
			log.Info().
				Int("dangling_removed", report.DanglingRemoved).
				Int("orphans_deleted", report.OrphansDeleted).
				Int("relinked", report.Relinked).
				Msg("reconcile pass done")
		}
	}
}
