package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"delivery-tracking-service/internal/domain"

	"github.com/google/uuid"
)

type DriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver
}

func NewDriverRepository() *DriverRepository {
	return &DriverRepository{drivers: make(map[string]*domain.Driver)}
}

func (r *DriverRepository) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(*domain.Driver) bool { return true }), nil
}

func (r *DriverRepository) GetDriver(ctx context.Context, id string) (*domain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drivers[id]
	if !ok {
		return nil, fmt.Errorf("get driver %q: %w", id, domain.ErrNotFound)
	}
	return cloneDriver(d), nil
}

func (r *DriverRepository) ListDriversByDepartment(ctx context.Context, department string) ([]*domain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(d *domain.Driver) bool { return string(d.Department) == department }), nil
}

func (r *DriverRepository) CreateDriver(ctx context.Context, d *domain.Driver) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneDriver(d)
	stored.ID = uuid.NewString()
	if stored.AssignedPackages == nil {
		stored.AssignedPackages = []string{}
	}
	r.drivers[stored.ID] = stored
	return stored.ID, nil
}

func (r *DriverRepository) UpdateDriver(ctx context.Context, id string, patch domain.DriverPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drivers[id]
	if !ok {
		return fmt.Errorf("update driver %q: %w", id, domain.ErrNotFound)
	}
	if patch.LicenseCode != nil {
		d.LicenseCode = *patch.LicenseCode
	}
	if patch.Department != nil {
		d.Department = domain.Department(*patch.Department)
	}
	return nil
}

func (r *DriverRepository) DeleteDriver(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.drivers[id]; !ok {
		return 0, fmt.Errorf("delete driver %q: %w", id, domain.ErrNotFound)
	}
	delete(r.drivers, id)
	return 1, nil
}

func (r *DriverRepository) AppendPackage(ctx context.Context, driverID, packageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drivers[driverID]
	if !ok {
		return fmt.Errorf("append package to driver %q: %w", driverID, domain.ErrNotFound)
	}
	d.AssignedPackages = append(d.AssignedPackages, packageID)
	return nil
}

func (r *DriverRepository) RemovePackages(ctx context.Context, driverID string, packageIDs ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drivers[driverID]
	if !ok {
		return fmt.Errorf("remove packages from driver %q: %w", driverID, domain.ErrNotFound)
	}
	d.AssignedPackages = slices.DeleteFunc(d.AssignedPackages, func(id string) bool {
		return slices.Contains(packageIDs, id)
	})
	return nil
}

func (r *DriverRepository) CountDrivers(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.drivers)), nil
}

// collect returns copies of matching drivers ordered by creation time.
// Callers hold the read lock.
func (r *DriverRepository) collect(match func(*domain.Driver) bool) []*domain.Driver {
	out := make([]*domain.Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		if match(d) {
			out = append(out, cloneDriver(d))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func cloneDriver(d *domain.Driver) *domain.Driver {
	c := *d
	c.AssignedPackages = slices.Clone(d.AssignedPackages)
	return &c
}
