package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"delivery-tracking-service/internal/domain"

	"github.com/google/uuid"
)

type PackageRepository struct {
	mu       sync.RWMutex
	packages map[string]*domain.Package
}

func NewPackageRepository() *PackageRepository {
	return &PackageRepository{packages: make(map[string]*domain.Package)}
}

func (r *PackageRepository) ListPackages(ctx context.Context) ([]*domain.Package, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Package, 0, len(r.packages))
	for _, p := range r.packages {
		c := *p
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PackageRepository) GetPackage(ctx context.Context, id string) (*domain.Package, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.packages[id]
	if !ok {
		return nil, fmt.Errorf("get package %q: %w", id, domain.ErrNotFound)
	}
	c := *p
	return &c, nil
}

func (r *PackageRepository) GetPackagesByIDs(ctx context.Context, ids []string) ([]*domain.Package, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Package, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := r.packages[id]; ok {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *PackageRepository) CreatePackage(ctx context.Context, p *domain.Package) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *p
	stored.ID = uuid.NewString()
	r.packages[stored.ID] = &stored
	return stored.ID, nil
}

func (r *PackageRepository) UpdatePackageDestination(ctx context.Context, id string, destination string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.packages[id]
	if !ok {
		return fmt.Errorf("update package %q: %w", id, domain.ErrNotFound)
	}
	p.Destination = destination
	return nil
}

func (r *PackageRepository) DeletePackage(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.packages[id]; !ok {
		return 0, fmt.Errorf("delete package %q: %w", id, domain.ErrNotFound)
	}
	delete(r.packages, id)
	return 1, nil
}

func (r *PackageRepository) DeletePackagesByIDs(ctx context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, id := range ids {
		if _, ok := r.packages[id]; ok {
			delete(r.packages, id)
			n++
		}
	}
	return n, nil
}

func (r *PackageRepository) CountPackages(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.packages)), nil
}
