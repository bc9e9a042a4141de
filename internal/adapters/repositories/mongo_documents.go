package repositories

import (
	"fmt"
	"time"

	"delivery-tracking-service/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	driversCollection  = "drivers"
	packagesCollection = "packages"
)

type driverDocument struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty"`
	DriverCode       string               `bson:"driver_code"`
	Name             string               `bson:"name"`
	Department       string               `bson:"department"`
	LicenseCode      string               `bson:"license_code"`
	IsActive         bool                 `bson:"is_active"`
	AssignedPackages []primitive.ObjectID `bson:"assigned_packages"`
	CreatedAt        time.Time            `bson:"created_at"`
}

type packageDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	PackageCode string             `bson:"package_code"`
	Title       string             `bson:"title"`
	WeightKg    float64            `bson:"weight_kg"`
	Destination string             `bson:"destination"`
	Description string             `bson:"description"`
	IsAllocated bool               `bson:"is_allocated"`
	DriverID    primitive.ObjectID `bson:"driver_id"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d driverDocument) toDomain() *domain.Driver {
	assigned := make([]string, 0, len(d.AssignedPackages))
	for _, id := range d.AssignedPackages {
		assigned = append(assigned, id.Hex())
	}
	return &domain.Driver{
		ID:               d.ID.Hex(),
		DriverCode:       d.DriverCode,
		Name:             d.Name,
		Department:       domain.Department(d.Department),
		LicenseCode:      d.LicenseCode,
		IsActive:         d.IsActive,
		AssignedPackages: assigned,
		CreatedAt:        d.CreatedAt,
	}
}

func (p packageDocument) toDomain() *domain.Package {
	return &domain.Package{
		ID:          p.ID.Hex(),
		PackageCode: p.PackageCode,
		Title:       p.Title,
		WeightKg:    p.WeightKg,
		Destination: p.Destination,
		Description: p.Description,
		IsAllocated: p.IsAllocated,
		DriverID:    p.DriverID.Hex(),
		CreatedAt:   p.CreatedAt,
	}
}

// objectID parses a hex identity. Malformed ids cannot name a stored record,
// so they are reported as ErrNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("identity %q: %w", id, domain.ErrNotFound)
	}
	return oid, nil
}

// objectIDs parses every well-formed id and drops the rest.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}
