package domain

import "time"

// Represents a single deliverable item.
// Every Package belongs to exactly one Driver through DriverID; the driver lists
// the package identity in its AssignedPackages.
type Package struct {
	ID          string
	PackageCode string
	Title       string
	WeightKg    float64
	Destination string
	Description string
	IsAllocated bool
	DriverID    string
	CreatedAt   time.Time
}

// Fields accepted when creating a package.
type PackageInput struct {
	Title       string  `validate:"required,min=3,max=15,alphanum"`
	WeightKg    float64 `validate:"gt=0"`
	Destination string  `validate:"required,min=5,max=15,alphanum"`
	Description string  `validate:"max=30"`
	// Nil means not allocated.
	IsAllocated *bool
	DriverID    string `validate:"required"`
}

// The only package field that may change after creation.
type PackagePatch struct {
	Destination string `validate:"required,min=5,max=15,alphanum"`
}
