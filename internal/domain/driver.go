package domain

import "time"

// Department a driver delivers for.
type Department string

const (
	DepartmentFood       Department = "Food"
	DepartmentFurniture  Department = "Furniture"
	DepartmentElectronic Department = "Electronic"
)

// Represents a delivery person.
// AssignedPackages holds identities of Packages whose DriverID is this driver's ID;
// the list is a shared reference, the packages are separate records.
type Driver struct {
	ID               string
	DriverCode       string
	Name             string
	Department       Department
	LicenseCode      string
	IsActive         bool
	AssignedPackages []string
	CreatedAt        time.Time
}

// A Driver with its assigned package identities resolved to full records,
// in assignment order. Identities that no longer resolve are skipped.
type ResolvedDriver struct {
	*Driver
	Packages []*Package
}

// Fields accepted when creating a driver.
type DriverInput struct {
	Name        string `validate:"required,min=3,max=20,alpha"`
	Department  string `validate:"required,oneof=Food Furniture Electronic"`
	LicenseCode string `validate:"required,len=5,alphanum"`
	IsActive    *bool  `validate:"required"`
}

// The only driver fields that may change after creation.
type DriverPatch struct {
	LicenseCode *string `validate:"omitempty,len=5,alphanum"`
	Department  *string `validate:"omitempty,oneof=Food Furniture Electronic"`
}

// Empty reports whether the patch changes nothing.
func (p DriverPatch) Empty() bool {
	return p.LicenseCode == nil && p.Department == nil
}
