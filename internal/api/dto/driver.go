package dto

import (
	"time"

	"delivery-tracking-service/internal/domain"
)

type CreateDriverRequest struct {
	Name        string `json:"name"`
	Department  string `json:"department"`
	LicenseCode string `json:"licenseCode"`
	IsActive    *bool  `json:"isActive"`
}

func (r CreateDriverRequest) Input() domain.DriverInput {
	return domain.DriverInput{
		Name:        r.Name,
		Department:  r.Department,
		LicenseCode: r.LicenseCode,
		IsActive:    r.IsActive,
	}
}

type UpdateDriverRequest struct {
	LicenseCode *string `json:"licenseCode"`
	Department  *string `json:"department"`
}

func (r UpdateDriverRequest) Patch() domain.DriverPatch {
	return domain.DriverPatch{LicenseCode: r.LicenseCode, Department: r.Department}
}

type CreateDriverResponse struct {
	ID         string `json:"id"`
	DriverCode string `json:"driverCode"`
}

type DriverResponse struct {
	ID               string            `json:"id"`
	DriverCode       string            `json:"driverCode"`
	Name             string            `json:"name"`
	Department       string            `json:"department"`
	LicenseCode      string            `json:"licenseCode"`
	IsActive         bool              `json:"isActive"`
	AssignedPackages []PackageResponse `json:"assignedPackages"`
	CreatedAt        time.Time         `json:"createdAt"`
}

func NewDriverResponse(d *domain.ResolvedDriver) DriverResponse {
	pkgs := make([]PackageResponse, 0, len(d.Packages))
	for _, p := range d.Packages {
		pkgs = append(pkgs, NewPackageResponse(p))
	}
	return DriverResponse{
		ID:               d.ID,
		DriverCode:       d.DriverCode,
		Name:             d.Name,
		Department:       string(d.Department),
		LicenseCode:      d.LicenseCode,
		IsActive:         d.IsActive,
		AssignedPackages: pkgs,
		CreatedAt:        d.CreatedAt,
	}
}

func NewDriverListResponse(drivers []*domain.ResolvedDriver) []DriverResponse {
	out := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, NewDriverResponse(d))
	}
	return out
}
