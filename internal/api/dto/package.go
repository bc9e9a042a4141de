package dto

import (
	"time"

	"delivery-tracking-service/internal/domain"
)

type CreatePackageRequest struct {
	Title       string  `json:"title"`
	WeightKg    float64 `json:"weightKg"`
	Destination string  `json:"destination"`
	Description string  `json:"description"`
	IsAllocated *bool   `json:"isAllocated"`
	DriverID    string  `json:"driverId"`
}

func (r CreatePackageRequest) Input() domain.PackageInput {
	return domain.PackageInput{
		Title:       r.Title,
		WeightKg:    r.WeightKg,
		Destination: r.Destination,
		Description: r.Description,
		IsAllocated: r.IsAllocated,
		DriverID:    r.DriverID,
	}
}

type UpdatePackageRequest struct {
	Destination string `json:"destination"`
}

type CreatePackageResponse struct {
	ID          string `json:"id"`
	PackageCode string `json:"packageCode"`
}

type PackageResponse struct {
	ID          string    `json:"id"`
	PackageCode string    `json:"packageCode"`
	Title       string    `json:"title"`
	WeightKg    float64   `json:"weightKg"`
	Destination string    `json:"destination"`
	Description string    `json:"description"`
	IsAllocated bool      `json:"isAllocated"`
	DriverID    string    `json:"driverId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewPackageResponse(p *domain.Package) PackageResponse {
	return PackageResponse{
		ID:          p.ID,
		PackageCode: p.PackageCode,
		Title:       p.Title,
		WeightKg:    p.WeightKg,
		Destination: p.Destination,
		Description: p.Description,
		IsAllocated: p.IsAllocated,
		DriverID:    p.DriverID,
		CreatedAt:   p.CreatedAt,
	}
}

func NewPackageListResponse(pkgs []*domain.Package) []PackageResponse {
	out := make([]PackageResponse, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, NewPackageResponse(p))
	}
	return out
}
