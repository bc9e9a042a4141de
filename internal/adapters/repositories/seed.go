package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"delivery-tracking-service/internal/domain"
)

type PackageSeed struct {
	Title       string  `json:"title"`
	WeightKg    float64 `json:"weightKg"`
	Destination string  `json:"destination"`
	Description string  `json:"description"`
	IsAllocated bool    `json:"isAllocated"`
}

type DriverSeed struct {
	Name        string        `json:"name"`
	Department  string        `json:"department"`
	LicenseCode string        `json:"licenseCode"`
	IsActive    bool          `json:"isActive"`
	Packages    []PackageSeed `json:"packages"`
}

// ReadSeedFile loads drivers and their packages from a JSON file. Entries are
// trimmed and checked for required fields; full validation happens when the
// seed is applied through the services.
func ReadSeedFile(jsonPath string) ([]DriverSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var data []DriverSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed: parse json: %w", err)
	}

	rows := make([]DriverSeed, 0, len(data))
	for i, item := range data {
		item.Name = strings.TrimSpace(item.Name)
		item.Department = strings.TrimSpace(item.Department)
		item.LicenseCode = strings.TrimSpace(item.LicenseCode)
		if item.Name == "" || item.Department == "" || item.LicenseCode == "" {
			return nil, fmt.Errorf("seed: driver at index %d: name, department and licenseCode are required: %w", i+1, domain.ErrValidation)
		}

		for j := range item.Packages {
			p := &item.Packages[j]
			p.Title = strings.TrimSpace(p.Title)
			p.Destination = strings.TrimSpace(p.Destination)
			if p.Title == "" || p.Destination == "" {
				return nil, fmt.Errorf("seed: package %d of driver %d: title and destination are required: %w", j+1, i+1, domain.ErrValidation)
			}
		}
		rows = append(rows, item)
	}

	return rows, nil
}
