package repositories

import (
	"os"
	"path/filepath"
	"testing"

	"delivery-tracking-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadSeedFile(t *testing.T) {
	path := writeSeed(t, `[
		{"name": " Alice ", "department": "Food", "licenseCode": "AB123", "isActive": true,
		 "packages": [{"title": "Box1", "weightKg": 2.5, "destination": " Sydney ", "isAllocated": true}]},
		{"name": "Bob", "department": "Furniture", "licenseCode": "CD456", "isActive": false}
	]`)

	got, err := ReadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Alice", got[0].Name)
	require.Len(t, got[0].Packages, 1)
	assert.Equal(t, "Sydney", got[0].Packages[0].Destination)
	assert.Equal(t, 2.5, got[0].Packages[0].WeightKg)
	assert.Empty(t, got[1].Packages)
}

func TestReadSeedFileRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"driver without name", `[{"department": "Food", "licenseCode": "AB123"}]`},
		{"package without destination", `[{"name": "Alice", "department": "Food", "licenseCode": "AB123", "packages": [{"title": "Box1"}]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSeedFile(writeSeed(t, tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestReadSeedFileErrors(t *testing.T) {
	_, err := ReadSeedFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = ReadSeedFile(writeSeed(t, `{not json`))
	require.Error(t, err)
}
