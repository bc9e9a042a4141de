package services

import (
	"context"
	"regexp"
	"testing"

	"delivery-tracking-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var driverCodePattern = regexp.MustCompile(`^D\d{2}-34-[A-Z]{3}$`)

func TestDriverCreateThenGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.createDriver(t)
	assert.NotEmpty(t, d.ID)
	assert.Regexp(t, driverCodePattern, d.DriverCode)

	got, err := f.driverS.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sam", got.Name)
	assert.Equal(t, domain.DepartmentFood, got.Department)
	assert.Empty(t, got.AssignedPackages)
	assert.Empty(t, got.Packages)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestDriverCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validDriver()
	in.LicenseCode = "AB12"
	_, err := f.driverS.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = validDriver()
	in.Department = "Toys"
	_, err = f.driverS.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Zero(t, f.stats(t).CreateCount)
}

func TestDriverGetMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.driverS.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, f.stats(t).ReadCount)
}

func TestDriverListResolvesPackagesInOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.createDriver(t)
	p1 := f.createPackage(t, d.ID)
	p2 := f.createPackage(t, d.ID)
	other := f.createDriver(t)

	all, err := f.driverS.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	var got *domain.ResolvedDriver
	for _, rd := range all {
		if rd.ID == d.ID {
			got = rd
		}
	}
	require.NotNil(t, got)
	require.Len(t, got.Packages, 2)
	assert.Equal(t, p1.ID, got.Packages[0].ID)
	assert.Equal(t, p2.ID, got.Packages[1].ID)

	for _, rd := range all {
		if rd.ID == other.ID {
			assert.Empty(t, rd.Packages)
		}
	}
}

func TestDriverListSkipsDanglingReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.createDriver(t)
	require.NoError(t, f.drivers.AppendPackage(ctx, d.ID, "gone"))

	got, err := f.driverS.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"gone"}, got.AssignedPackages)
	assert.Empty(t, got.Packages)
}

func TestDriverListByDepartment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createDriver(t)
	in := validDriver()
	in.Department = "Furniture"
	_, err := f.driverS.Create(ctx, in)
	require.NoError(t, err)

	food, err := f.driverS.ListByDepartment(ctx, "Food")
	require.NoError(t, err)
	assert.Len(t, food, 1)

	none, err := f.driverS.ListByDepartment(ctx, "Toys")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestDriverUpdateChangesOnlyPatchedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.createDriver(t)
	require.NoError(t, f.driverS.Update(ctx, d.ID, domain.DriverPatch{LicenseCode: strPtr("ZZZZZ")}))

	got, err := f.driverS.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "ZZZZZ", got.LicenseCode)
	assert.Equal(t, d.Name, got.Name)
	assert.Equal(t, d.Department, got.Department)
	assert.Equal(t, d.DriverCode, got.DriverCode)
	assert.EqualValues(t, 1, f.stats(t).UpdateCount)
}

func TestDriverUpdateErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.createDriver(t)

	err := f.driverS.Update(ctx, d.ID, domain.DriverPatch{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = f.driverS.Update(ctx, d.ID, domain.DriverPatch{Department: strPtr("Toys")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = f.driverS.Update(ctx, "missing", domain.DriverPatch{LicenseCode: strPtr("ZZZZZ")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Zero(t, f.stats(t).UpdateCount)
}

func TestDriverDeleteCascadesPackages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.createDriver(t)
	var pkgIDs []string
	for i := 0; i < 3; i++ {
		pkgIDs = append(pkgIDs, f.createPackage(t, d.ID).ID)
	}
	keep := f.createDriver(t)
	kept := f.createPackage(t, keep.ID)

	n, err := f.driverS.Delete(ctx, d.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = f.driverS.GetByID(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	for _, id := range pkgIDs {
		_, err := f.packageS.GetByID(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}

	_, err = f.packageS.GetByID(ctx, kept.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, f.stats(t).DeleteCount)
}

func TestDriverDeleteWithoutPackages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.createDriver(t)
	other := f.createDriver(t)
	f.createPackage(t, other.ID)

	n, err := f.driverS.Delete(ctx, d.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	count, err := CountRecords(ctx, f.drivers, f.packages)
	require.NoError(t, err)
	assert.Equal(t, RecordCounts{Drivers: 1, Packages: 1}, count)
}

func TestDriverDeleteMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.createDriver(t)
	_, err := f.driverS.Delete(ctx, d.ID)
	require.NoError(t, err)

	_, err = f.driverS.Delete(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualValues(t, 1, f.stats(t).DeleteCount)
}

func TestDriverDeletePartialFailureSurfaces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.createDriver(t)
	p := f.createPackage(t, d.ID)

	drivers := &failingDrivers{DriverRepository: f.drivers, deleteErr: errStore}
	svc := NewDriverService(drivers, f.packages, f.counters)

	_, err := svc.Delete(ctx, d.ID)
	assert.ErrorIs(t, err, errStore)

	_, err = f.packageS.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, f.stats(t).DeleteCount)
}
