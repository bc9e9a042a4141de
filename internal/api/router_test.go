package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"delivery-tracking-service/internal/adapters/memory"
	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/auth"
	"delivery-tracking-service/internal/ports"
	"delivery-tracking-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newTestAPI(t *testing.T, opts Options) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	drivers := memory.NewDriverRepository()
	packages := memory.NewPackageRepository()
	counters := services.NewCounterService(memory.NewCounterStore())
	require.NoError(t, counters.Init(context.Background()))

	var authenticator ports.Authenticator
	if opts.SessionAuth {
		authenticator = auth.NewSessionAuthenticator(memory.NewSessionStore(), time.Hour)
	} else {
		tm, err := auth.NewTokenManager("test-secret", time.Hour)
		require.NoError(t, err)
		authenticator = tm
	}

	router := NewRouter(Deps{
		Drivers:     services.NewDriverService(drivers, packages, counters),
		Packages:    services.NewPackageService(packages, drivers, counters),
		Auth:        services.NewAuthService(memory.NewCredentialStore(), authenticator),
		Counters:    counters,
		DriverRepo:  drivers,
		PackageRepo: packages,
	}, opts)

	return &testAPI{t: t, router: router}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login() {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/auth/signup", dto.SignupRequest{
		Username: "staff", Password: "pa55word", ConfirmPassword: "pa55word",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "staff", Password: "pa55word"})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	a.token = decodeBody[dto.LoginResponse](a.t, rec).Token
	require.NotEmpty(a.t, a.token)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func boolPtr(b bool) *bool { return &b }

func TestHealth(t *testing.T) {
	a := newTestAPI(t, Options{})
	rec := a.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestProtectedRoutesRequireCredential(t *testing.T) {
	a := newTestAPI(t, Options{})

	rec := a.do(http.MethodGet, "/api/v1/drivers", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotEmpty(t, decodeBody[dto.ErrorResponse](t, rec).Error)

	a.token = "not-a-valid-token"
	rec = a.do(http.MethodGet, "/api/v1/statistics", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthFlowErrors(t *testing.T) {
	a := newTestAPI(t, Options{})
	a.login()

	rec := a.do(http.MethodPost, "/api/v1/auth/signup", dto.SignupRequest{
		Username: "staff", Password: "x", ConfirmPassword: "x",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodPost, "/api/v1/auth/signup", dto.SignupRequest{
		Username: "other", Password: "one", ConfirmPassword: "two",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "staff", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "nobody", Password: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodGet, "/api/v1/auth/logout", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDriverPackageScenario(t *testing.T) {
	a := newTestAPI(t, Options{})
	a.login()

	rec := a.do(http.MethodPost, "/api/v1/drivers", dto.CreateDriverRequest{
		Name: "Sam", Department: "Food", LicenseCode: "AB123", IsActive: boolPtr(true),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	driver := decodeBody[dto.CreateDriverResponse](t, rec)
	assert.Regexp(t, `^D\d{2}-34-[A-Z]{3}$`, driver.DriverCode)

	rec = a.do(http.MethodPost, "/api/v1/packages", map[string]any{
		"title": "Box1", "weightKg": 2, "destination": "Sydney", "driverId": driver.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	pkg := decodeBody[dto.CreatePackageResponse](t, rec)
	assert.Regexp(t, `^P[A-Z]{2}-JT-\d{3}$`, pkg.PackageCode)

	rec = a.do(http.MethodGet, "/api/v1/drivers/"+driver.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[dto.DriverResponse](t, rec)
	require.Len(t, got.AssignedPackages, 1)
	assert.Equal(t, pkg.ID, got.AssignedPackages[0].ID)
	assert.Equal(t, "Sydney", got.AssignedPackages[0].Destination)
	assert.False(t, got.AssignedPackages[0].IsAllocated)

	rec = a.do(http.MethodGet, "/api/v1/count", nil)
	assert.Equal(t, dto.CountResponse{DriverCount: 1, PackageCount: 1}, decodeBody[dto.CountResponse](t, rec))

	rec = a.do(http.MethodDelete, "/api/v1/drivers/"+driver.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	del := decodeBody[dto.DeleteResponse](t, rec)
	assert.True(t, del.Acknowledged)
	assert.EqualValues(t, 1, del.DeletedCount)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/v1/drivers/"+driver.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/v1/packages/"+pkg.ID, nil).Code)

	rec = a.do(http.MethodGet, "/api/v1/statistics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[dto.StatisticsResponse](t, rec)
	assert.EqualValues(t, 2, stats.CreateCount)
	assert.EqualValues(t, 1, stats.ReadCount)
	assert.EqualValues(t, 1, stats.DeleteCount)
}

func TestDriverUpdateAndDepartment(t *testing.T) {
	a := newTestAPI(t, Options{})
	a.login()

	rec := a.do(http.MethodPost, "/api/v1/drivers", dto.CreateDriverRequest{
		Name: "Sam", Department: "Food", LicenseCode: "AB123", IsActive: boolPtr(true),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody[dto.CreateDriverResponse](t, rec).ID

	license := "ZZZZZ"
	rec = a.do(http.MethodPut, "/api/v1/drivers/"+id, dto.UpdateDriverRequest{LicenseCode: &license})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/api/v1/drivers/department/Food", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]dto.DriverResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "ZZZZZ", list[0].LicenseCode)
	assert.Equal(t, "Sam", list[0].Name)
	assert.NotNil(t, list[0].AssignedPackages)

	rec = a.do(http.MethodGet, "/api/v1/drivers/department/Toys", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = a.do(http.MethodPut, "/api/v1/drivers/"+id, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPut, "/api/v1/drivers/missing", dto.UpdateDriverRequest{LicenseCode: &license})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidationErrors(t *testing.T) {
	a := newTestAPI(t, Options{})
	a.login()

	rec := a.do(http.MethodPost, "/api/v1/drivers", dto.CreateDriverRequest{
		Name: "S", Department: "Food", LicenseCode: "AB123", IsActive: boolPtr(true),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[dto.ErrorResponse](t, rec).Error, "Name")

	rec = a.do(http.MethodPost, "/api/v1/packages", dto.CreatePackageRequest{
		Title: "Box1", WeightKg: 2, Destination: "Sydney", IsAllocated: boolPtr(false), DriverID: "missing",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/drivers", bytes.NewBufferString("{broken"))
	req.Header.Set("Authorization", "Bearer "+a.token)
	out := httptest.NewRecorder()
	a.router.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func TestPackageUpdateAndDelete(t *testing.T) {
	a := newTestAPI(t, Options{})
	a.login()

	rec := a.do(http.MethodPost, "/api/v1/drivers", dto.CreateDriverRequest{
		Name: "Sam", Department: "Electronic", LicenseCode: "AB123", IsActive: boolPtr(true),
	})
	driverID := decodeBody[dto.CreateDriverResponse](t, rec).ID

	rec = a.do(http.MethodPost, "/api/v1/packages", dto.CreatePackageRequest{
		Title: "Box1", WeightKg: 2, Destination: "Sydney", IsAllocated: boolPtr(true), DriverID: driverID,
	})
	pkgID := decodeBody[dto.CreatePackageResponse](t, rec).ID

	rec = a.do(http.MethodPut, "/api/v1/packages/"+pkgID, dto.UpdatePackageRequest{Destination: "Adelaide"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodGet, "/api/v1/packages", nil)
	list := decodeBody[[]dto.PackageResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Adelaide", list[0].Destination)
	assert.Equal(t, driverID, list[0].DriverID)

	rec = a.do(http.MethodDelete, "/api/v1/packages/"+pkgID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodGet, "/api/v1/drivers/"+driverID, nil)
	assert.Empty(t, decodeBody[dto.DriverResponse](t, rec).AssignedPackages)

	rec = a.do(http.MethodDelete, "/api/v1/packages/"+pkgID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionAuthMode(t *testing.T) {
	a := newTestAPI(t, Options{SessionAuth: true, SessionTTL: time.Hour})
	a.login()

	// The cookie alone authenticates.
	sessionID := a.token
	a.token = ""
	req := httptest.NewRequest(http.MethodGet, "/api/v1/drivers", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	a.token = sessionID
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/v1/auth/logout", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/v1/drivers", nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	a := newTestAPI(t, Options{CORSOrigins: []string{"http://localhost:4200"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/drivers", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:4200", rec.Header().Get("Access-Control-Allow-Origin"))
}
