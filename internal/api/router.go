package api

import (
	"net/http"
	"time"

	"delivery-tracking-service/internal/api/handlers"
	"delivery-tracking-service/internal/platform/metrics"
	"delivery-tracking-service/internal/ports"
	"delivery-tracking-service/internal/services"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Drivers     *services.DriverService
	Packages    *services.PackageService
	Auth        *services.AuthService
	Counters    *services.CounterService
	DriverRepo  ports.DriverRepository
	PackageRepo ports.PackageRepository
	// Optional websocket endpoint mounted at /realtime.
	Realtime http.Handler
}

type Options struct {
	Prefix      string
	CORSOrigins []string
	// SessionAuth accepts the session cookie and sets it on login.
	SessionAuth bool
	SessionTTL  time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns the engine.
// Handlers stay unaware of concrete adapters.
func NewRouter(deps Deps, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog())
	if len(opts.CORSOrigins) > 0 {
		r.Use(corsMiddleware(opts.CORSOrigins))
	}

	driverHandler := &handlers.DriverHandler{Service: deps.Drivers}
	packageHandler := &handlers.PackageHandler{Service: deps.Packages}
	reportHandler := &handlers.ReportHandler{
		Counters: deps.Counters,
		Drivers:  deps.DriverRepo,
		Packages: deps.PackageRepo,
	}
	authHandler := &handlers.AuthHandler{
		Service:   deps.Auth,
		SetCookie: opts.SessionAuth,
		CookieTTL: int(opts.SessionTTL.Seconds()),
		Credential: func(c *gin.Context) string {
			return credential(c, opts.SessionAuth)
		},
	}

	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if deps.Realtime != nil {
		r.GET("/realtime", gin.WrapH(deps.Realtime))
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	v1 := r.Group(prefix)

	v1.POST("/auth/signup", authHandler.Signup)
	v1.POST("/auth/login", authHandler.Login)
	v1.GET("/auth/logout", authHandler.Logout)
	v1.GET("/count", reportHandler.Count)

	protected := v1.Group("")
	protected.Use(authRequired(deps.Auth, opts.SessionAuth))
	{
		protected.GET("/drivers", driverHandler.List)
		protected.GET("/drivers/department/:department", driverHandler.ListByDepartment)
		protected.GET("/drivers/:id", driverHandler.Get)
		protected.POST("/drivers", driverHandler.Create)
		protected.PUT("/drivers/:id", driverHandler.Update)
		protected.DELETE("/drivers/:id", driverHandler.Delete)

		protected.GET("/packages", packageHandler.List)
		protected.GET("/packages/:id", packageHandler.Get)
		protected.POST("/packages", packageHandler.Create)
		protected.PUT("/packages/:id", packageHandler.Update)
		protected.DELETE("/packages/:id", packageHandler.Delete)

		protected.GET("/statistics", reportHandler.Statistics)
	}

	return r
}
