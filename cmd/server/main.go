package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"delivery-tracking-service/internal/api"
	"delivery-tracking-service/internal/app"
	"delivery-tracking-service/internal/config"
	"delivery-tracking-service/internal/platform/logging"
	"delivery-tracking-service/internal/realtime"
	"delivery-tracking-service/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (MongoDB, Postgres, Redis, engines) behind ports
// and serves the REST API and the realtime socket.
func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Logger.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: logging.Level(cfg.LogLevel), JSONOutput: cfg.LogJSON})

	if err := run(cfg); err != nil {
		logging.Logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config) error {
	log := logging.WithComponent("server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backends, err := app.OpenBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := backends.Close(); err != nil {
			log.Warn().Err(err).Msg("close backends")
		}
	}()

	authenticator, err := backends.Authenticator(cfg)
	if err != nil {
		return err
	}

	counters := services.NewCounterService(backends.Counters)
	if err := counters.Init(ctx); err != nil {
		return err
	}

	engines := backends.OpenEngines(ctx, cfg)
	hub := realtime.NewHub()
	socket := realtime.NewServer(&realtime.Dispatcher{
		Distance:   engines.Distance,
		Speech:     engines.Speech,
		Translator: engines.Translator,
		Origin:     cfg.DistanceOrigin,
		Timeout:    cfg.RealtimeTimeout,
	}, hub, realtime.ServerConfig{
		Rate:           cfg.RealtimeRate,
		Burst:          cfg.RealtimeBurst,
		MaxInflight:    cfg.RealtimeInflight,
		AllowedOrigins: cfg.CORSOrigins,
	})

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.Deps{
		Drivers:     services.NewDriverService(backends.Drivers, backends.Packages, counters),
		Packages:    services.NewPackageService(backends.Packages, backends.Drivers, counters),
		Auth:        services.NewAuthService(backends.Credentials, authenticator),
		Counters:    counters,
		DriverRepo:  backends.Drivers,
		PackageRepo: backends.Packages,
		Realtime:    socket,
	}, api.Options{
		Prefix:      cfg.APIPrefix,
		CORSOrigins: cfg.CORSOrigins,
		SessionAuth: cfg.AuthMode == config.AuthSession,
		SessionTTL:  cfg.TokenTTL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.ReconcileInterval > 0 {
		reconciler := services.NewReconciler(backends.Drivers, backends.Packages)
		g.Go(func() error {
			return reconciler.RunEvery(gctx, cfg.ReconcileInterval)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		hub.CloseAll()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
