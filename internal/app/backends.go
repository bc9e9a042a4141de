// Package app assembles the stores and engines selected by configuration.
// Both the server and the dbtool CLI build on it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"delivery-tracking-service/internal/adapters/cache"
	"delivery-tracking-service/internal/adapters/distance"
	"delivery-tracking-service/internal/adapters/memory"
	"delivery-tracking-service/internal/adapters/repositories"
	"delivery-tracking-service/internal/adapters/sessions"
	"delivery-tracking-service/internal/adapters/speech"
	"delivery-tracking-service/internal/adapters/translation"
	"delivery-tracking-service/internal/auth"
	"delivery-tracking-service/internal/config"
	"delivery-tracking-service/internal/platform/db"
	"delivery-tracking-service/internal/platform/logging"
	"delivery-tracking-service/internal/platform/mongodb"
	"delivery-tracking-service/internal/platform/redis"
	"delivery-tracking-service/internal/ports"

	"go.mongodb.org/mongo-driver/mongo"
)

// Backends holds the concrete stores behind every port.
type Backends struct {
	Drivers       ports.DriverRepository
	Packages      ports.PackageRepository
	Counters      ports.CounterStore
	Credentials   ports.CredentialStore
	Sessions      ports.SessionStore
	DistanceCache ports.DistanceCache

	// Set only when the matching backend is selected.
	SQL   *sql.DB
	Mongo *mongo.Database

	closers []func() error
}

// OpenBackends connects the record, account and cache stores named by cfg.
// On failure every connection opened so far is closed.
func OpenBackends(ctx context.Context, cfg config.Config) (_ *Backends, err error) {
	log := logging.WithComponent("app")
	b := &Backends{}
	defer func() {
		if err != nil {
			_ = b.Close()
		}
	}()

	switch cfg.RecordStore {
	case config.StoreMongo:
		client, database, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("open backends: %w", err)
		}
		b.closers = append(b.closers, func() error { return mongodb.Disconnect(client) })
		b.Mongo = database
		b.Drivers = repositories.NewMongoDriverRepository(database)
		b.Packages = repositories.NewMongoPackageRepository(database)
	default:
		b.Drivers = memory.NewDriverRepository()
		b.Packages = memory.NewPackageRepository()
	}
	log.Info().Str("store", cfg.RecordStore).Msg("record store ready")

	switch cfg.AccountStore {
	case config.StorePostgres:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open backends: %w", err)
		}
		b.closers = append(b.closers, conn.Close)
		b.SQL = conn
		b.Counters = repositories.NewSQLCounterStore(conn)
		b.Credentials = repositories.NewSQLCredentialStore(conn)
	default:
		b.Counters = memory.NewCounterStore()
		b.Credentials = memory.NewCredentialStore()
	}
	log.Info().Str("store", cfg.AccountStore).Msg("account store ready")

	if cfg.RedisAddr != "" {
		client, err := redis.Connect(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("open backends: %w", err)
		}
		b.closers = append(b.closers, client.Close)
		b.Sessions = sessions.NewRedisSessionStore(client)
		b.DistanceCache = cache.NewRedisDistanceCache(client)
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache ready")
	} else {
		b.Sessions = memory.NewSessionStore()
		b.DistanceCache = memory.NewDistanceCache()
	}

	return b, nil
}

// Close releases connections in reverse order of opening.
func (b *Backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	b.closers = nil
	return errors.Join(errs...)
}

// Authenticator returns the credential issuer for cfg.AuthMode.
func (b *Backends) Authenticator(cfg config.Config) (ports.Authenticator, error) {
	if cfg.AuthMode == config.AuthSession {
		return auth.NewSessionAuthenticator(b.Sessions, cfg.TokenTTL), nil
	}
	tm, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("authenticator: %w", err)
	}
	return tm, nil
}

// Engines are the optional external services behind the realtime exchanges.
// A nil engine makes its exchange answer with the failure sentinel.
type Engines struct {
	Distance   ports.DistanceEstimator
	Speech     ports.SpeechSynthesizer
	Translator ports.Translator
}

// OpenEngines builds the engines that cfg has credentials for. Engines that
// cannot be built are logged and left nil.
func (b *Backends) OpenEngines(ctx context.Context, cfg config.Config) Engines {
	log := logging.WithComponent("app")
	var e Engines

	if cfg.LLMAPIKey != "" {
		est, err := distance.NewLLMEstimator(distance.LLMConfig{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
		})
		if err != nil {
			log.Warn().Err(err).Msg("distance engine disabled")
		} else {
			e.Distance = distance.NewCachedEstimator(est, b.DistanceCache, cfg.DistanceCacheTTL)
		}
	} else {
		log.Warn().Msg("LLM_API_KEY not set, distance engine disabled")
	}

	translator, err := translation.NewGoogleTranslator(ctx, translation.Config{APIKey: cfg.GoogleAPIKey})
	if err != nil {
		log.Warn().Err(err).Msg("translation engine disabled")
	} else {
		e.Translator = translator
	}

	synth, err := speech.NewGoogleSynthesizer(ctx, speech.Config{APIKey: cfg.GoogleAPIKey})
	if err != nil {
		log.Warn().Err(err).Msg("speech engine disabled")
	} else {
		e.Speech = synth
	}

	return e
}
