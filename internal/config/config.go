// Package config loads server and tool settings: built-in defaults, then an
// optional YAML file, then environment variables (after reading .env).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	AuthBearer  = "bearer"
	AuthSession = "session"
)

type Config struct {
	Port        string   `yaml:"port"`
	APIPrefix   string   `yaml:"apiPrefix"`
	LogLevel    string   `yaml:"logLevel"`
	LogJSON     bool     `yaml:"logJSON"`
	CORSOrigins []string `yaml:"corsOrigins"`

	RecordStore   string `yaml:"recordStore"`
	MongoURI      string `yaml:"mongoURI"`
	MongoDatabase string `yaml:"mongoDatabase"`

	AccountStore string `yaml:"accountStore"`
	DatabaseURL  string `yaml:"databaseURL"`

	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`

	AuthMode  string        `yaml:"authMode"`
	JWTSecret string        `yaml:"jwtSecret"`
	TokenTTL  time.Duration `yaml:"tokenTTL"`

	DistanceOrigin   string        `yaml:"distanceOrigin"`
	DistanceCacheTTL time.Duration `yaml:"distanceCacheTTL"`
	LLMAPIKey        string        `yaml:"llmAPIKey"`
	LLMBaseURL       string        `yaml:"llmBaseURL"`
	LLMModel         string        `yaml:"llmModel"`
	GoogleAPIKey     string        `yaml:"googleAPIKey"`

	RealtimeTimeout  time.Duration `yaml:"realtimeTimeout"`
	RealtimeRate     float64       `yaml:"realtimeRate"`
	RealtimeBurst    int           `yaml:"realtimeBurst"`
	RealtimeInflight int           `yaml:"realtimeInflight"`

	ReconcileInterval time.Duration `yaml:"reconcileInterval"`
	SeedPath          string        `yaml:"seedPath"`
}

func Default() Config {
	return Config{
		Port:             "8080",
		APIPrefix:        "/api/v1",
		LogLevel:         "info",
		CORSOrigins:      []string{"http://localhost:4200"},
		RecordStore:      StoreMongo,
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "pdma",
		AccountStore:     StorePostgres,
		AuthMode:         AuthBearer,
		TokenTTL:         24 * time.Hour,
		DistanceOrigin:   "Melbourne",
		DistanceCacheTTL: 24 * time.Hour,
		LLMModel:         "gemini-1.5-flash",
		RealtimeTimeout:  15 * time.Second,
		RealtimeRate:     5,
		RealtimeBurst:    10,
		RealtimeInflight: 32,
		SeedPath:         "data/seeds/drivers.json",
	}
}

// Load builds the configuration. path may be empty; CONFIG_FILE is used then.
func Load(path string) (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.APIPrefix, "API_PREFIX")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.RecordStore, "RECORD_STORE")
	setString(&c.MongoURI, "MONGO_URI")
	setString(&c.MongoDatabase, "MONGO_DATABASE")
	setString(&c.AccountStore, "ACCOUNT_STORE")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisAddr, "REDIS_ADDR")
	setString(&c.RedisPassword, "REDIS_PASSWORD")
	setString(&c.AuthMode, "AUTH_MODE")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.DistanceOrigin, "DISTANCE_ORIGIN")
	setString(&c.LLMAPIKey, "LLM_API_KEY")
	setString(&c.LLMBaseURL, "LLM_BASE_URL")
	setString(&c.LLMModel, "LLM_MODEL")
	setString(&c.GoogleAPIKey, "GOOGLE_API_KEY")
	setString(&c.SeedPath, "SEED_PATH")

	if v, ok := lookup("CORS_ORIGINS"); ok {
		c.CORSOrigins = splitList(v)
	}

	return errors.Join(
		setBool(&c.LogJSON, "LOG_JSON"),
		setInt(&c.RedisDB, "REDIS_DB"),
		setInt(&c.RealtimeBurst, "REALTIME_BURST"),
		setInt(&c.RealtimeInflight, "REALTIME_MAX_INFLIGHT"),
		setFloat(&c.RealtimeRate, "REALTIME_RATE"),
		setDuration(&c.TokenTTL, "TOKEN_TTL"),
		setDuration(&c.DistanceCacheTTL, "DISTANCE_CACHE_TTL"),
		setDuration(&c.RealtimeTimeout, "REALTIME_TIMEOUT"),
		setDuration(&c.ReconcileInterval, "RECONCILE_INTERVAL"),
	)
}

// Validate rejects unknown backends and missing connection settings for the
// selected ones.
func (c Config) Validate() error {
	var errs []error

	switch c.RecordStore {
	case StoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required when RECORD_STORE=mongo"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("RECORD_STORE must be %q or %q, got %q", StoreMongo, StoreMemory, c.RecordStore))
	}

	switch c.AccountStore {
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when ACCOUNT_STORE=postgres"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("ACCOUNT_STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.AccountStore))
	}

	switch c.AuthMode {
	case AuthBearer:
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required when AUTH_MODE=bearer"))
		}
	case AuthSession:
	default:
		errs = append(errs, fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthBearer, AuthSession, c.AuthMode))
	}

	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		errs = append(errs, fmt.Errorf("API_PREFIX must start with '/', got %q", c.APIPrefix))
	}
	if c.RealtimeRate < 0 || c.RealtimeBurst < 0 {
		errs = append(errs, errors.New("REALTIME_RATE and REALTIME_BURST must not be negative"))
	}
	if c.RealtimeInflight < 1 {
		errs = append(errs, fmt.Errorf("REALTIME_MAX_INFLIGHT must be at least 1, got %d", c.RealtimeInflight))
	}

	return errors.Join(errs...)
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return fallback
}

func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
