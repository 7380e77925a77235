// Package config provides configuration management for the notekeeper application.
// Values come from environment variables (optionally seeded from a `.env` file by
// main), are parsed into typed structs, and are then validated with every problem
// collected into a single error so a misconfigured deployment fails fast and
// reports everything at once.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/crypto/bcrypt"
)

// Storage backends selected by the scheme of DATABASE_URL.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	RequestTimeout  time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`
	// TokenDuration of zero issues tokens without an expiry claim.
	TokenDuration time.Duration `env:"JWT_TOKEN_DURATION" envDefault:"0s"`
	TokenHeader   string        `env:"AUTH_TOKEN_HEADER" envDefault:"auth-token"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"10"`
}

// DatabaseConfig holds the store connection settings.
type DatabaseConfig struct {
	URL           string `env:"DATABASE_URL,required,notEmpty"`
	MaxConns      int    `env:"DB_MAX_CONNS" envDefault:"10"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"notekeeper"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Server   ServerConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Log      LogConfig
}

// Backend returns which store implementation DATABASE_URL points at.
func (c DatabaseConfig) Backend() (string, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return BackendPostgres, nil
	case "mongodb", "mongodb+srv":
		return BackendMongo, nil
	case "memory":
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("unsupported DATABASE_URL scheme %q", u.Scheme)
	}
}

// SlogLevel converts the configured level name to a slog.Level.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.Level, err)
	}
	return lvl, nil
}

// LoadConfig creates and returns an AppConfig by reading and validating environment variables.
// It collects all errors encountered during loading and returns them as one error.
func LoadConfig() (*AppConfig, error) {
	var cfg AppConfig
	var result *multierror.Error

	// `env.Parse` fills defaults and reports every missing required variable
	// in one error; parsing continues so the checks below still run.
	if err := env.Parse(&cfg); err != nil {
		result = multierror.Append(result, err)
	}

	// A missing URL is already reported by env.Parse.
	if cfg.Database.URL != "" {
		if _, err := cfg.Database.Backend(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	// Pool size is handed to pgxpool as an int32.
	if cfg.Database.MaxConns < 1 || cfg.Database.MaxConns > 100 {
		result = multierror.Append(result, fmt.Errorf("DB_MAX_CONNS must be between 1 and 100, got %d", cfg.Database.MaxConns))
	}
	// bcrypt rejects costs outside this range at hash time, not at startup.
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		result = multierror.Append(result, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.Auth.BcryptCost))
	}
	if cfg.Auth.TokenDuration < 0 {
		result = multierror.Append(result, fmt.Errorf("JWT_TOKEN_DURATION must not be negative, got %s", cfg.Auth.TokenDuration))
	}
	if strings.TrimSpace(cfg.Auth.TokenHeader) == "" {
		result = multierror.Append(result, fmt.Errorf("AUTH_TOKEN_HEADER must not be empty"))
	}
	if _, err := cfg.Log.SlogLevel(); err != nil {
		result = multierror.Append(result, err)
	}

	// ErrorOrNil keeps a nil *multierror.Error from becoming a non-nil error.
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("configuration errors: %w", err)
	}
	return &cfg, nil
}
