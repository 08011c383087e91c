// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// DevJWTSecret is used when JWT_SECRET is unset. Tokens signed with it are not secure.
const DevJWTSecret = "splitledger-dev-secret-change-me"

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration

	// Storage
	StorageBackend string
	DBPath         string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// AMQP events; an empty URL disables publishing
	AMQPURL      string
	AMQPExchange string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads .env (when present) and the environment.
func Load() *Config {
	// Missing .env is normal outside local development
	_ = godotenv.Load()

	backend := strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory))
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),

		StorageBackend: backend,
		DBPath:         getEnv("DB_PATH", defaultDBPath(backend)),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "splitledger"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "tint"),
	}

	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set, using an insecure development secret")
		cfg.JWTSecret = DevJWTSecret
	}

	return cfg
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.StorageBackend {
	case BackendMemory:
	case BackendSQLite, BackendBolt:
		if c.DBPath == "" {
			errs = append(errs, fmt.Errorf("DB_PATH cannot be empty when using the %s backend", c.StorageBackend))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid storage backend '%s': must be one of %v",
			c.StorageBackend, []string{BackendMemory, BackendSQLite, BackendBolt}))
	}

	if c.StorageBackend != BackendMemory && c.JWTSecret == DevJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set when using a persistent backend"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("invalid TOKEN_TTL %s: must be positive", c.TokenTTL))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %s: must be positive", c.ShutdownTimeout))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Errorf("invalid AMQP URL: %w", err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Errorf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, errors.New("AMQP exchange name cannot be empty when AMQP URL is provided"))
		}
	}

	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func defaultDBPath(backend string) string {
	switch backend {
	case BackendSQLite:
		return "./data/ledger.db"
	case BackendBolt:
		return "./data/ledger.bolt"
	default:
		return ""
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("Invalid duration, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
