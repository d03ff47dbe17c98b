// Package config loads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted in DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds everything the server needs to start.
type Config struct {
	// DBDriver selects the storage backend: "sqlite" or "postgres".
	DBDriver string
	// DBPath is the SQLite database file.
	DBPath string
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string

	Port int

	// JWTSecret signs organizer tokens. When unset a random secret is
	// generated and EphemeralSecret is true; tokens then die with the process.
	JWTSecret       string
	EphemeralSecret bool
	TokenTTL        time.Duration

	LogLevel string
}

// Load reads the given .env files (default ".env") into the process
// environment, without overriding variables already set, and then builds
// the config from the environment. Missing .env files are not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("No env file found, reading environment variables directly", "file", f)
				continue
			}
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if value := getenv(key); value != "" {
			return value
		}
		return fallback
	}

	cfg := &Config{
		DBDriver:    get("DB_DRIVER", DriverSQLite),
		DBPath:      get("DB_PATH", "./data/tournament.db"),
		DatabaseURL: get("DATABASE_URL", "dbname=tournament"),
		JWTSecret:   getenv("JWT_SECRET"),
		LogLevel:    get("LOG_LEVEL", "info"),
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q: want %s or %s", cfg.DBDriver, DriverSQLite, DriverPostgres)
	}

	port, err := strconv.Atoi(get("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", getenv("PORT"))
	}
	cfg.Port = port

	ttl, err := time.ParseDuration(get("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", ttl)
	}
	cfg.TokenTTL = ttl

	if cfg.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret = secret
		cfg.EphemeralSecret = true
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
