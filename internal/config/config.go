// Package config loads the expense service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/expenses/pkg/logging"
)

// Config is the expense service configuration.
type Config struct {
	// Port is the TCP port to listen on (PORT, default 8080).
	Port int

	// DBPath is the SQLite database file (DB_PATH, default ./data/expenses.db).
	DBPath string

	// DatabaseURL selects PostgreSQL instead of SQLite when set (DATABASE_URL).
	DatabaseURL string

	// JWTSecret and PasswordHash enable bearer-token auth when both are set
	// (JWT_SECRET, AUTH_PASSWORD_HASH).
	JWTSecret    string
	PasswordHash string

	// TokenTTL is how long issued tokens stay valid (TOKEN_TTL, default 24h).
	TokenTTL time.Duration

	// LogLevel and LogFormat configure the logger (LOG_LEVEL, LOG_FORMAT).
	LogLevel  slog.Level
	LogFormat logging.Format
}

// AuthEnabled reports whether bearer-token auth is configured.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != "" && c.PasswordHash != ""
}

// Load reads the configuration from the environment.
// Variables from envFile (usually ".env") are loaded first if the file exists;
// they never override variables already set.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		DBPath:       getEnv("DB_PATH", "./data/expenses.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		PasswordHash: os.Getenv("AUTH_PASSWORD_HASH"),
		LogLevel:     logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		LogFormat:    logging.Format(strings.ToLower(getEnv("LOG_FORMAT", string(logging.Text)))),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL %q", os.Getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	if (cfg.JWTSecret == "") != (cfg.PasswordHash == "") {
		return Config{}, errors.New("JWT_SECRET and AUTH_PASSWORD_HASH must be set together")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
