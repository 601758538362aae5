// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Storage StorageConfig
	Auth    AuthConfig
	Logging LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MetricsEnabled    bool
	AllowedOriginsCSV string
	// StaticDir holds a built web client to serve at "/". Empty disables it.
	StaticDir string
}

// AllowedOrigins splits AllowedOriginsCSV, dropping blanks.
func (c HTTPConfig) AllowedOrigins() []string {
	var out []string
	for _, origin := range strings.Split(c.AllowedOriginsCSV, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// DBPath is the SQLite file. Empty selects in-memory storage.
	DBPath string
}

// AuthConfig controls session tokens.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// UsingDevSecret reports whether JWT_SECRET was left unset.
func (c AuthConfig) UsingDevSecret() bool {
	return c.JWTSecret == DevJWTSecret
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	Colored       bool
	IncludeCaller bool
}

// DevJWTSecret is used when JWT_SECRET is unset. Never use it in production.
const DevJWTSecret = "debty-dev-secret-change-me"

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultTokenTTL        = 24 * time.Hour
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "text"
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:              valueOrDefault("SERVER_HOST", defaultHost),
			MetricsEnabled:    parseBoolWithDefault("SERVER_METRICS_ENABLED", true),
			AllowedOriginsCSV: os.Getenv("SERVER_ALLOWED_ORIGINS"),
			StaticDir:         os.Getenv("STATIC_PATH"),
		},
		Storage: StorageConfig{
			DBPath: os.Getenv("DB_PATH"),
		},
		Auth: AuthConfig{
			JWTSecret: valueOrDefault("JWT_SECRET", DevJWTSecret),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			Colored:       parseBoolWithDefault("LOG_COLOR", true),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", true),
		},
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", defaultReadTimeout, &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", defaultWriteTimeout, &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", defaultIdleTimeout, &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout, &cfg.HTTP.ShutdownTimeout},
		{"JWT_TTL", defaultTokenTTL, &cfg.Auth.TokenTTL},
	}
	for _, d := range durations {
		if *d.dst, err = parseDuration(d.key, d.fallback); err != nil {
			return Config{}, err
		}
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", cfg.Logging.Format)
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
