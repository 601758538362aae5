package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_HOST", "SERVER_PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"SERVER_IDLE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT", "SERVER_METRICS_ENABLED",
		"SERVER_ALLOWED_ORIGINS", "DB_PATH", "JWT_SECRET", "JWT_TTL",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_COLOR", "LOG_INCLUDE_CALLER",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Host != "0.0.0.0" || cfg.HTTP.Port != 8080 {
		t.Errorf("address = %s:%d, want 0.0.0.0:8080", cfg.HTTP.Host, cfg.HTTP.Port)
	}
	if cfg.HTTP.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.HTTP.ShutdownTimeout)
	}
	if !cfg.HTTP.MetricsEnabled {
		t.Error("expected metrics enabled by default")
	}
	if cfg.Storage.DBPath != "" {
		t.Errorf("DBPath = %q, want memory storage", cfg.Storage.DBPath)
	}
	if !cfg.Auth.UsingDevSecret() || cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if got := cfg.HTTP.AllowedOrigins(); len(got) != 0 {
		t.Errorf("AllowedOrigins = %v, want none", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://localhost:5173, ,https://debty.app")
	t.Setenv("SERVER_METRICS_ENABLED", "false")
	t.Setenv("DB_PATH", "/tmp/debty.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.HTTP.ReadTimeout != 3*time.Second || cfg.HTTP.MetricsEnabled {
		t.Errorf("unexpected HTTP config: %+v", cfg.HTTP)
	}
	origins := cfg.HTTP.AllowedOrigins()
	if len(origins) != 2 || origins[0] != "http://localhost:5173" || origins[1] != "https://debty.app" {
		t.Errorf("AllowedOrigins = %v", origins)
	}
	if cfg.Storage.DBPath != "/tmp/debty.db" {
		t.Errorf("DBPath = %q", cfg.Storage.DBPath)
	}
	if cfg.Auth.JWTSecret != "s3cret" || cfg.Auth.UsingDevSecret() || cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("unexpected auth config: %+v", cfg.Auth)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Format = %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"non-numeric port", "SERVER_PORT", "http"},
		{"port out of range", "SERVER_PORT", "70000"},
		{"bad duration", "SERVER_WRITE_TIMEOUT", "soon"},
		{"negative ttl", "JWT_TTL", "-1h"},
		{"unknown log format", "LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
