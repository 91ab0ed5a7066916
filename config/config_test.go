package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "production")

	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if !cfg.Server.IsProduction() {
		t.Errorf("expected production environment")
	}
	if cfg.RateLimit.LoginAttempts != 5 || cfg.RateLimit.LoginWindow != time.Minute {
		t.Errorf("unexpected rate limit defaults %+v", cfg.RateLimit)
	}
	if cfg.Log.Level != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.Log.Level)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SNAPSHOT_CACHE_TTL", "30s")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Redis.SnapshotCacheTTL != 30*time.Second {
		t.Errorf("expected 30s cache TTL, got %v", cfg.Redis.SnapshotCacheTTL)
	}
	if cfg.Database.AutoMigrate {
		t.Errorf("expected auto migrate disabled")
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Log.Level != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.Log.Level)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SERVER_PORT", "eighty")
	t.Setenv("LOGIN_RATE_WINDOW", "soon")
	t.Setenv("LOG_LEVEL", "verbose")

	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected fallback port, got %d", cfg.Server.Port)
	}
	if cfg.RateLimit.LoginWindow != time.Minute {
		t.Errorf("expected fallback window, got %v", cfg.RateLimit.LoginWindow)
	}
	if cfg.Log.Level != slog.LevelInfo {
		t.Errorf("expected fallback level, got %v", cfg.Log.Level)
	}
}
