package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GIN_MODE", "test")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DatabaseURL != "blog.db" {
		t.Fatalf("DatabaseURL = %q, want blog.db", cfg.DatabaseURL)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionSecret != devSessionSecret {
		t.Fatalf("expected development secret, got %q", cfg.SessionSecret)
	}
	if cfg.SessionMaxAge() != 30*24*time.Hour {
		t.Fatalf("SessionMaxAge = %v", cfg.SessionMaxAge())
	}
}

func TestValidateReleaseRequiresSecret(t *testing.T) {
	cfg := &Config{GinMode: "release", DatabaseURL: "blog.db", SessionMaxAgeHours: 1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing SESSION_SECRET")
	}

	cfg.SessionSecret = "short"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short SESSION_SECRET")
	}

	cfg.SessionSecret = "0123456789abcdef0123456789abcdef"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetEnvAsIntFallsBack(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	if got := getEnvAsInt("DB_MAX_OPEN_CONNS", 7); got != 7 {
		t.Fatalf("getEnvAsInt = %d, want 7", got)
	}
}

func TestDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if got := DatabaseURL(); got != "blog.db" {
		t.Fatalf("DatabaseURL = %q, want blog.db", got)
	}

	t.Setenv("DATABASE_URL", "postgres://blog@localhost/blog")
	if got := DatabaseURL(); got != "postgres://blog@localhost/blog" {
		t.Fatalf("DatabaseURL = %q", got)
	}
}
