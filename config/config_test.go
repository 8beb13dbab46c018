package config_test

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/auth-service/config"
)

const secret = "config-test-secret-at-least-32-chars"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("DATABASE_URL", "postgres://localhost/auth")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Env != "local" || cfg.Port != "8080" || cfg.Store != "postgres" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.JWTTTL != 6*time.Hour {
		t.Errorf("JWTTTL = %v, want 6h", cfg.JWTTTL)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
	if !cfg.RunMigrations {
		t.Error("RunMigrations should default to true")
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("SlogLevel = %v", cfg.SlogLevel())
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE", "memory")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("STORE", "memory")

	_, err := config.Load()
	if err == nil || !strings.Contains(err.Error(), "JWTSecret") {
		t.Fatalf("want JWTSecret validation error, got %v", err)
	}
}

func TestLoad_PostgresNeedsDatabaseURL(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("STORE", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoad_MemoryStoreNeedsNoDatabase(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("STORE", "memory")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, want debug", cfg.SlogLevel())
	}
}

func TestLoad_BcryptCostBounds(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("STORE", "memory")
	t.Setenv("BCRYPT_COST", "3")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for bcrypt cost below 4")
	}
}

func TestLoad_ProductionNeedsResend(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("STORE", "memory")
	t.Setenv("ENV", "production")
	t.Setenv("RESEND_API_KEY", "")
	t.Setenv("RESEND_FROM", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error without resend settings in production")
	}
}
