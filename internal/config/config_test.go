package config

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "JWT_SECRET", "JWT_EXPIRES_IN", "BCRYPT_COST", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("DBDriver = %q, want postgres", cfg.DBDriver)
	}
	if cfg.JWTExpirationDur != time.Hour {
		t.Errorf("JWTExpirationDur = %s, want 1h", cfg.JWTExpirationDur)
	}
	if cfg.JWTSecret != "" {
		t.Errorf("expected empty JWTSecret, got %q", cfg.JWTSecret)
	}
	if cfg.BcryptCost != bcrypt.DefaultCost {
		t.Errorf("BcryptCost = %d, want %d", cfg.BcryptCost, bcrypt.DefaultCost)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/test.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRES_IN", "30m")
	t.Setenv("BCRYPT_COST", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9090" || cfg.DBDriver != "sqlite" || cfg.SQLitePath != "/tmp/test.db" {
		t.Errorf("unexpected server/database config: %+v", cfg)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
	if cfg.JWTExpirationDur != 30*time.Minute {
		t.Errorf("JWTExpirationDur = %s", cfg.JWTExpirationDur)
	}
	if cfg.BcryptCost != 4 {
		t.Errorf("BcryptCost = %d", cfg.BcryptCost)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	t.Run("bad_duration_falls_back", func(t *testing.T) {
		t.Setenv("JWT_EXPIRES_IN", "forever")
		t.Setenv("BCRYPT_COST", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.JWTExpirationDur != time.Hour {
			t.Errorf("JWTExpirationDur = %s, want 1h", cfg.JWTExpirationDur)
		}
	})

	t.Run("bcrypt_cost_out_of_range", func(t *testing.T) {
		t.Setenv("BCRYPT_COST", "99")

		if _, err := Load(); err == nil {
			t.Fatal("expected error for out-of-range bcrypt cost")
		}
	})
}
