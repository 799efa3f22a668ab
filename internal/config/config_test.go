package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/debtbook/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if !cfg.Server.Metrics {
		t.Error("Server.Metrics should be true by default")
	}
	if cfg.CacheTTL() != time.Hour {
		t.Errorf("CacheTTL() = %v, want 1h", cfg.CacheTTL())
	}
	if cfg.FXTimeout() != 5*time.Second {
		t.Errorf("FXTimeout() = %v, want 5s", cfg.FXTimeout())
	}
	if rate, err := cfg.FallbackRate(); err != nil || !rate.Equal(decimal.NewFromInt(4100)) {
		t.Errorf("FallbackRate() = %s, %v, want 4100", rate, err)
	}
	if cfg.Allocation.MaxAttempts != 3 {
		t.Errorf("Allocation.MaxAttempts = %d, want 3", cfg.Allocation.MaxAttempts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "debtbook.toml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("file overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
[server]
addr = ":9090"

[fx]
default_mode = "fixed"
default_fixed_rate = "4050"
cache_ttl = "30m"

[allocation]
max_attempts = 5
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Server.Addr != ":9090" {
			t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
		}
		if cfg.Database.Path != "./data/debtbook.db" {
			t.Errorf("Database.Path = %q, want default", cfg.Database.Path)
		}
		if cfg.CacheTTL() != 30*time.Minute {
			t.Errorf("CacheTTL() = %v, want 30m", cfg.CacheTTL())
		}
		if cfg.Allocation.MaxAttempts != 5 {
			t.Errorf("MaxAttempts = %d, want 5", cfg.Allocation.MaxAttempts)
		}
		s, err := cfg.DefaultSettings()
		if err != nil {
			t.Fatalf("DefaultSettings failed: %v", err)
		}
		if s.RateMode != models.RateFixed || !s.FixedRate.Equal(decimal.NewFromInt(4050)) {
			t.Errorf("DefaultSettings() = %+v, want fixed 4050", s)
		}
	})

	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Server.Addr != ":8080" {
			t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
		}
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := writeConfig(t, "[database]\npath = \"/from/file.db\"\n")
		t.Setenv("DEBTBOOK_DB_PATH", "/from/env.db")
		t.Setenv("DEBTBOOK_JWT_SECRET", "s3cret")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Database.Path != "/from/env.db" {
			t.Errorf("Database.Path = %q, want /from/env.db", cfg.Database.Path)
		}
		if cfg.Auth.JWTSecret != "s3cret" {
			t.Errorf("Auth.JWTSecret = %q, want s3cret", cfg.Auth.JWTSecret)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{"bad duration", "[fx]\ncache_ttl = \"soon\"\n"},
			{"negative timeout", "[fx]\ntimeout = \"-1s\"\n"},
			{"zero fallback", "[fx]\nfallback_rate = \"0\"\n"},
			{"bad mode", "[fx]\ndefault_mode = \"hourly\"\n"},
			{"fixed without rate", "[fx]\ndefault_mode = \"fixed\"\n"},
			{"zero attempts", "[allocation]\nmax_attempts = 0\n"},
			{"malformed toml", "[server\naddr = 1\n"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := Load(writeConfig(t, tt.body)); err == nil {
					t.Error("expected error")
				}
			})
		}
	})
}
