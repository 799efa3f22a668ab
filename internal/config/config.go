// Package config loads debtbook settings from a TOML file with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/mmynk/debtbook/internal/models"
)

// Config is the full server configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Auth       AuthConfig       `toml:"auth"`
	FX         FXConfig         `toml:"fx"`
	Log        LogConfig        `toml:"log"`
	Allocation AllocationConfig `toml:"allocation"`
}

type ServerConfig struct {
	Addr    string `toml:"addr"`
	Metrics bool   `toml:"metrics"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	TokenTTL  string `toml:"token_ttl"`
}

// FXConfig controls the live rate source and the default account preference.
type FXConfig struct {
	SourceURL        string `toml:"source_url"`
	CacheTTL         string `toml:"cache_ttl"`
	Timeout          string `toml:"timeout"`
	FallbackRate     string `toml:"fallback_rate"`
	DefaultMode      string `toml:"default_mode"`
	DefaultFixedRate string `toml:"default_fixed_rate"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type AllocationConfig struct {
	MaxAttempts int `toml:"max_attempts"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:    ":8080",
			Metrics: true,
		},
		Database: DatabaseConfig{
			Path: "./data/debtbook.db",
		},
		Auth: AuthConfig{
			TokenTTL: "24h",
		},
		FX: FXConfig{
			SourceURL:    "https://open.er-api.com/v6/latest/USD",
			CacheTTL:     "1h",
			Timeout:      "5s",
			FallbackRate: "4100",
			DefaultMode:  string(models.RateLive),
		},
		Log: LogConfig{
			Level: "info",
		},
		Allocation: AllocationConfig{
			MaxAttempts: 3,
		},
	}
}

// Load reads path over the defaults and then applies environment overrides.
// A missing file is not an error; the defaults are used.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	for env, field := range map[string]*string{
		"DEBTBOOK_DB_PATH":    &cfg.Database.Path,
		"DEBTBOOK_JWT_SECRET": &cfg.Auth.JWTSecret,
		"DEBTBOOK_ADDR":       &cfg.Server.Addr,
		"DEBTBOOK_FX_URL":     &cfg.FX.SourceURL,
		"LOG_LEVEL":           &cfg.Log.Level,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}

// Validate checks every duration, rate and enum in the configuration.
func (c Config) Validate() error {
	for name, v := range map[string]string{
		"auth.token_ttl": c.Auth.TokenTTL,
		"fx.cache_ttl":   c.FX.CacheTTL,
		"fx.timeout":     c.FX.Timeout,
	} {
		if _, err := parsePositiveDuration(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	if _, err := c.FallbackRate(); err != nil {
		return err
	}
	if _, err := c.DefaultSettings(); err != nil {
		return err
	}
	if c.Allocation.MaxAttempts < 1 {
		return fmt.Errorf("invalid allocation.max_attempts: %d", c.Allocation.MaxAttempts)
	}
	return nil
}

func parsePositiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}

func (c Config) TokenTTL() time.Duration {
	d, _ := parsePositiveDuration(c.Auth.TokenTTL)
	return d
}

func (c Config) CacheTTL() time.Duration {
	d, _ := parsePositiveDuration(c.FX.CacheTTL)
	return d
}

func (c Config) FXTimeout() time.Duration {
	d, _ := parsePositiveDuration(c.FX.Timeout)
	return d
}

// FallbackRate is the KHR per USD rate used when the live source fails.
func (c Config) FallbackRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.FX.FallbackRate)
	if err != nil || !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid fx.fallback_rate %q", c.FX.FallbackRate)
	}
	return rate, nil
}

// DefaultSettings is the rate preference for accounts that never stored one.
func (c Config) DefaultSettings() (models.AccountSettings, error) {
	mode, err := models.ParseRateMode(c.FX.DefaultMode)
	if err != nil {
		return models.AccountSettings{}, fmt.Errorf("invalid fx.default_mode: %w", err)
	}
	settings := models.AccountSettings{RateMode: mode}
	if mode == models.RateFixed {
		rate, err := decimal.NewFromString(c.FX.DefaultFixedRate)
		if err != nil || !rate.IsPositive() {
			return models.AccountSettings{}, fmt.Errorf("invalid fx.default_fixed_rate %q", c.FX.DefaultFixedRate)
		}
		settings.FixedRate = rate
	}
	return settings, nil
}
