// Package fx resolves the KHR per USD exchange rate for an account.
//
// A fixed rate configured on the account wins. Otherwise the live rate is read
// through a Cache that refreshes at most once per TTL and falls back to a
// constant when the source is unreachable, so resolution never fails.
package fx

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/debtbook/internal/metrics"
	"github.com/mmynk/debtbook/internal/models"
)

// DefaultFallbackRate is used whenever the live source cannot be read.
var DefaultFallbackRate = decimal.NewFromInt(4100)

// Fetcher reads the current KHR per USD rate from an external source.
type Fetcher interface {
	FetchRate(ctx context.Context) (decimal.Decimal, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context) (decimal.Decimal, error)

// FetchRate calls f.
func (f FetcherFunc) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	return f(ctx)
}

// CacheConfig configures a Cache.
type CacheConfig struct {
	TTL      time.Duration
	Fallback decimal.Decimal
	Now      func() time.Time // clock, replaceable in tests
}

// DefaultCacheConfig returns production defaults.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:      time.Hour,
		Fallback: DefaultFallbackRate,
		Now:      time.Now,
	}
}

// Cache holds the last live rate for one TTL period.
// It is shared by every account in the process.
type Cache struct {
	fetcher Fetcher
	cfg     CacheConfig

	mu        sync.Mutex
	rate      decimal.Decimal
	fetchedAt time.Time
	loaded    bool
}

// NewCache creates a cache in front of fetcher.
func NewCache(fetcher Fetcher, cfg CacheConfig) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	if !cfg.Fallback.IsPositive() {
		cfg.Fallback = DefaultFallbackRate
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Cache{fetcher: fetcher, cfg: cfg}
}

// Rate returns the cached rate, fetching a fresh one when the period has expired.
// A failed or non-positive fetch caches the fallback for the rest of the period,
// which keeps outbound calls to one per TTL.
func (c *Cache) Rate(ctx context.Context) decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.cfg.Now()
	if c.loaded && now.Sub(c.fetchedAt) < c.cfg.TTL {
		return c.rate
	}

	// The result is shared for the whole TTL, so one caller going away
	// must not turn into a cached fallback.
	rate, err := c.fetcher.FetchRate(context.WithoutCancel(ctx))
	switch {
	case err != nil:
		slog.Warn("Live rate fetch failed, using fallback", "fallback", c.cfg.Fallback, "error", err)
		metrics.FXFetches.WithLabelValues("error").Inc()
		rate = c.cfg.Fallback
	case !rate.IsPositive():
		slog.Warn("Live rate source returned a non-positive rate, using fallback", "rate", rate)
		metrics.FXFetches.WithLabelValues("error").Inc()
		rate = c.cfg.Fallback
	default:
		slog.Debug("Live rate refreshed", "rate", rate)
		metrics.FXFetches.WithLabelValues("ok").Inc()
	}

	c.rate = rate
	c.fetchedAt = now
	c.loaded = true
	metrics.FXRate.Set(rate.InexactFloat64())
	return rate
}

// Resolver picks the rate for an account based on its settings.
type Resolver struct {
	cache *Cache
}

// NewResolver creates a resolver reading live rates through cache.
func NewResolver(cache *Cache) *Resolver {
	return &Resolver{cache: cache}
}

// Resolve returns a positive KHR per USD rate. It never fails.
// A fixed preference with a non-positive rate falls through to the live rate.
func (r *Resolver) Resolve(ctx context.Context, settings *models.AccountSettings) decimal.Decimal {
	if settings != nil && settings.RateMode == models.RateFixed && settings.FixedRate.IsPositive() {
		return settings.FixedRate
	}
	return r.cache.Rate(ctx)
}
