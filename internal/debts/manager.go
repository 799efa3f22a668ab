// Package debts is the debt engine: it opens, updates and cancels debts,
// allocates lump-sum repayments across them and builds the read models used
// for reporting. Every mutation commits the debt rows and the matching cash
// ledger transactions in one unit of work.
package debts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/debtbook/internal/calculator"
	"github.com/mmynk/debtbook/internal/metrics"
	"github.com/mmynk/debtbook/internal/models"
	"github.com/mmynk/debtbook/internal/storage"
)

// RateResolver returns a positive KHR per USD rate for an account's settings.
type RateResolver interface {
	Resolve(ctx context.Context, settings *models.AccountSettings) decimal.Decimal
}

// Config tunes the manager.
type Config struct {
	// MaxAttempts bounds how often a write that lost a version check is retried.
	MaxAttempts int

	// DefaultSettings applies to accounts without a stored rate preference.
	DefaultSettings models.AccountSettings

	// Now is the clock used for default timestamps and debt aging.
	Now func() time.Time
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		DefaultSettings: models.AccountSettings{RateMode: models.RateLive},
		Now:             time.Now,
	}
}

// Manager implements the debt lifecycle, repayment allocation and analysis.
type Manager struct {
	store storage.Store
	rates RateResolver
	cfg   Config
}

// NewManager creates a Manager over store, converting currencies with rates.
func NewManager(store storage.Store, rates RateResolver, cfg Config) *Manager {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{store: store, rates: rates, cfg: cfg}
}

// withRetry runs fn in a unit of work, starting over when a version check fails.
// fn must not keep state between calls.
func (m *Manager) withRetry(ctx context.Context, op string, fn func(tx storage.Tx) error) error {
	var err error
	for attempt := 1; attempt <= m.cfg.MaxAttempts; attempt++ {
		err = m.store.Atomic(ctx, fn)
		if !errors.Is(err, models.ErrConcurrencyConflict) {
			return err
		}
		metrics.WriteConflicts.WithLabelValues(op).Inc()
		slog.Warn("Debt write conflict", "operation", op, "attempt", attempt, "error", err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}

// settingsFor loads the account's rate preference, falling back to the configured default.
func (m *Manager) settingsFor(ctx context.Context, accountID string) (*models.AccountSettings, error) {
	settings, err := m.store.GetAccountSettings(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		s := m.cfg.DefaultSettings
		s.AccountID = accountID
		settings = &s
	}
	return settings, nil
}

// Rate resolves the KHR per USD rate that applies to the account right now.
func (m *Manager) Rate(ctx context.Context, accountID string) (decimal.Decimal, error) {
	settings, err := m.settingsFor(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return m.rates.Resolve(ctx, settings), nil
}

// timestampOr returns ts, or the manager's current time when ts is zero.
func (m *Manager) timestampOr(ts time.Time) time.Time {
	if ts.IsZero() {
		return m.cfg.Now()
	}
	return ts
}

func requireAccount(accountID string) error {
	if strings.TrimSpace(accountID) == "" {
		return fmt.Errorf("%w: account id required", models.ErrValidation)
	}
	return nil
}

func requirePerson(person string) error {
	if strings.TrimSpace(person) == "" {
		return fmt.Errorf("%w: person required", models.ErrValidation)
	}
	return nil
}

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", models.ErrValidation, amount)
	}
	return nil
}

// forAnalysis strips debts down to what the calculator needs.
func forAnalysis(debts []*models.Debt) []calculator.DebtForAnalysis {
	out := make([]calculator.DebtForAnalysis, len(debts))
	for i, d := range debts {
		out[i] = calculator.DebtForAnalysis{
			Person:    d.Person,
			PersonKey: d.PersonKey,
			Type:      d.Type,
			Currency:  d.Currency,
			Original:  d.OriginalAmount,
			Remaining: d.RemainingAmount,
			CreatedAt: d.CreatedAt,
		}
	}
	return out
}
