package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RateMode selects where the KHR per USD rate comes from.
type RateMode string

const (
	RateFixed RateMode = "fixed"
	RateLive  RateMode = "live"
)

// ParseRateMode accepts "fixed" or "live" in any case.
func ParseRateMode(s string) (RateMode, error) {
	m := RateMode(strings.ToLower(strings.TrimSpace(s)))
	if m != RateFixed && m != RateLive {
		return "", fmt.Errorf("%w: unsupported rate mode %q", ErrValidation, s)
	}
	return m, nil
}

// AccountSettings is the per-account exchange rate preference.
type AccountSettings struct {
	AccountID string
	RateMode  RateMode

	// FixedRate is used when RateMode is fixed and the value is positive.
	FixedRate decimal.Decimal
}
