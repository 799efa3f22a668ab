package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is one of the two currencies an account can hold debts in.
type Currency string

const (
	USD Currency = "USD"
	KHR Currency = "KHR"
)

// ParseCurrency accepts a currency code in any case.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unsupported currency %q", ErrValidation, s)
	}
	return c, nil
}

// Valid reports whether c is USD or KHR.
func (c Currency) Valid() bool {
	return c == USD || c == KHR
}

// Other returns the second supported currency.
func (c Currency) Other() Currency {
	if c == USD {
		return KHR
	}
	return USD
}

// AccountName is the cash account a ledger transaction in c is booked against.
func (c Currency) AccountName() string {
	return string(c) + " Account"
}

// Convert moves amount from one currency to another.
// rate is always expressed as KHR per USD.
func Convert(amount decimal.Decimal, from, to Currency, rate decimal.Decimal) decimal.Decimal {
	switch {
	case from == to:
		return amount
	case from == USD && to == KHR:
		return amount.Mul(rate)
	case from == KHR && to == USD:
		return amount.Div(rate)
	}
	return amount
}

// ToUSD converts amount held in c into US dollars.
func ToUSD(amount decimal.Decimal, c Currency, rate decimal.Decimal) decimal.Decimal {
	return Convert(amount, c, USD, rate)
}
