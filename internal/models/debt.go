package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SettleTolerance is the remaining balance at or below which a debt counts as settled.
var SettleTolerance = decimal.New(1, -3)

// DebtType says who owes whom.
type DebtType string

const (
	// Lent means the person owes the account holder.
	Lent DebtType = "lent"
	// Borrowed means the account holder owes the person.
	Borrowed DebtType = "borrowed"
)

// ParseDebtType accepts "lent" or "borrowed" in any case.
func ParseDebtType(s string) (DebtType, error) {
	t := DebtType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unsupported debt type %q", ErrValidation, s)
	}
	return t, nil
}

// Valid reports whether t is lent or borrowed.
func (t DebtType) Valid() bool {
	return t == Lent || t == Borrowed
}

// DebtStatus is the lifecycle state of a debt.
type DebtStatus string

const (
	StatusOpen     DebtStatus = "open"
	StatusSettled  DebtStatus = "settled"
	StatusCanceled DebtStatus = "canceled"
)

// Debt represents one loan between the account holder and a named person.
type Debt struct {
	// ID is the unique identifier for the debt (UUID format).
	ID string

	// AccountID scopes the debt to its owner.
	AccountID string

	Type DebtType

	// Person is the counterparty name in title case.
	Person string

	// PersonKey is the lowercase form of Person used for lookups and grouping.
	PersonKey string

	OriginalAmount  decimal.Decimal
	RemainingAmount decimal.Decimal
	Currency        Currency
	Status          DebtStatus
	Purpose         string

	// Repayments is append-only, oldest first.
	Repayments []Repayment

	// CreatedAt orders debts for FIFO settlement.
	CreatedAt time.Time

	// AssociatedTransactionID is the ledger entry written when the debt was opened.
	AssociatedTransactionID string

	// Version is bumped on every write and checked on update.
	Version int64
}

// Repayment is one principal amount applied to a debt.
type Repayment struct {
	Amount decimal.Decimal
	Date   time.Time
}

// NormalizePerson trims, collapses inner whitespace and title-cases a name.
func NormalizePerson(name string) string {
	return cases.Title(language.Und).String(strings.Join(strings.Fields(name), " "))
}

// PersonKey returns the case-insensitive lookup key for a name.
func PersonKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// SetPerson stores name in its normalized form together with its lookup key.
func (d *Debt) SetPerson(name string) {
	d.Person = NormalizePerson(name)
	d.PersonKey = PersonKey(name)
}

// Repaid sums every repayment applied so far.
func (d *Debt) Repaid() decimal.Decimal {
	total := decimal.Zero
	for _, r := range d.Repayments {
		total = total.Add(r.Amount)
	}
	return total
}

// ApplyRepayment reduces the remaining balance and records the repayment.
// The debt flips to settled once the remainder is within SettleTolerance.
func (d *Debt) ApplyRepayment(amount decimal.Decimal, at time.Time) error {
	if d.Status == StatusCanceled {
		return fmt.Errorf("%w: %s", ErrAlreadyCanceled, d.ID)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: repayment must be positive", ErrValidation)
	}
	if amount.GreaterThan(d.RemainingAmount.Add(SettleTolerance)) {
		return fmt.Errorf("%w: repayment %s exceeds remaining %s", ErrValidation, amount, d.RemainingAmount)
	}

	d.RemainingAmount = d.RemainingAmount.Sub(amount)
	if d.RemainingAmount.IsNegative() {
		d.RemainingAmount = decimal.Zero
	}
	d.Repayments = append(d.Repayments, Repayment{Amount: amount, Date: at})
	if d.RemainingAmount.LessThanOrEqual(SettleTolerance) {
		d.Status = StatusSettled
	}
	return nil
}

// Cancel moves the debt to its terminal state.
func (d *Debt) Cancel() error {
	if d.Status == StatusCanceled {
		return fmt.Errorf("%w: %s", ErrAlreadyCanceled, d.ID)
	}
	d.Status = StatusCanceled
	d.RemainingAmount = decimal.Zero
	return nil
}
