// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/debtbook/internal/models"
)

// DebtFilter narrows a debt listing. Zero-valued fields are ignored,
// except AccountID which is always required.
type DebtFilter struct {
	AccountID string

	// Person is matched case-insensitively.
	Person   string
	Type     models.DebtType
	Currency models.Currency
	Status   models.DebtStatus
}

// DebtReader is the read side shared by the store and an open unit of work.
type DebtReader interface {
	// GetDebt retrieves a debt with its repayments.
	// Returns an error wrapping models.ErrNotFound if the debt does not exist for the account.
	GetDebt(ctx context.Context, accountID, debtID string) (*models.Debt, error)

	// ListDebts returns matching debts oldest first (FIFO order).
	ListDebts(ctx context.Context, filter DebtFilter) ([]*models.Debt, error)
}

// Tx is a unit of work. Every write made through it commits or rolls back together,
// which keeps debt state and the cash ledger in step.
type Tx interface {
	DebtReader

	// CreateDebt persists a new debt. ID and CreatedAt are filled in when empty.
	CreateDebt(ctx context.Context, debt *models.Debt) error

	// UpdateDebt writes back a debt read earlier in the same or a previous unit of work.
	// The write only succeeds if debt.Version still matches the stored row;
	// otherwise it returns an error wrapping models.ErrConcurrencyConflict.
	// On success debt.Version is incremented.
	UpdateDebt(ctx context.Context, debt *models.Debt) error

	// AppendRepayment adds one repayment row to a debt.
	AppendRepayment(ctx context.Context, debtID string, repayment models.Repayment) error

	// AppendTransaction writes a ledger transaction and returns its ID.
	AppendTransaction(ctx context.Context, txn *models.Transaction) (string, error)

	// GetTransaction retrieves a ledger transaction.
	GetTransaction(ctx context.Context, accountID, txnID string) (*models.Transaction, error)
}

// Store defines the interface for debt storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the debt engine.
type Store interface {
	DebtReader

	// Atomic runs fn inside a single database transaction.
	// If fn returns an error nothing it wrote is kept.
	Atomic(ctx context.Context, fn func(tx Tx) error) error

	// GetAccountSettings returns the stored rate preference, or nil if the
	// account has none.
	GetAccountSettings(ctx context.Context, accountID string) (*models.AccountSettings, error)

	// PutAccountSettings creates or replaces the account's rate preference.
	PutAccountSettings(ctx context.Context, settings *models.AccountSettings) error

	// Close releases any resources held by the store.
	Close() error
}
