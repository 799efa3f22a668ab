package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a cash-ledger entry.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Invert swaps income and expense.
func (t TransactionType) Invert() TransactionType {
	if t == Income {
		return Expense
	}
	return Income
}

// Ledger categories written by the debt engine.
const (
	CategoryLoanLent        = "Loan Lent"
	CategoryLoanReceived    = "Loan Received"
	CategoryDebtSettled     = "Debt Settled"
	CategoryDebtRepayment   = "Debt Repayment"
	CategoryLoanInterest    = "Loan Interest"
	CategoryInterestExpense = "Interest Expense"
	CategoryCanceledDebt    = "Canceled Debt"
)

// Transaction is an append-only cash-ledger entry.
// The debt engine creates them but never changes one after it is written.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// AccountID scopes the transaction to its owner.
	AccountID string

	Type     TransactionType
	Amount   decimal.Decimal
	Currency Currency

	// Category is a ledger category name such as "Loan Lent".
	Category string

	// AccountName is the cash account, e.g. "USD Account".
	AccountName string

	Description string
	Timestamp   time.Time

	// ExchangeRateAtTime is set when the amount was converted between currencies.
	ExchangeRateAtTime *decimal.Decimal
}
