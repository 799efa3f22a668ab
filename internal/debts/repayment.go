package debts

import (
	"context"
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

// RepaymentRequest is a lump-sum payment received from or paid to a person.
type RepaymentRequest struct {
	Person   string
	Type     models.DebtType
	Currency models.Currency
	Amount   decimal.Decimal

	// Timestamp defaults to now.
	Timestamp time.Time
}

// RepaymentResult describes how a payment was applied.
type RepaymentResult struct {
	Message string

	// DebtCurrency is the currency of the debts the payment was applied to.
	DebtCurrency models.Currency

	// Principal is the part applied to balances, in DebtCurrency.
	Principal decimal.Decimal

	// Interest is the overpayment beyond every open balance, in DebtCurrency.
	Interest decimal.Decimal

	// Rate is set when the payment had to be converted.
	Rate *decimal.Decimal

	Allocations []calculator.Allocation
	Settled     int

	// TransactionIDs holds the raw payment entry and, when interest was charged, the interest entry.
	TransactionIDs []string
}

// Converted reports whether the payment crossed currencies.
func (r *RepaymentResult) Converted() bool {
	return r.Rate != nil
}

// repaymentTransactions builds the cash ledger entries for a repayment. The raw
// payment is booked in the currency it was actually made in.
func repaymentTransactions(accountID string, req RepaymentRequest, person string, res *RepaymentResult, at time.Time) []*models.Transaction {
	payment := &models.Transaction{
		AccountID:          accountID,
		Amount:             req.Amount,
		Currency:           req.Currency,
		AccountName:        req.Currency.AccountName(),
		Timestamp:          at,
		ExchangeRateAtTime: res.Rate,
	}
	if req.Type == models.Lent {
		payment.Type = models.Income
		payment.Category = models.CategoryDebtSettled
		payment.Description = "Repayment from " + person
	} else {
		payment.Type = models.Expense
		payment.Category = models.CategoryDebtRepayment
		payment.Description = "Repayment to " + person
	}

	txns := []*models.Transaction{payment}
	if !res.Interest.IsPositive() {
		return txns
	}

	interest := &models.Transaction{
		AccountID:   accountID,
		Amount:      res.Interest,
		Currency:    res.DebtCurrency,
		AccountName: res.DebtCurrency.AccountName(),
		Timestamp:   at,
	}
	if req.Type == models.Lent {
		interest.Type = models.Income
		interest.Category = models.CategoryLoanInterest
		interest.Description = "Interest from " + person
	} else {
		interest.Type = models.Expense
		interest.Category = models.CategoryInterestExpense
		interest.Description = "Interest paid to " + person
	}
	return append(txns, interest)
}

// openDebtsFor finds the open debts a payment applies to. When none exist in the
// payment currency the other currency is tried.
func openDebtsFor(ctx context.Context, tx storage.Tx, accountID string, req RepaymentRequest) ([]*models.Debt, models.Currency, error) {
	for _, currency := range []models.Currency{req.Currency, req.Currency.Other()} {
		open, err := tx.ListDebts(ctx, storage.DebtFilter{
			AccountID: accountID,
			Person:    req.Person,
			Type:      req.Type,
			Currency:  currency,
			Status:    models.StatusOpen,
		})
		if err != nil {
			return nil, "", err
		}
		if len(open) > 0 {
			return open, currency, nil
		}
	}
	return nil, "", fmt.Errorf("%w: no open %s debts with %s", models.ErrNotFound, req.Type, models.NormalizePerson(req.Person))
}

// RecordRepayment applies a lump-sum payment to a person's open debts, oldest
// first. A payment in a currency the person has no open debts in is converted
// at the account's rate. Anything left after every balance is cleared is
// recorded as interest. Debt updates and ledger entries commit together and
// the whole allocation starts over if a debt changed underneath it.
func (m *Manager) RecordRepayment(ctx context.Context, accountID string, req RepaymentRequest) (*RepaymentResult, error) {
	if err := requireAccount(accountID); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unsupported debt type %q", models.ErrValidation, req.Type)
	}
	if !req.Currency.Valid() {
		return nil, fmt.Errorf("%w: unsupported currency %q", models.ErrValidation, req.Currency)
	}
	if err := requirePerson(req.Person); err != nil {
		return nil, err
	}
	if err := requirePositive(req.Amount); err != nil {
		return nil, err
	}

	rate, err := m.Rate(ctx, accountID)
	if err != nil {
		return nil, err
	}
	at := m.timestampOr(req.Timestamp)

	var result *RepaymentResult
	err = m.withRetry(ctx, "repayment", func(tx storage.Tx) error {
		open, debtCurrency, err := openDebtsFor(ctx, tx, accountID, req)
		if err != nil {
			return err
		}

		res := &RepaymentResult{DebtCurrency: debtCurrency}
		amount := req.Amount
		if debtCurrency != req.Currency {
			amount = models.Convert(req.Amount, req.Currency, debtCurrency, rate)
			r := rate
			res.Rate = &r
		}

		balances := make([]calculator.Balance, len(open))
		byID := make(map[string]*models.Debt, len(open))
		for i, d := range open {
			balances[i] = calculator.Balance{DebtID: d.ID, Remaining: d.RemainingAmount}
			byID[d.ID] = d
		}

		res.Principal, res.Interest = calculator.SplitPayment(amount, calculator.TotalRemaining(balances))
		res.Allocations = calculator.Allocate(balances, res.Principal)

		for _, a := range res.Allocations {
			debt := byID[a.DebtID]
			if err := debt.ApplyRepayment(a.Applied, at); err != nil {
				return err
			}
			if err := tx.UpdateDebt(ctx, debt); err != nil {
				return err
			}
			if err := tx.AppendRepayment(ctx, debt.ID, debt.Repayments[len(debt.Repayments)-1]); err != nil {
				return err
			}
			if debt.Status == models.StatusSettled {
				res.Settled++
			}
		}

		person := open[0].Person
		for _, txn := range repaymentTransactions(accountID, req, person, res, at) {
			id, err := tx.AppendTransaction(ctx, txn)
			if err != nil {
				return err
			}
			res.TransactionIDs = append(res.TransactionIDs, id)
		}

		res.Message = repaymentMessage(req, person, res)
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RepaymentsRecorded.WithLabelValues(string(req.Type), fmt.Sprint(result.Converted())).Inc()
	metrics.DebtsSettled.Add(float64(result.Settled))
	if result.Interest.IsPositive() {
		metrics.InterestRecorded.WithLabelValues(string(result.DebtCurrency)).Inc()
	}
	slog.Info("Repayment recorded",
		"account_id", accountID,
		"person", models.NormalizePerson(req.Person),
		"type", req.Type,
		"amount", req.Amount,
		"currency", req.Currency,
		"debt_currency", result.DebtCurrency,
		"debts", len(result.Allocations),
		"settled", result.Settled,
		"interest", result.Interest,
	)
	return result, nil
}

func repaymentMessage(req RepaymentRequest, person string, res *RepaymentResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Applied %s %s to %d %s debt(s) with %s",
		res.Principal, res.DebtCurrency, len(res.Allocations), req.Type, person)
	if res.Rate != nil {
		fmt.Fprintf(&b, " (paid %s %s at %s KHR/USD)", req.Amount, req.Currency, res.Rate)
	}
	if res.Settled > 0 {
		fmt.Fprintf(&b, ", %d settled", res.Settled)
	}
	if res.Interest.IsPositive() {
		fmt.Fprintf(&b, "; recorded %s %s interest", res.Interest, res.DebtCurrency)
	}
	return b.String()
}
