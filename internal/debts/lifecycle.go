package debts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/debtbook/internal/metrics"
	"github.com/mmynk/debtbook/internal/models"
	"github.com/mmynk/debtbook/internal/storage"
)

// NewDebt describes a debt to open.
type NewDebt struct {
	Type     models.DebtType
	Person   string
	Amount   decimal.Decimal
	Currency models.Currency
	Purpose  string

	// Timestamp defaults to now.
	Timestamp time.Time
}

// DebtPatch lists the metadata fields to change. Nil fields are left alone.
type DebtPatch struct {
	Person  *string
	Purpose *string
}

// loanDescription is the ledger description for opening a debt.
func loanDescription(typ models.DebtType, person, purpose string) string {
	var desc string
	if typ == models.Lent {
		desc = "Loan to " + person
	} else {
		desc = "Loan from " + person
	}
	if purpose != "" {
		desc += " (" + purpose + ")"
	}
	return desc
}

// openingTransaction builds the ledger entry that mirrors a new debt.
// Lending money is an expense; borrowing it is income.
func openingTransaction(d *models.Debt) *models.Transaction {
	txn := &models.Transaction{
		AccountID:   d.AccountID,
		Type:        models.Income,
		Amount:      d.OriginalAmount,
		Currency:    d.Currency,
		Category:    models.CategoryLoanReceived,
		AccountName: d.Currency.AccountName(),
		Description: loanDescription(d.Type, d.Person, d.Purpose),
		Timestamp:   d.CreatedAt,
	}
	if d.Type == models.Lent {
		txn.Type = models.Expense
		txn.Category = models.CategoryLoanLent
	}
	return txn
}

// AddDebt opens a debt and writes its ledger transaction.
// It returns the new debt ID and the ID of the linked transaction.
func (m *Manager) AddDebt(ctx context.Context, accountID string, in NewDebt) (string, string, error) {
	if err := requireAccount(accountID); err != nil {
		return "", "", err
	}
	if !in.Type.Valid() {
		return "", "", fmt.Errorf("%w: unsupported debt type %q", models.ErrValidation, in.Type)
	}
	if !in.Currency.Valid() {
		return "", "", fmt.Errorf("%w: unsupported currency %q", models.ErrValidation, in.Currency)
	}
	if err := requirePerson(in.Person); err != nil {
		return "", "", err
	}
	if err := requirePositive(in.Amount); err != nil {
		return "", "", err
	}
	if in.Amount.LessThanOrEqual(models.SettleTolerance) {
		return "", "", fmt.Errorf("%w: amount %s is within the settle tolerance", models.ErrValidation, in.Amount)
	}

	debt := &models.Debt{
		AccountID:       accountID,
		Type:            in.Type,
		OriginalAmount:  in.Amount,
		RemainingAmount: in.Amount,
		Currency:        in.Currency,
		Status:          models.StatusOpen,
		Purpose:         in.Purpose,
		CreatedAt:       m.timestampOr(in.Timestamp),
	}
	debt.SetPerson(in.Person)

	err := m.store.Atomic(ctx, func(tx storage.Tx) error {
		txnID, err := tx.AppendTransaction(ctx, openingTransaction(debt))
		if err != nil {
			return err
		}
		debt.AssociatedTransactionID = txnID
		return tx.CreateDebt(ctx, debt)
	})
	if err != nil {
		return "", "", err
	}

	metrics.DebtsCreated.WithLabelValues(string(debt.Type), string(debt.Currency)).Inc()
	slog.Info("Debt added",
		"account_id", accountID,
		"debt_id", debt.ID,
		"type", debt.Type,
		"person", debt.Person,
		"amount", debt.OriginalAmount,
		"currency", debt.Currency,
	)
	return debt.ID, debt.AssociatedTransactionID, nil
}

// CancelDebt moves a debt to its terminal canceled state and writes a reversal
// of the transaction that opened it. Repayment transactions already booked
// against the debt are left in the ledger.
func (m *Manager) CancelDebt(ctx context.Context, accountID, debtID string) (string, error) {
	if err := requireAccount(accountID); err != nil {
		return "", err
	}

	var canceled models.Debt
	err := m.withRetry(ctx, "cancel", func(tx storage.Tx) error {
		debt, err := tx.GetDebt(ctx, accountID, debtID)
		if err != nil {
			return err
		}
		if debt.Status == models.StatusCanceled {
			return fmt.Errorf("%w: %s", models.ErrAlreadyCanceled, debtID)
		}

		original, err := tx.GetTransaction(ctx, accountID, debt.AssociatedTransactionID)
		if errors.Is(err, models.ErrNotFound) {
			// Rebuild the opening entry from the debt itself.
			original = openingTransaction(debt)
		} else if err != nil {
			return err
		}

		reversal := &models.Transaction{
			AccountID:   accountID,
			Type:        original.Type.Invert(),
			Amount:      original.Amount,
			Currency:    original.Currency,
			Category:    models.CategoryCanceledDebt,
			AccountName: original.AccountName,
			Description: "Reversal: " + original.Description,
			Timestamp:   m.cfg.Now(),
		}
		if _, err := tx.AppendTransaction(ctx, reversal); err != nil {
			return err
		}

		if err := debt.Cancel(); err != nil {
			return err
		}
		if err := tx.UpdateDebt(ctx, debt); err != nil {
			return err
		}
		canceled = *debt
		return nil
	})
	if err != nil {
		return "", err
	}

	metrics.DebtsCanceled.WithLabelValues(string(canceled.Type)).Inc()
	slog.Info("Debt canceled", "account_id", accountID, "debt_id", debtID, "person", canceled.Person)
	return fmt.Sprintf("Canceled %s debt with %s for %s %s",
		canceled.Type, canceled.Person, canceled.OriginalAmount, canceled.Currency), nil
}

// UpdateDebt changes a debt's person and/or purpose. No other field can be
// changed through this path.
func (m *Manager) UpdateDebt(ctx context.Context, accountID, debtID string, patch DebtPatch) (string, error) {
	if err := requireAccount(accountID); err != nil {
		return "", err
	}
	if patch.Person == nil && patch.Purpose == nil {
		return "", fmt.Errorf("%w: nothing to update", models.ErrValidation)
	}
	if patch.Person != nil {
		if err := requirePerson(*patch.Person); err != nil {
			return "", err
		}
	}

	err := m.withRetry(ctx, "update", func(tx storage.Tx) error {
		debt, err := tx.GetDebt(ctx, accountID, debtID)
		if err != nil {
			return err
		}
		if patch.Person != nil {
			debt.SetPerson(*patch.Person)
		}
		if patch.Purpose != nil {
			debt.Purpose = *patch.Purpose
		}
		return tx.UpdateDebt(ctx, debt)
	})
	if err != nil {
		return "", err
	}

	slog.Info("Debt updated", "account_id", accountID, "debt_id", debtID)
	return fmt.Sprintf("Debt %s updated", debtID), nil
}
