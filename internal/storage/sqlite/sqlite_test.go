package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/debtbook/internal/models"
	"github.com/mmynk/debtbook/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "debtbook-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newDebt(account, person string, typ models.DebtType, amount string, currency models.Currency, createdAt time.Time) *models.Debt {
	a := decimal.RequireFromString(amount)
	d := &models.Debt{
		AccountID:       account,
		Type:            typ,
		OriginalAmount:  a,
		RemainingAmount: a,
		Currency:        currency,
		Status:          models.StatusOpen,
		CreatedAt:       createdAt,
	}
	d.SetPerson(person)
	return d
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("CreateDebt generates ID and version", func(t *testing.T) {
		debt := newDebt("acct-1", "alice", models.Lent, "5", models.USD, time.Time{})
		err := store.Atomic(ctx, func(tx storage.Tx) error {
			return tx.CreateDebt(ctx, debt)
		})
		if err != nil {
			t.Fatalf("CreateDebt failed: %v", err)
		}

		if debt.ID == "" {
			t.Error("Expected debt ID to be generated")
		}
		if debt.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}
		if debt.Version != 1 {
			t.Errorf("Version = %d, want 1", debt.Version)
		}
	})

	t.Run("GetDebt round trips every field", func(t *testing.T) {
		original := newDebt("acct-1", "  bob  smith ", models.Borrowed, "41000", models.KHR, base)
		original.Purpose = "rent"
		original.AssociatedTransactionID = "txn-1"

		err := store.Atomic(ctx, func(tx storage.Tx) error {
			return tx.CreateDebt(ctx, original)
		})
		if err != nil {
			t.Fatalf("CreateDebt failed: %v", err)
		}

		got, err := store.GetDebt(ctx, "acct-1", original.ID)
		if err != nil {
			t.Fatalf("GetDebt failed: %v", err)
		}
		if got.Person != "Bob Smith" {
			t.Errorf("Person = %q, want %q", got.Person, "Bob Smith")
		}
		if got.PersonKey != "bob smith" {
			t.Errorf("PersonKey = %q, want %q", got.PersonKey, "bob smith")
		}
		if !got.OriginalAmount.Equal(original.OriginalAmount) {
			t.Errorf("OriginalAmount = %s, want %s", got.OriginalAmount, original.OriginalAmount)
		}
		if got.Currency != models.KHR || got.Type != models.Borrowed || got.Status != models.StatusOpen {
			t.Errorf("unexpected enums: %s %s %s", got.Currency, got.Type, got.Status)
		}
		if got.Purpose != "rent" || got.AssociatedTransactionID != "txn-1" {
			t.Errorf("unexpected metadata: %q %q", got.Purpose, got.AssociatedTransactionID)
		}
		if !got.CreatedAt.Equal(base) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, base)
		}
	})

	t.Run("GetDebt is scoped to the account", func(t *testing.T) {
		debt := newDebt("acct-2", "carol", models.Lent, "1", models.USD, base)
		if err := store.Atomic(ctx, func(tx storage.Tx) error { return tx.CreateDebt(ctx, debt) }); err != nil {
			t.Fatalf("CreateDebt failed: %v", err)
		}

		_, err := store.GetDebt(ctx, "acct-1", debt.ID)
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound for foreign account, got %v", err)
		}
	})

	t.Run("GetDebt returns error for nonexistent debt", func(t *testing.T) {
		_, err := store.GetDebt(ctx, "acct-1", "nonexistent-id")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListDebts filters case-insensitively in FIFO order", func(t *testing.T) {
		later := newDebt("acct-3", "Dave", models.Lent, "20", models.USD, base.Add(time.Hour))
		earlier := newDebt("acct-3", "DAVE", models.Lent, "10", models.USD, base)
		other := newDebt("acct-3", "dave", models.Lent, "30", models.KHR, base)
		err := store.Atomic(ctx, func(tx storage.Tx) error {
			for _, d := range []*models.Debt{later, earlier, other} {
				if err := tx.CreateDebt(ctx, d); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("CreateDebt failed: %v", err)
		}

		debts, err := store.ListDebts(ctx, storage.DebtFilter{
			AccountID: "acct-3",
			Person:    "dAvE",
			Type:      models.Lent,
			Currency:  models.USD,
			Status:    models.StatusOpen,
		})
		if err != nil {
			t.Fatalf("ListDebts failed: %v", err)
		}
		if len(debts) != 2 {
			t.Fatalf("expected 2 debts, got %d", len(debts))
		}
		if debts[0].ID != earlier.ID || debts[1].ID != later.ID {
			t.Errorf("debts not in FIFO order: %s, %s", debts[0].ID, debts[1].ID)
		}
	})

	t.Run("ListDebts requires an account", func(t *testing.T) {
		_, err := store.ListDebts(ctx, storage.DebtFilter{})
		if !errors.Is(err, models.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("UpdateDebt applies repayments and bumps version", func(t *testing.T) {
		debt := newDebt("acct-4", "erin", models.Lent, "10", models.USD, base)
		if err := store.Atomic(ctx, func(tx storage.Tx) error { return tx.CreateDebt(ctx, debt) }); err != nil {
			t.Fatalf("CreateDebt failed: %v", err)
		}

		paidAt := base.Add(24 * time.Hour)
		err := store.Atomic(ctx, func(tx storage.Tx) error {
			amount := decimal.RequireFromString("4")
			if err := debt.ApplyRepayment(amount, paidAt); err != nil {
				return err
			}
			if err := tx.UpdateDebt(ctx, debt); err != nil {
				return err
			}
			return tx.AppendRepayment(ctx, debt.ID, models.Repayment{Amount: amount, Date: paidAt})
		})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if debt.Version != 2 {
			t.Errorf("Version = %d, want 2", debt.Version)
		}

		got, err := store.GetDebt(ctx, "acct-4", debt.ID)
		if err != nil {
			t.Fatalf("GetDebt failed: %v", err)
		}
		if !got.RemainingAmount.Equal(decimal.RequireFromString("6")) {
			t.Errorf("RemainingAmount = %s, want 6", got.RemainingAmount)
		}
		if len(got.Repayments) != 1 || !got.Repayments[0].Date.Equal(paidAt) {
			t.Errorf("unexpected repayments: %+v", got.Repayments)
		}
	})

	t.Run("UpdateDebt with stale version conflicts", func(t *testing.T) {
		debt := newDebt("acct-5", "frank", models.Lent, "10", models.USD, base)
		if err := store.Atomic(ctx, func(tx storage.Tx) error { return tx.CreateDebt(ctx, debt) }); err != nil {
			t.Fatalf("CreateDebt failed: %v", err)
		}

		stale := *debt
		if err := store.Atomic(ctx, func(tx storage.Tx) error { return tx.UpdateDebt(ctx, debt) }); err != nil {
			t.Fatalf("first update failed: %v", err)
		}

		err := store.Atomic(ctx, func(tx storage.Tx) error { return tx.UpdateDebt(ctx, &stale) })
		if !errors.Is(err, models.ErrConcurrencyConflict) {
			t.Errorf("expected ErrConcurrencyConflict, got %v", err)
		}
	})

	t.Run("Atomic rolls back on error", func(t *testing.T) {
		debt := newDebt("acct-6", "gina", models.Lent, "10", models.USD, base)
		boom := errors.New("boom")
		err := store.Atomic(ctx, func(tx storage.Tx) error {
			if err := tx.CreateDebt(ctx, debt); err != nil {
				return err
			}
			if _, err := tx.AppendTransaction(ctx, &models.Transaction{
				AccountID: "acct-6", Type: models.Expense, Amount: debt.OriginalAmount,
				Currency: models.USD, Category: models.CategoryLoanLent,
				AccountName: models.USD.AccountName(), Description: "Loan to Gina",
			}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}

		if _, err := store.GetDebt(ctx, "acct-6", debt.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("debt should not exist after rollback, got %v", err)
		}
		txns, err := store.ListTransactions(ctx, "acct-6")
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txns) != 0 {
			t.Errorf("expected no transactions after rollback, got %d", len(txns))
		}
	})

	t.Run("Transactions round trip with exchange rate", func(t *testing.T) {
		rate := decimal.RequireFromString("4100")
		var id string
		err := store.Atomic(ctx, func(tx storage.Tx) error {
			var err error
			id, err = tx.AppendTransaction(ctx, &models.Transaction{
				AccountID: "acct-7", Type: models.Income, Amount: decimal.RequireFromString("10"),
				Currency: models.USD, Category: models.CategoryDebtSettled,
				AccountName: models.USD.AccountName(), Description: "Repayment from Hank",
				ExchangeRateAtTime: &rate,
			})
			return err
		})
		if err != nil {
			t.Fatalf("AppendTransaction failed: %v", err)
		}

		var got *models.Transaction
		err = store.Atomic(ctx, func(tx storage.Tx) error {
			var err error
			got, err = tx.GetTransaction(ctx, "acct-7", id)
			return err
		})
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if got.ExchangeRateAtTime == nil || !got.ExchangeRateAtTime.Equal(rate) {
			t.Errorf("ExchangeRateAtTime = %v, want %s", got.ExchangeRateAtTime, rate)
		}
		if got.Type != models.Income || got.AccountName != "USD Account" {
			t.Errorf("unexpected transaction: %+v", got)
		}
	})
}

func TestAccountSettings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	got, err := store.GetAccountSettings(ctx, "acct-1")
	if err != nil {
		t.Fatalf("GetAccountSettings failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil settings for unknown account, got %+v", got)
	}

	for _, s := range []*models.AccountSettings{
		{AccountID: "acct-1", RateMode: models.RateFixed, FixedRate: decimal.RequireFromString("4000")},
		{AccountID: "acct-1", RateMode: models.RateLive, FixedRate: decimal.Zero},
	} {
		if err := store.PutAccountSettings(ctx, s); err != nil {
			t.Fatalf("PutAccountSettings failed: %v", err)
		}
		got, err := store.GetAccountSettings(ctx, "acct-1")
		if err != nil {
			t.Fatalf("GetAccountSettings failed: %v", err)
		}
		if got.RateMode != s.RateMode || !got.FixedRate.Equal(s.FixedRate) {
			t.Errorf("settings = %+v, want %+v", got, s)
		}
	}
}

func TestRepeatPlaceholder(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{-1, ""},
		{1, ", ?"},
		{3, ", ?, ?, ?"},
	}

	for _, tt := range tests {
		if got := repeatPlaceholder(tt.n); got != tt.want {
			t.Errorf("repeatPlaceholder(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
