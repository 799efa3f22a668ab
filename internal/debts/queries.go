package debts

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmynk/debtbook/internal/calculator"
	"github.com/mmynk/debtbook/internal/models"
	"github.com/mmynk/debtbook/internal/storage"
)

// Analysis combines the reporting views over an account's open debts.
type Analysis struct {
	Concentration []calculator.PersonConcentration
	Aging         []calculator.PersonAging
	Overview      calculator.Overview

	// Rate is the KHR per USD rate used for the USD totals.
	Rate decimal.Decimal
}

func (m *Manager) grouped(ctx context.Context, accountID string, status models.DebtStatus) ([]calculator.DebtGroup, error) {
	if err := requireAccount(accountID); err != nil {
		return nil, err
	}
	list, err := m.store.ListDebts(ctx, storage.DebtFilter{AccountID: accountID, Status: status})
	if err != nil {
		return nil, err
	}
	return calculator.GroupDebts(forAnalysis(list)), nil
}

// GetOpenDebtsGrouped summarizes open debts per person, type and currency.
func (m *Manager) GetOpenDebtsGrouped(ctx context.Context, accountID string) ([]calculator.DebtGroup, error) {
	return m.grouped(ctx, accountID, models.StatusOpen)
}

// GetSettledDebtsGrouped summarizes settled debts per person, type and currency.
func (m *Manager) GetSettledDebtsGrouped(ctx context.Context, accountID string) ([]calculator.DebtGroup, error) {
	return m.grouped(ctx, accountID, models.StatusSettled)
}

// GetDebtDetails returns one debt with its repayment history.
func (m *Manager) GetDebtDetails(ctx context.Context, accountID, debtID string) (*models.Debt, error) {
	if err := requireAccount(accountID); err != nil {
		return nil, err
	}
	return m.store.GetDebt(ctx, accountID, debtID)
}

// GetDebtsByPerson lists a person's debts oldest first. An empty status matches every status.
func (m *Manager) GetDebtsByPerson(ctx context.Context, accountID, person string, status models.DebtStatus) ([]*models.Debt, error) {
	return m.GetDebtsByPersonAndCurrency(ctx, accountID, person, "", status)
}

// GetDebtsByPersonAndCurrency lists a person's debts in one currency oldest first.
// An empty currency or status matches everything.
func (m *Manager) GetDebtsByPersonAndCurrency(ctx context.Context, accountID, person string, currency models.Currency, status models.DebtStatus) ([]*models.Debt, error) {
	if err := requireAccount(accountID); err != nil {
		return nil, err
	}
	if err := requirePerson(person); err != nil {
		return nil, err
	}
	return m.store.ListDebts(ctx, storage.DebtFilter{
		AccountID: accountID,
		Person:    person,
		Currency:  currency,
		Status:    status,
	})
}

// GetDebtAnalysis builds concentration, aging and the USD overview from one
// read of the account's open debts.
func (m *Manager) GetDebtAnalysis(ctx context.Context, accountID string) (*Analysis, error) {
	if err := requireAccount(accountID); err != nil {
		return nil, err
	}
	rate, err := m.Rate(ctx, accountID)
	if err != nil {
		return nil, err
	}
	open, err := m.store.ListDebts(ctx, storage.DebtFilter{AccountID: accountID, Status: models.StatusOpen})
	if err != nil {
		return nil, err
	}

	items := forAnalysis(open)
	return &Analysis{
		Concentration: calculator.Concentration(items, rate),
		Aging:         calculator.Aging(items, m.cfg.Now()),
		Overview:      calculator.ComputeOverview(items, rate),
		Rate:          rate,
	}, nil
}

// GetAccountSettings returns the account's rate preference, or the default when none is stored.
func (m *Manager) GetAccountSettings(ctx context.Context, accountID string) (*models.AccountSettings, error) {
	if err := requireAccount(accountID); err != nil {
		return nil, err
	}
	return m.settingsFor(ctx, accountID)
}

// SetAccountSettings stores the account's rate preference.
func (m *Manager) SetAccountSettings(ctx context.Context, settings *models.AccountSettings) error {
	if err := requireAccount(settings.AccountID); err != nil {
		return err
	}
	mode, err := models.ParseRateMode(string(settings.RateMode))
	if err != nil {
		return err
	}
	settings.RateMode = mode
	if mode == models.RateFixed {
		if err := requirePositive(settings.FixedRate); err != nil {
			return err
		}
	}
	return m.store.PutAccountSettings(ctx, settings)
}
