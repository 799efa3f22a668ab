// Package debtrpc defines the debtbook.v1.DebtService wire contract: request
// and response messages, the JSON codec they travel in, and Connect handler
// and client constructors.
package debtrpc

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt is one debt as returned to clients.
type Debt struct {
	ID                      string          `json:"id"`
	Type                    string          `json:"type"`
	Person                  string          `json:"person"`
	OriginalAmount          decimal.Decimal `json:"original_amount"`
	RemainingAmount         decimal.Decimal `json:"remaining_amount"`
	Currency                string          `json:"currency"`
	Status                  string          `json:"status"`
	Purpose                 string          `json:"purpose,omitempty"`
	Repayments              []Repayment     `json:"repayments,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	AssociatedTransactionID string          `json:"associated_transaction_id,omitempty"`
}

type Repayment struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// DebtGroup summarizes the debts of one person, type and currency.
type DebtGroup struct {
	Person         string          `json:"person"`
	Type           string          `json:"type"`
	Currency       string          `json:"currency"`
	Count          int             `json:"count"`
	TotalOriginal  decimal.Decimal `json:"total_original"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
}

type AddDebtRequest struct {
	Type      string          `json:"type"`
	Person    string          `json:"person"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Purpose   string          `json:"purpose,omitempty"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
}

type AddDebtResponse struct {
	DebtID        string `json:"debt_id"`
	TransactionID string `json:"transaction_id"`
}

type CancelDebtRequest struct {
	DebtID string `json:"debt_id"`
}

type CancelDebtResponse struct {
	Message string `json:"message"`
}

// UpdateDebtRequest changes only the fields that are set.
type UpdateDebtRequest struct {
	DebtID  string  `json:"debt_id"`
	Person  *string `json:"person,omitempty"`
	Purpose *string `json:"purpose,omitempty"`
}

type UpdateDebtResponse struct {
	Message string `json:"message"`
}

type RecordRepaymentRequest struct {
	Person    string          `json:"person"`
	Type      string          `json:"type"`
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
}

type RecordRepaymentResponse struct {
	Message      string           `json:"message"`
	DebtCurrency string           `json:"debt_currency"`
	Principal    decimal.Decimal  `json:"principal"`
	Interest     decimal.Decimal  `json:"interest"`
	Rate         *decimal.Decimal `json:"rate,omitempty"`
	Settled      int              `json:"settled"`
}

type GetOpenDebtsGroupedRequest struct{}

type GetSettledDebtsGroupedRequest struct{}

type GetDebtsGroupedResponse struct {
	Groups []DebtGroup `json:"groups"`
}

type GetDebtDetailsRequest struct {
	DebtID string `json:"debt_id"`
}

type GetDebtDetailsResponse struct {
	Debt Debt `json:"debt"`
}

// GetDebtsByPersonRequest filters by status when Status is set.
type GetDebtsByPersonRequest struct {
	Person string `json:"person"`
	Status string `json:"status,omitempty"`
}

type GetDebtsByPersonAndCurrencyRequest struct {
	Person   string `json:"person"`
	Currency string `json:"currency"`
	Status   string `json:"status,omitempty"`
}

type GetDebtsResponse struct {
	Debts []Debt `json:"debts"`
}

type GetDebtAnalysisRequest struct{}

type PersonConcentration struct {
	Person   string          `json:"person"`
	Type     string          `json:"type"`
	TotalUSD decimal.Decimal `json:"total_usd"`
}

type PersonAging struct {
	Person         string  `json:"person"`
	AverageAgeDays float64 `json:"average_age_days"`
	Count          int     `json:"count"`
}

type GetDebtAnalysisResponse struct {
	Concentration    []PersonConcentration `json:"concentration"`
	Aging            []PersonAging         `json:"aging"`
	TotalLentUSD     decimal.Decimal       `json:"total_lent_usd"`
	TotalBorrowedUSD decimal.Decimal       `json:"total_borrowed_usd"`
	Rate             decimal.Decimal       `json:"rate"`
}

type GetAccountSettingsRequest struct{}

type AccountSettings struct {
	RateMode  string          `json:"rate_mode"`
	FixedRate decimal.Decimal `json:"fixed_rate"`
}

type GetAccountSettingsResponse struct {
	Settings AccountSettings `json:"settings"`
	Rate     decimal.Decimal `json:"rate"`
}

type UpdateAccountSettingsRequest struct {
	Settings AccountSettings `json:"settings"`
}

type UpdateAccountSettingsResponse struct{}

func (r *AddDebtRequest) GetPerson() string                     { return r.Person }
func (r *RecordRepaymentRequest) GetPerson() string             { return r.Person }
func (r *GetDebtsByPersonRequest) GetPerson() string            { return r.Person }
func (r *GetDebtsByPersonAndCurrencyRequest) GetPerson() string { return r.Person }

func (r *CancelDebtRequest) GetDebtID() string     { return r.DebtID }
func (r *UpdateDebtRequest) GetDebtID() string     { return r.DebtID }
func (r *GetDebtDetailsRequest) GetDebtID() string { return r.DebtID }
