// Package calculator holds the pure money math behind debt settlement and reporting.
// Nothing here touches storage, so every function is safe to call concurrently.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/debtbook/internal/models"
)

// Balance is the minimal view of an open debt needed for allocation.
type Balance struct {
	DebtID    string
	Remaining decimal.Decimal
}

// Allocation is the principal applied to one debt.
type Allocation struct {
	DebtID  string
	Applied decimal.Decimal
}

// TotalRemaining sums the outstanding balance of every debt.
func TotalRemaining(balances []Balance) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Remaining)
	}
	return total
}

// SplitPayment divides a payment into principal and interest.
// Anything more than SettleTolerance above the outstanding total is interest.
func SplitPayment(amount, totalDebt decimal.Decimal) (principal, interest decimal.Decimal) {
	if amount.GreaterThan(totalDebt.Add(models.SettleTolerance)) {
		return totalDebt, amount.Sub(totalDebt)
	}
	return amount, decimal.Zero
}

// Allocate distributes principal across balances oldest first.
// balances must already be in FIFO order. Debts that receive nothing are omitted,
// so the result lists exactly the debts that need to be written back.
//
// Algorithm:
// - applied = min(budget, remaining) for each debt in order
// - budget -= applied
// - stop once the budget is spent or the debts run out
func Allocate(balances []Balance, principal decimal.Decimal) []Allocation {
	var allocations []Allocation
	budget := principal

	for _, b := range balances {
		if !budget.IsPositive() {
			break
		}
		if !b.Remaining.IsPositive() {
			continue
		}

		applied := decimal.Min(budget, b.Remaining)
		allocations = append(allocations, Allocation{DebtID: b.DebtID, Applied: applied})
		budget = budget.Sub(applied)
	}

	return allocations
}
