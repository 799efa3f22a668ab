package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/debtbook/internal/models"
)

// DebtForAnalysis represents a debt with the minimal information needed for reporting.
type DebtForAnalysis struct {
	Person    string
	PersonKey string
	Type      models.DebtType
	Currency  models.Currency
	Original  decimal.Decimal
	Remaining decimal.Decimal
	CreatedAt time.Time
}

// PersonConcentration is the outstanding total owed between the account and one person.
type PersonConcentration struct {
	Person string
	Type   models.DebtType
	Total  decimal.Decimal // USD
}

// PersonAging is the average age of one person's open debts.
type PersonAging struct {
	Person         string
	AverageAgeDays float64
	Count          int
}

// Overview is the account's open exposure in US dollars.
type Overview struct {
	TotalLentUSD     decimal.Decimal
	TotalBorrowedUSD decimal.Decimal
}

// DebtGroup aggregates the debts of one person, type and currency.
type DebtGroup struct {
	Person         string
	Type           models.DebtType
	Currency       models.Currency
	Count          int
	TotalOriginal  decimal.Decimal
	TotalRemaining decimal.Decimal
}

// Concentration groups debts by person (case-insensitive) and type and sums what
// is still outstanding. Totals are normalized to USD with rate so that USD and KHR
// debts to the same person add up. Largest exposure first.
func Concentration(debts []DebtForAnalysis, rate decimal.Decimal) []PersonConcentration {
	type key struct {
		person string
		typ    models.DebtType
	}
	totals := make(map[key]*PersonConcentration)
	var order []key

	for _, d := range debts {
		k := key{person: d.PersonKey, typ: d.Type}
		c, exists := totals[k]
		if !exists {
			c = &PersonConcentration{Person: d.Person, Type: d.Type, Total: decimal.Zero}
			totals[k] = c
			order = append(order, k)
		}
		c.Total = c.Total.Add(models.ToUSD(d.Remaining, d.Currency, rate))
	}

	result := make([]PersonConcentration, 0, len(order))
	for _, k := range order {
		result = append(result, *totals[k])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total.GreaterThan(result[j].Total)
	})
	return result
}

// Aging groups debts by person (case-insensitive) and averages how many days
// they have been open as of now. Oldest first.
func Aging(debts []DebtForAnalysis, now time.Time) []PersonAging {
	type acc struct {
		person string
		days   float64
		count  int
	}
	groups := make(map[string]*acc)
	var order []string

	for _, d := range debts {
		g, exists := groups[d.PersonKey]
		if !exists {
			g = &acc{person: d.Person}
			groups[d.PersonKey] = g
			order = append(order, d.PersonKey)
		}
		g.days += now.Sub(d.CreatedAt).Hours() / 24
		g.count++
	}

	result := make([]PersonAging, 0, len(order))
	for _, k := range order {
		g := groups[k]
		result = append(result, PersonAging{
			Person:         g.person,
			AverageAgeDays: g.days / float64(g.count),
			Count:          g.count,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AverageAgeDays > result[j].AverageAgeDays
	})
	return result
}

// ComputeOverview converts every remaining balance to USD and sums by type.
func ComputeOverview(debts []DebtForAnalysis, rate decimal.Decimal) Overview {
	o := Overview{TotalLentUSD: decimal.Zero, TotalBorrowedUSD: decimal.Zero}
	for _, d := range debts {
		usd := models.ToUSD(d.Remaining, d.Currency, rate)
		switch d.Type {
		case models.Lent:
			o.TotalLentUSD = o.TotalLentUSD.Add(usd)
		case models.Borrowed:
			o.TotalBorrowedUSD = o.TotalBorrowedUSD.Add(usd)
		}
	}
	return o
}

// GroupDebts buckets debts by person, type and currency, keeping original and
// remaining totals per bucket. Results are ordered by person, then type, then currency.
func GroupDebts(debts []DebtForAnalysis) []DebtGroup {
	type key struct {
		person   string
		typ      models.DebtType
		currency models.Currency
	}
	groups := make(map[key]*DebtGroup)
	var keys []key

	for _, d := range debts {
		k := key{person: d.PersonKey, typ: d.Type, currency: d.Currency}
		g, exists := groups[k]
		if !exists {
			g = &DebtGroup{
				Person:         d.Person,
				Type:           d.Type,
				Currency:       d.Currency,
				TotalOriginal:  decimal.Zero,
				TotalRemaining: decimal.Zero,
			}
			groups[k] = g
			keys = append(keys, k)
		}
		g.Count++
		g.TotalOriginal = g.TotalOriginal.Add(d.Original)
		g.TotalRemaining = g.TotalRemaining.Add(d.Remaining)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].person != keys[j].person {
			return keys[i].person < keys[j].person
		}
		if keys[i].typ != keys[j].typ {
			return keys[i].typ < keys[j].typ
		}
		return keys[i].currency < keys[j].currency
	})

	result := make([]DebtGroup, len(keys))
	for i, k := range keys {
		result[i] = *groups[k]
	}
	return result
}
