// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "debtbook"

// DebtsCreated counts debts opened, by type and currency.
var DebtsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "debts_created_total",
	Help:      "Debts opened, by type and currency.",
}, []string{"type", "currency"})

// DebtsCanceled counts debts moved to the canceled state.
var DebtsCanceled = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "debts_canceled_total",
	Help:      "Debts canceled, by type.",
}, []string{"type"})

// RepaymentsRecorded counts lump-sum repayments. converted is "true" when the
// payment had to be converted into the other currency.
var RepaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "repayments_recorded_total",
	Help:      "Repayments allocated across open debts.",
}, []string{"type", "converted"})

// DebtsSettled counts debts whose balance reached zero through a repayment.
var DebtsSettled = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "debts_settled_total",
	Help:      "Debts fully settled by repayments.",
})

// InterestRecorded counts repayments that exceeded the outstanding total.
var InterestRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "interest_recorded_total",
	Help:      "Repayments that produced an interest transaction, by currency.",
}, []string{"currency"})

// WriteConflicts counts optimistic concurrency conflicts, by operation.
var WriteConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "write_conflicts_total",
	Help:      "Debt writes that lost a version compare-and-swap and were retried.",
}, []string{"operation"})

// FXFetches counts live exchange rate lookups, by result (ok, error).
var FXFetches = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "fx_fetches_total",
	Help:      "Live KHR per USD rate fetches.",
}, []string{"result"})

// FXRate is the most recently cached live KHR per USD rate.
var FXRate = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "fx_rate_khr_per_usd",
	Help:      "Cached live KHR per USD rate (fallback value after a failed fetch).",
})
