// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExpensesCreated counts successfully persisted expenses.
	ExpensesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_expenses_created_total",
		Help: "Number of expenses created.",
	})

	// SettlementsRecorded counts persisted settlements by origin.
	SettlementsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_settlements_recorded_total",
		Help: "Number of settlements recorded, by origin (manual or provider).",
	}, []string{"origin"})

	// ProviderEvents counts webhook deliveries by outcome. Duplicate
	// deliveries of the same external reference land in outcome="duplicate".
	ProviderEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_provider_events_total",
		Help: "Number of payment provider events processed, by outcome.",
	}, []string{"outcome"})
)
