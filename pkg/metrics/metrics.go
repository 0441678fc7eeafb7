// Package metrics exposes the Prometheus instrumentation of the ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransfersTotal counts wallet-to-wallet transfers by outcome
	TransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_transfers_total",
		Help: "Number of wallet-to-wallet transfers",
	}, []string{"outcome"})

	// SettlementsTotal counts confirmed pending transactions by type and verdict
	SettlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_settlements_total",
		Help: "Number of confirmed pending transactions",
	}, []string{"type", "status"})

	// PendingCreatedTotal counts staged deposits and withdrawals
	PendingCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_pending_created_total",
		Help: "Number of staged pending transactions",
	}, []string{"type"})

	// RateRefreshTotal counts rate feed ingestion runs by outcome
	RateRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_rate_refresh_total",
		Help: "Number of exchange rate refresh runs",
	}, []string{"outcome"})
)
