package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultTimeout = "timeout"
)

// Metrics
var (
	// Locator
	LocatorProbesCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "minipay_locator_probes_total",
		Help: "Number of wallet provider probes.",
	})
	LocatorResultsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minipay_locator_results_total",
		Help: "Wallet provider lookups by result.",
	}, []string{"mode", "result"})

	// Balance
	BalanceReadsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minipay_balance_reads_total",
		Help: "Token balance reads by result.",
	}, []string{"result"})

	// Transfers
	TransfersCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minipay_transfers_total",
		Help: "Token transfers by result.",
	}, []string{"result"})
	TransferNotificationsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minipay_transfer_notifications_total",
		Help: "Transfer notifications published by result.",
	}, []string{"result"})
)
