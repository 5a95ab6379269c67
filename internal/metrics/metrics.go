// Package metrics регистрирует счётчики Prometheus для движка сверки платежей.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReconcileRuns — количество запусков сверки платежей.
	ReconcileRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconcile_runs_total",
		Help: "Total number of payment reconciliation runs.",
	})

	// NotificationsSent — количество опубликованных уведомлений по видам.
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reconcile_notifications_sent_total",
		Help: "Total number of notifications published by the reconciliation engine.",
	}, []string{"kind"})

	// AccountsDisabled — количество аккаунтов, отключённых движком.
	AccountsDisabled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconcile_accounts_disabled_total",
		Help: "Total number of accounts disabled for nonpayment.",
	})
)
