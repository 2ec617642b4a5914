package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts records login attempts by result (success|failure|locked).
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "userhub_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	// AccountLockouts counts accounts transitioned to the locked state.
	AccountLockouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "userhub_account_lockouts_total",
			Help: "Total number of account lockouts",
		},
	)

	// Registrations counts account creations by result (success|invalid|conflict).
	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "userhub_registrations_total",
			Help: "Total number of registration attempts",
		},
		[]string{"result"},
	)

	// OutboxDeliveries counts outbox dispatch outcomes (sent|failed).
	OutboxDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "userhub_outbox_deliveries_total",
			Help: "Total number of outbox email delivery attempts",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "userhub_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
