package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mesaya_res_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code", "method"},
	)

	ReservationsScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mesaya_res_reservations_scheduled_total",
			Help: "Total reservations successfully scheduled",
		},
	)

	TableConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mesaya_res_table_conflicts_total",
			Help: "Total scheduling attempts rejected as conflicts",
		},
		[]string{"detected_by"},
	)

	HoldAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mesaya_res_hold_attempts_total",
			Help: "Total table hold attempts",
		},
		[]string{"outcome"},
	)

	DBTxDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mesaya_res_db_tx_seconds",
			Help:    "Duration of DB transactions",
			Buckets: prometheus.DefBuckets,
		},
	)

	EventPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mesaya_res_event_publish_failures_total",
			Help: "Total fire-and-forget publish failures (logged, never propagated)",
		},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mesaya_res_rate_limit_exceeded_total",
			Help: "Total rate limit exceeded",
		},
	)
)
