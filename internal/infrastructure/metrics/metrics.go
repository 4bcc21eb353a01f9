package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Reconciliation metrics
	PaymentsApplied       prometheus.Counter
	PaymentsReversed      prometheus.Counter
	ChargesRegistered     prometheus.Counter
	PaymentAmount         prometheus.Histogram
	ReconciliationRetries prometheus.Counter
	ReconciliationErrors  *prometheus.CounterVec

	// Billing metrics
	BuiltiesCreated       prometheus.Counter
	CreditLimitRejections prometheus.Counter

	// Trip metrics
	TripsCreated   prometheus.Counter
	TripsCompleted prometheus.Counter
	TripsCancelled prometheus.Counter

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Outbox metrics
	EventsPublished prometheus.Counter
	EventsFailed    prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		PaymentsApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fleetledger_payments_applied_total",
			Help: "Total number of payments applied to client balances",
		}),
		PaymentsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fleetledger_payments_reversed_total",
			Help: "Total number of bounced payments reversed",
		}),
		ChargesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fleetledger_charges_registered_total",
			Help: "Total number of builty charges registered or amended",
		}),
		PaymentAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleetledger_payment_amount",
			Help:    "Distribution of applied payment amounts",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
		}),
		ReconciliationRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fleetledger_reconciliation_retries_total",
			Help: "Total number of write-conflict retries in reconciliation",
		}),
		ReconciliationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetledger_reconciliation_errors_total",
				Help: "Total reconciliation errors by kind",
			},
			[]string{"kind"},
		),

		BuiltiesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fleetledger_builties_created_total",
			Help: "Total number of builties created",
		}),
		CreditLimitRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fleetledger_credit_limit_rejections_total",
			Help: "Total number of credit limit WOULD_EXCEED decisions",
		}),

		TripsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fleetledger_trips_created_total",
			Help: "Total number of trips created",
		}),
		TripsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fleetledger_trips_completed_total",
			Help: "Total number of trips completed",
		}),
		TripsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fleetledger_trips_cancelled_total",
			Help: "Total number of trips cancelled",
		}),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetledger_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fleetledger_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "fleetledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fleetledger_outbox_events_published_total",
			Help: "Total outbox events published",
		}),
		EventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fleetledger_outbox_events_failed_total",
			Help: "Total outbox events that failed to publish",
		}),
	}
}
