package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	BatchesPosted prometheus.Counter
	LinesWritten  prometheus.Counter
	BatchAmount   prometheus.Histogram
	PostingErrors *prometheus.CounterVec

	// Document metrics
	DocumentsCreated *prometheus.CounterVec
	DocumentsVoided  *prometheus.CounterVec
	DocumentsSettled prometheus.Counter

	// Payment metrics
	PaymentsRecorded *prometheus.CounterVec
	PaymentAmount    prometheus.Histogram

	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	EventsPending   prometheus.Gauge

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Ledger metrics
		BatchesPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_batches_posted_total",
			Help: "Total number of journal batches posted",
		}),
		LinesWritten: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_ledger_lines_total",
			Help: "Total number of ledger lines written",
		}),
		BatchAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "finbook_batch_amount",
			Help:    "Debit total per posted batch",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		PostingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_posting_errors_total",
				Help: "Total number of posting errors by type",
			},
			[]string{"error_type"},
		),

		// Document metrics
		DocumentsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_documents_created_total",
				Help: "Total number of documents created by kind",
			},
			[]string{"kind"},
		),
		DocumentsVoided: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_documents_voided_total",
				Help: "Total number of documents voided by kind",
			},
			[]string{"kind"},
		),
		DocumentsSettled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_documents_settled_total",
			Help: "Total number of documents settled in full",
		}),

		// Payment metrics
		PaymentsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_payments_recorded_total",
				Help: "Total number of payments recorded by direction",
			},
			[]string{"direction"},
		),
		PaymentAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "finbook_payment_amount",
			Help:    "Payment amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		// Account metrics
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finbook_accounts_created_total",
			Help: "Total number of ledger accounts created",
		}),
		AccountOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finbook_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Outbox metrics
		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_events_published_total",
				Help: "Total outbox events published by type",
			},
			[]string{"event_type"},
		),
		EventsPending: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "finbook_events_pending",
			Help: "Unpublished outbox events seen in the last poll",
		}),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finbook_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),
	}
}
