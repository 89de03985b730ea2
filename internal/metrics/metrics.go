package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts KSeF API calls by operation and outcome
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ksef_api_requests_total",
			Help: "Total number of KSeF API requests",
		},
		[]string{"operation", "outcome"},
	)

	// APIRequestDuration tracks KSeF API call latency
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ksef_api_request_duration_seconds",
			Help:    "KSeF API request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	// SubmissionsTotal counts submission attempt outcomes by status
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ksef_submissions_total",
			Help: "Total number of submission status changes",
		},
		[]string{"environment", "status"},
	)

	// IncomingFetchTotal counts incoming fetch operation outcomes
	IncomingFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ksef_incoming_fetch_total",
			Help: "Total number of incoming fetch operations by outcome",
		},
		[]string{"environment", "outcome"},
	)

	// IncomingInvoicesTotal counts downloaded invoices as new or existing
	IncomingInvoicesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ksef_incoming_invoices_total",
			Help: "Total number of incoming invoices stored or deduplicated",
		},
		[]string{"environment", "result"},
	)

	// OfflineAttention tracks offline invoices approaching their deadline
	OfflineAttention = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ksef_offline_attention",
			Help: "Number of offline invoices near or past their confirmation deadline",
		},
		[]string{"environment"},
	)

	// ErrorsTotal counts errors by type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ksef_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)
