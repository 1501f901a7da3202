// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Admission rejection reasons, used as label values.
const (
	ReasonInvalidRequest      = "invalid_request"
	ReasonDuplicateDay        = "duplicate_day"
	ReasonWeeklyLimit         = "weekly_limit"
	ReasonInsufficientBalance = "insufficient_balance"
)

var (
	// TransactionsAdmitted counts persisted transactions by type.
	TransactionsAdmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_transactions_admitted_total",
		Help: "Transactions accepted by the admission pipeline, by type.",
	}, []string{"type"})

	// TransactionsRejected counts admission failures by reason.
	TransactionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_transactions_rejected_total",
		Help: "Transactions rejected by the admission pipeline, by reason.",
	}, []string{"reason"})

	// HTTPRequests counts handled HTTP requests.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_http_requests_total",
		Help: "HTTP requests handled, by method, path and status.",
	}, []string{"method", "path", "status"})

	// HTTPDuration observes request latency per route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_http_request_duration_seconds",
		Help:    "HTTP request latency, by method and path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)
