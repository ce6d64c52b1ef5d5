package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	// Use cases, labelled by outcome: ok, validation, already_exists, not_found, error.
	UserOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_operations_total",
			Help: "User service operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	// Email worker
	EmailsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "welcome_emails_total",
			Help: "Welcome email deliveries by result",
		},
		[]string{"result"}, // handled|retried|dropped
	)

	once sync.Once
)

// Handler serves the default registry.
var Handler = promhttp.Handler

// Init registers the collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(RequestsTotal, RequestLatency, UserOperations, EmailsProcessed)
	})
}
