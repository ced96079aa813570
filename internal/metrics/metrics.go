package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dash_api_requests_total",
			Help: "Number of API requests",
		},
		[]string{"method", "path", "status"},
	)
	APILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dash_api_latency_seconds",
			Help:    "API latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	Fetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dash_fetches_total",
			Help: "Record fetches by outcome",
		},
		[]string{"outcome"},
	)
	StaleFetchDrops = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dash_stale_fetch_drops_total",
			Help: "Fetch results discarded because a newer fetch superseded them",
		},
	)
	Mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dash_mutations_total",
			Help: "Create/update/delete requests by action and outcome",
		},
		[]string{"action", "outcome"},
	)
	ValidationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dash_validation_failures_total",
			Help: "Form submissions refused by validation",
		},
	)
)

func init() {
	prometheus.MustRegister(APIRequests, APILatency, Fetches, StaleFetchDrops, Mutations, ValidationFailures)
}
