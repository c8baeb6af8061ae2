// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "arena"

var (
	once sync.Once

	queries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Availability queries by result (available or the blocked reason).",
		},
		[]string{"result"},
	)

	queryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Time spent evaluating availability queries.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)

	mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Court mutations by operation and result.",
		},
		[]string{"op", "result"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Snapshot cache lookups by outcome.",
		},
		[]string{"outcome"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by route.",
		},
		[]string{"route"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(queries, queryDuration, mutations, cacheLookups, httpRequests)
	})
}

func ObserveQuery(result string, took time.Duration) {
	queries.WithLabelValues(result).Inc()
	queryDuration.Observe(took.Seconds())
}

func IncMutation(op, result string) {
	mutations.WithLabelValues(op, result).Inc()
}

func IncCache(outcome string) {
	cacheLookups.WithLabelValues(outcome).Inc()
}

func IncHTTP(route string) {
	httpRequests.WithLabelValues(route).Inc()
}
