package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus_sync",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "campus_sync",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	timetableWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus_sync",
			Name:      "timetable_writes_total",
			Help:      "Timetable writes by operation.",
		},
		[]string{"op"},
	)

	availabilityQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus_sync",
			Name:      "availability_queries_total",
			Help:      "Availability queries by resource kind and view.",
		},
		[]string{"kind", "view"},
	)

	lookupCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus_sync",
			Name:      "lookup_cache_total",
			Help:      "Lookup cache reads by result (hit, miss, error).",
		},
		[]string{"collection", "result"},
	)
)

// Register registers the collectors once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpLatency, timetableWrites, availabilityQueries, lookupCache)
	})
}

func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func IncTimetableWrite(op string) {
	timetableWrites.WithLabelValues(op).Inc()
}

func IncAvailabilityQuery(kind, view string) {
	availabilityQueries.WithLabelValues(kind, view).Inc()
}

func IncLookupCache(collection, result string) {
	lookupCache.WithLabelValues(collection, result).Inc()
}
