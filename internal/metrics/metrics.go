package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Collectors are registered once on the default registry at package init.
var (
	enrollmentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rsbsa_enrollments_created_total",
		Help: "Total number of RSBSA enrollments created, by enrollment type",
	}, []string{"enrollment_type"})

	enrollmentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rsbsa_enrollment_transitions_total",
		Help: "Lifecycle operations attempted on enrollments, by operation and result",
	}, []string{"operation", "result"})

	statisticsCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rsbsa_statistics_cache_lookups_total",
		Help: "Enrollment statistics cache lookups, by result",
	}, []string{"result"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rsbsa_http_request_duration_seconds",
		Help:    "HTTP request latency by method, route pattern and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

const (
	ResultOK                = "ok"
	ResultInvalidTransition = "invalid_transition"
	ResultRejected          = "rejected"
	ResultError             = "error"
)

func IncrementEnrollmentsCreated(enrollmentType string) {
	enrollmentsCreated.WithLabelValues(enrollmentType).Inc()
}

func IncrementTransition(operation, result string) {
	enrollmentTransitions.WithLabelValues(operation, result).Inc()
}

func IncrementStatisticsCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	statisticsCacheLookups.WithLabelValues(result).Inc()
}

func ObserveHTTPRequest(method, route string, status int, start time.Time) {
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}

// TransitionCount reads the current counter value; used by tests.
func TransitionCount(operation, result string) float64 {
	return testutil.ToFloat64(enrollmentTransitions.WithLabelValues(operation, result))
}

func CreatedCount(enrollmentType string) float64 {
	return testutil.ToFloat64(enrollmentsCreated.WithLabelValues(enrollmentType))
}

func Handler() http.Handler {
	return promhttp.Handler()
}
