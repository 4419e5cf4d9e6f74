package metrics

import "github.com/prometheus/client_golang/prometheus"

// Set bundles the engine counters and HTTP vecs registered on one registry.
type Set struct {
	AssignmentsTotal          prometheus.Counter
	AssignmentSkipsTotal      prometheus.Counter
	StatusCascadesTotal       prometheus.Counter
	NotificationFailuresTotal prometheus.Counter
	HTTPRequestsTotal         *prometheus.CounterVec
	HTTPRequestDuration       *prometheus.HistogramVec
}

// NewSet builds and registers the engine counters.
func NewSet(reg prometheus.Registerer) *Set {
	s := &Set{
		AssignmentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assignments_total",
			Help: "Total number of container assignments written to the ledger",
		}),
		AssignmentSkipsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assignment_skips_total",
			Help: "Total number of allocation entries skipped as ineligible",
		}),
		StatusCascadesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "status_cascades_total",
			Help: "Total number of status cascades applied across the hierarchy",
		}),
		NotificationFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Total number of outbound notifications that failed to publish",
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}
	reg.MustRegister(
		s.AssignmentsTotal,
		s.AssignmentSkipsTotal,
		s.StatusCascadesTotal,
		s.NotificationFailuresTotal,
		s.HTTPRequestsTotal,
		s.HTTPRequestDuration,
	)
	return s
}
