package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersRegistered    prometheus.Counter
	RequestsCreated    prometheus.Counter
	RequestTransitions *prometheus.CounterVec
	DonationsRecorded  prometheus.Counter
	DonationsCompleted prometheus.Counter
	NotificationsSent  *prometheus.CounterVec
	MatcherDuration    prometheus.Histogram
	RequestLatency     *prometheus.HistogramVec
}

// New creates all metrics on the default registry. Call once per process;
// tests use NewWith and a private registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates and registers all metrics on the given registerer.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "badbaado_users_registered_total",
			Help: "Total number of donor accounts created",
		}),
		RequestsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "badbaado_blood_requests_created_total",
			Help: "Total number of blood requests created",
		}),
		RequestTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "badbaado_request_transitions_total",
			Help: "Blood request lifecycle transitions by target status",
		}, []string{"to"}),
		DonationsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "badbaado_donations_recorded_total",
			Help: "Total number of donor responses recorded",
		}),
		DonationsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "badbaado_donations_completed_total",
			Help: "Total number of donations that reached COMPLETED",
		}),
		NotificationsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "badbaado_notifications_total",
			Help: "Outbound notifications by kind and outcome",
		}, []string{"kind", "outcome"}),
		MatcherDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "badbaado_matcher_duration_seconds",
			Help:    "Latency of eligible-donor matching",
			Buckets: prometheus.DefBuckets,
		}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "badbaado_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}
