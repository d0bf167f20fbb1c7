package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Spot resolution outcomes.
const (
	ResolveHit     = "hit"
	ResolveRefresh = "refresh"
	ResolveCreate  = "create"
	ResolveError   = "error"
)

// Metrics holds all prometheus collectors of one process.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	SpotResolutions  *prometheus.CounterVec
	ProviderCalls    *prometheus.CounterVec
	TempUsersRemoved prometheus.Counter
}

// New registers the collectors on reg under the given namespace.
// Tests pass a fresh prometheus.NewRegistry() to avoid duplicate registration.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),
		SpotResolutions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spot_resolutions_total",
			Help:      "Spot resolutions by outcome",
		}, []string{"outcome"}),
		ProviderCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Calls to external providers by provider, operation and outcome",
		}, []string{"provider", "op", "outcome"}),
		TempUsersRemoved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "temp_users_removed_total",
			Help:      "Unconfirmed registrations deleted by the cleanup task",
		}),
	}
}

// ObserveProvider records one provider call.
func (m *Metrics) ObserveProvider(provider, op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ProviderCalls.WithLabelValues(provider, op, outcome).Inc()
}

// ObserveResolve records one spot resolution outcome.
func (m *Metrics) ObserveResolve(outcome string) {
	if m == nil {
		return
	}
	m.SpotResolutions.WithLabelValues(outcome).Inc()
}
