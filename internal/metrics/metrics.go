package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the process's Prometheus collectors. Construct one per
// process and inject it; collectors register against the default registry.
type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	PublishAttempts *prometheus.CounterVec
}

// New registers the service's collectors against the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers against an explicit registry; tests use a fresh one per
// test to avoid duplicate-registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "skywrite_http_requests_total",
			Help: "HTTP requests handled, by route and status code.",
		}, []string{"method", "path", "status"}),
		PublishAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "skywrite_publish_attempts_total",
			Help: "Publish workflow attempts, by outcome.",
		}, []string{"outcome"}),
	}
}

// Publish outcome label values.
const (
	OutcomePublished       = "published"
	OutcomeDeferred        = "deferred"
	OutcomeFailed          = "failed"
	OutcomeUnauthenticated = "unauthenticated"
)
