package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application workflow.
type Metrics struct {
	ApplicationsCreated   prometheus.Counter
	ApplicationsSubmitted prometheus.Counter
	SubmissionsRejected   prometheus.Counter
	PremiumsQuoted        prometheus.Counter
	DecisionsByRiskLevel  *prometheus.CounterVec
	RequestLatency        *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ApplicationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "covera_applications_created_total",
			Help: "Total number of draft applications created",
		}),
		ApplicationsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "covera_applications_submitted_total",
			Help: "Total number of applications that reached Submitted",
		}),
		SubmissionsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "covera_submissions_rejected_total",
			Help: "Total number of submission attempts blocked by invariants",
		}),
		PremiumsQuoted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "covera_premiums_quoted_total",
			Help: "Total number of premium calculations performed",
		}),
		DecisionsByRiskLevel: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "covera_underwriting_decisions_total",
			Help: "Underwriting decisions produced, labeled by risk level",
		}, []string{"risk_level"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "covera_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// ObserveRequest records one request's latency.
func (m *Metrics) ObserveRequest(route, status string, elapsed time.Duration) {
	m.RequestLatency.WithLabelValues(route, status).Observe(elapsed.Seconds())
}
