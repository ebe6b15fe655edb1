package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fulfillment outcomes used as the "outcome" label.
const (
	OutcomeOK            = "ok"
	OutcomeNotFound      = "not_found"
	OutcomeError         = "error"
	OutcomePanic         = "panic"
	OutcomeUnknownIntent = "unknown_intent"
	OutcomeMalformed     = "malformed"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records
// nothing, so components can be built without a registry in tests.
type Metrics struct {
	FulfillmentRequests *prometheus.CounterVec
	LookupDuration      *prometheus.HistogramVec
	HTTPRequests        *prometheus.CounterVec
}

// New registers the collectors on reg. Passing prometheus.DefaultRegisterer
// exposes them through promhttp.Handler().
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FulfillmentRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_requests_total",
				Help: "Webhook fulfillments by intent and outcome",
			},
			[]string{"intent", "outcome"},
		),
		LookupDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fulfillment_lookup_duration_seconds",
				Help:    "Duration of upstream market-data lookups in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"intent", "provider"},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests served by path and status code",
			},
			[]string{"path", "code"},
		),
	}
}

func (m *Metrics) ObserveFulfillment(intent, outcome string) {
	if m == nil {
		return
	}
	m.FulfillmentRequests.WithLabelValues(intent, outcome).Inc()
}

func (m *Metrics) ObserveLookup(intent, provider string, d time.Duration) {
	if m == nil {
		return
	}
	m.LookupDuration.WithLabelValues(intent, provider).Observe(d.Seconds())
}

func (m *Metrics) ObserveHTTP(path string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(path, strconv.Itoa(code)).Inc()
}
