package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded for processed events.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics provides observability for search request event processing.
type Metrics struct {
	EventsProcessed *prometheus.CounterVec
	UploadFailures  *prometheus.CounterVec
	FlowDuration    *prometheus.HistogramVec
	NotifyFailures  prometheus.Counter
}

// New registers the search request metrics with the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics with reg. Tests pass a fresh registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "searchbridge_search_request_events_total",
			Help: "Search request events processed, by event and outcome",
		}, []string{"event", "outcome"}),
		UploadFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "searchbridge_search_request_upload_failures_total",
			Help: "Sub-entity uploads that failed without aborting the flow, by collection",
		}, []string{"collection"}),
		FlowDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "searchbridge_search_request_flow_duration_seconds",
			Help:    "Duration of search request flows, by event",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"event"}),
		NotifyFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "searchbridge_search_request_notify_failures_total",
			Help: "Notification egress failures",
		}),
	}
}

// ObserveFlow records the outcome and duration of a flow started at start.
func (m *Metrics) ObserveFlow(event, outcome string, start time.Time) {
	m.EventsProcessed.WithLabelValues(event, outcome).Inc()
	m.FlowDuration.WithLabelValues(event).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementUploadFailure(collection string) {
	m.UploadFailures.WithLabelValues(collection).Inc()
}

func (m *Metrics) IncrementNotifyFailure() {
	m.NotifyFailures.Inc()
}
