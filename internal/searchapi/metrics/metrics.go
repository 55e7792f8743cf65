package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the search API request workflow.
type Metrics struct {
	RequestsSelected *prometheus.CounterVec
	ScanRuns         *prometheus.CounterVec
	Dispatched       *prometheus.CounterVec
	PolicyCache      *prometheus.CounterVec
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsSelected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "searchbridge_search_api_requests_selected_total",
			Help: "Search API requests selected by a scan, by queue (ready, retry)",
		}, []string{"queue"}),
		ScanRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "searchbridge_search_api_scan_runs_total",
			Help: "Scheduled scan runs, by outcome",
		}, []string{"outcome"}),
		Dispatched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "searchbridge_search_api_requests_dispatched_total",
			Help: "Search API requests dispatched downstream, by queue and outcome",
		}, []string{"queue", "outcome"}),
		PolicyCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "searchbridge_provider_policy_cache_total",
			Help: "Provider policy cache lookups, by result (hit, miss, error)",
		}, []string{"result"}),
	}
}

func (m *Metrics) AddSelected(queue string, n int) {
	m.RequestsSelected.WithLabelValues(queue).Add(float64(n))
}

func (m *Metrics) IncrementScan(outcome string) {
	m.ScanRuns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementDispatched(queue, outcome string) {
	m.Dispatched.WithLabelValues(queue, outcome).Inc()
}

func (m *Metrics) IncrementPolicyCache(result string) {
	m.PolicyCache.WithLabelValues(result).Inc()
}
