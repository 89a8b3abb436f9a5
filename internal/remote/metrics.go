package remote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/roach88/synqs/internal/ir"
)

// Metrics counts protocol calls. A nil *Metrics records nothing.
type Metrics struct {
	jobsSubmitted  prometheus.Counter
	statusPolls    prometheus.Counter
	resultsFetched prometheus.Counter
	remoteErrors   *prometheus.CounterVec
}

// NewMetrics registers the client counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		jobsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "synqs",
			Name:      "jobs_submitted_total",
			Help:      "Jobs accepted by the remote service",
		}),
		statusPolls: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "synqs",
			Name:      "status_polls_total",
			Help:      "Status checks sent to the remote service",
		}),
		resultsFetched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "synqs",
			Name:      "results_fetched_total",
			Help:      "Results fetched from the remote service",
		}),
		remoteErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "synqs",
			Name:      "remote_errors_total",
			Help:      "Failed protocol calls by error code",
		}, []string{"code"}),
	}
}

func (m *Metrics) submitted() {
	if m != nil {
		m.jobsSubmitted.Inc()
	}
}

func (m *Metrics) polled() {
	if m != nil {
		m.statusPolls.Inc()
	}
}

func (m *Metrics) fetched() {
	if m != nil {
		m.resultsFetched.Inc()
	}
}

func (m *Metrics) failed(err error) {
	if m == nil || err == nil {
		return
	}
	code := ir.CodeOf(err)
	if code == "" {
		code = "UNKNOWN"
	}
	m.remoteErrors.WithLabelValues(string(code)).Inc()
}
