package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the orchestrator's prometheus collectors.
type Metrics struct {
	TurnsTotal  *prometheus.CounterVec
	HopsTotal   *prometheus.CounterVec
	HopDuration *prometheus.HistogramVec
	HopTimeouts prometheus.Counter
}

// New creates and registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TurnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_turns_total",
				Help: "Total number of handled turns, by outcome",
			},
			[]string{"outcome"},
		),
		HopsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parley_hops_total",
				Help: "Total number of collaborator hops, by service",
			},
			[]string{"service"},
		),
		HopDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "parley_hop_duration_seconds",
				Help: "Duration of collaborator hops",
			},
			[]string{"service"},
		),
		HopTimeouts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "parley_hop_timeouts_total",
				Help: "Total number of collaborator hops that timed out",
			},
		),
	}
	reg.MustRegister(m.TurnsTotal, m.HopsTotal, m.HopDuration, m.HopTimeouts)
	return m
}

// NewNop creates unregistered collectors for tests and silent components.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
