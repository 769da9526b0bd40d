package session

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the prometheus collectors a Session reports to.
type Metrics struct {
	Mutations           *prometheus.CounterVec
	PersistenceFailures *prometheus.CounterVec
	DecodeFailures      *prometheus.CounterVec
	Composite           prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resilience_mutations_total",
			Help: "Assessment mutations applied, by operation.",
		}, []string{"operation"}),
		PersistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resilience_persistence_failures_total",
			Help: "Blob store reads or writes that failed, by operation.",
		}, []string{"operation"}),
		DecodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resilience_decode_failures_total",
			Help: "State payloads that failed to decode, by source.",
		}, []string{"source"}),
		Composite: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "resilience_composite_score",
			Help: "Current composite resilience score (CER).",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Mutations, m.PersistenceFailures, m.DecodeFailures, m.Composite)
	}
	return m
}
