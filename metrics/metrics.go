// Package metrics instruments the client load pipeline with Prometheus
// collectors, the way notary's server/metrics.go wires
// prometheus/client_golang under a fixed namespace — generalized here
// from an HTTP-handler instrumentation helper to counters and gauges
// around metadata fetch/verify, since this module has no HTTP server of
// its own to instrument.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespacePrefix = "tuf_client"

// Registry groups the collectors this module registers. A nil
// *Registry (the zero value's pointer) is valid everywhere it's passed
// and simply records nothing, so instrumentation is opt-in: callers who
// don't want metrics recorded can pass nil as client.Load's registry
// argument.
type Registry struct {
	FetchDuration       *prometheus.HistogramVec
	RollbackDetected    *prometheus.CounterVec
	VerificationFailure *prometheus.CounterVec
	EarliestExpiration  *prometheus.GaugeVec
	RootRotations       prometheus.Counter
}

// NewRegistry creates a Registry and registers its collectors with reg.
// Passing prometheus.NewRegistry() keeps this module's metrics isolated
// from the default global registry; passing prometheus.DefaultRegisterer
// merges them into a process-wide /metrics endpoint.
func NewRegistry(reg prometheus.Registerer) *Registry {
	m := &Registry{
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespacePrefix,
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Time spent fetching a metadata or target file.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"role"}),
		RollbackDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespacePrefix,
			Subsystem: "verify",
			Name:      "rollback_detected_total",
			Help:      "Count of rollback-attack signals rejected during metadata load.",
		}, []string{"role"}),
		VerificationFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespacePrefix,
			Subsystem: "verify",
			Name:      "failure_total",
			Help:      "Count of metadata documents that failed signature or schema verification.",
		}, []string{"role", "reason"}),
		EarliestExpiration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespacePrefix,
			Subsystem: "trust",
			Name:      "expires_timestamp_seconds",
			Help:      "Unix timestamp of the expires field of the currently trusted metadata, per role.",
		}, []string{"role"}),
		RootRotations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespacePrefix,
			Subsystem: "root",
			Name:      "rotations_total",
			Help:      "Count of intermediate root versions loaded during root update.",
		}),
	}
	reg.MustRegister(m.FetchDuration, m.RollbackDetected, m.VerificationFailure, m.EarliestExpiration, m.RootRotations)
	return m
}

// ObserveFetchDuration records seconds as the fetch latency for role.
// A nil Registry is a no-op, so instrumented call sites never need a
// nil check of their own.
func (m *Registry) ObserveFetchDuration(role string, seconds float64) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(role).Observe(seconds)
}

func (m *Registry) IncRollbackDetected(role string) {
	if m == nil {
		return
	}
	m.RollbackDetected.WithLabelValues(role).Inc()
}

func (m *Registry) IncVerificationFailure(role, reason string) {
	if m == nil {
		return
	}
	m.VerificationFailure.WithLabelValues(role, reason).Inc()
}

func (m *Registry) SetExpiration(role string, unixSeconds float64) {
	if m == nil {
		return
	}
	m.EarliestExpiration.WithLabelValues(role).Set(unixSeconds)
}

func (m *Registry) IncRootRotation() {
	if m == nil {
		return
	}
	m.RootRotations.Inc()
}
