package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegistryRecordsObservations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRegistry(reg)

	m.ObserveFetchDuration("root", 0.25)
	m.IncRollbackDetected("timestamp")
	m.IncVerificationFailure("snapshot", "threshold_not_met")
	m.SetExpiration("targets", 1893456000)
	m.IncRootRotation()

	require.Equal(t, 1, testutil.CollectAndCount(m.FetchDuration))
	require.Equal(t, float64(1), testutil.ToFloat64(m.RollbackDetected.WithLabelValues("timestamp")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.VerificationFailure.WithLabelValues("snapshot", "threshold_not_met")))
	require.Equal(t, float64(1893456000), testutil.ToFloat64(m.EarliestExpiration.WithLabelValues("targets")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.RootRotations))
}

func TestNilRegistryIsNoOp(t *testing.T) {
	var m *Registry
	require.NotPanics(t, func() {
		m.ObserveFetchDuration("root", 1)
		m.IncRollbackDetected("root")
		m.IncVerificationFailure("root", "x")
		m.SetExpiration("root", 1)
		m.IncRootRotation()
	})
}
