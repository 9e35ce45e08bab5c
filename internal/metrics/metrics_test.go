package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestEngineMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)

	m.ObserveTransition("scheduled", "confirmed")
	m.ObserveTransition("scheduled", "confirmed")
	m.ObserveInvitation("accepted")
	m.ObserveSettlement("cash", 300)
	m.ObserveSweep(3)
	m.ObserveSweep(0)
	m.ObserveHTTP("GET", "/api/bookings", 200, 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("scheduled", "confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invitations.WithLabelValues("accepted")))
	assert.Equal(t, 300.0, testutil.ToFloat64(m.settled.WithLabelValues("cash")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sweepExpired))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *EngineMetrics
	assert.NotPanics(t, func() {
		m.ObserveTransition("a", "b")
		m.ObserveInvitation("x")
		m.ObserveSettlement("cash", 1)
		m.ObserveSweep(1)
		m.ObserveDispatchFailure("assignment")
		m.ObserveHTTP("GET", "/", 200, 1)
	})
}
