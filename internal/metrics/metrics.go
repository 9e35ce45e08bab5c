package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics exposes counters for the booking engine and the HTTP layer.
// A nil *EngineMetrics is valid and records nothing.
type EngineMetrics struct {
	transitions   *prometheus.CounterVec
	invitations   *prometheus.CounterVec
	settled       *prometheus.CounterVec
	sweepExpired  prometheus.Counter
	dispatchFails *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "bookings",
			Name:      "transitions_total",
			Help:      "Booking status transitions",
		}, []string{"from", "to"}),
		invitations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "invitations",
			Name:      "total",
			Help:      "Invitation outcomes",
		}, []string{"outcome"}),
		settled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "bookings",
			Name:      "settled_amount_total",
			Help:      "Sum of payment amounts recorded at completion",
		}, []string{"method"}),
		sweepExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "invitations",
			Name:      "swept_expired_total",
			Help:      "Pending invitations expired by the background sweep",
		}),
		dispatchFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "notify",
			Name:      "dispatch_failures_total",
			Help:      "Email dispatch failures surfaced as warnings",
		}, []string{"kind"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitions, m.invitations, m.settled, m.sweepExpired, m.dispatchFails, m.httpLatency)
	return m
}

func (m *EngineMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *EngineMetrics) ObserveInvitation(outcome string) {
	if m == nil {
		return
	}
	m.invitations.WithLabelValues(outcome).Inc()
}

func (m *EngineMetrics) ObserveSettlement(method string, amount float64) {
	if m == nil {
		return
	}
	m.settled.WithLabelValues(method).Add(amount)
}

func (m *EngineMetrics) ObserveSweep(expired int) {
	if m == nil || expired <= 0 {
		return
	}
	m.sweepExpired.Add(float64(expired))
}

func (m *EngineMetrics) ObserveDispatchFailure(kind string) {
	if m == nil {
		return
	}
	m.dispatchFails.WithLabelValues(kind).Inc()
}

func (m *EngineMetrics) ObserveHTTP(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}
