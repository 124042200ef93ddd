package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Monitor collects conversation metrics over a private registry
type Monitor struct {
	registry *prometheus.Registry

	turnsProcessed *prometheus.CounterVec
	turnLatency    prometheus.Histogram
	clarifications *prometheus.CounterVec
	blockedTurns   prometheus.Counter
	ordersSent     prometheus.Counter
	orderValue     prometheus.Histogram
	liveSessions   prometheus.Gauge
}

// NewMonitor creates a monitor with all metrics registered
func NewMonitor() *Monitor {
	m := &Monitor{
		registry: prometheus.NewRegistry(),
		turnsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waiter_turns_total",
				Help: "Conversation turns processed",
			},
			[]string{"outcome"},
		),
		turnLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "waiter_turn_duration_seconds",
				Help:    "Wall time of one conversation turn",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
		),
		clarifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waiter_clarifications_total",
				Help: "Clarification questions asked",
			},
			[]string{"kind"},
		),
		blockedTurns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "waiter_blocked_turns_total",
				Help: "Messages rejected by the content gate",
			},
		),
		ordersSent: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "waiter_orders_sent_total",
				Help: "Orders sent to the kitchen",
			},
		),
		orderValue: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "waiter_order_value_euros",
				Help:    "Total value of sent orders",
				Buckets: prometheus.LinearBuckets(0, 20, 10),
			},
		),
		liveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "waiter_live_sessions",
				Help: "Currently open sessions",
			},
		),
	}

	m.registry.MustRegister(
		m.turnsProcessed, m.turnLatency, m.clarifications,
		m.blockedTurns, m.ordersSent, m.orderValue, m.liveSessions,
	)
	return m
}

// Registry exposes the registry for the metrics endpoint
func (m *Monitor) Registry() *prometheus.Registry { return m.registry }

// RecordTurn counts a processed turn by outcome (reply, clarification, blocked, error)
func (m *Monitor) RecordTurn(outcome string) {
	m.turnsProcessed.WithLabelValues(outcome).Inc()
}

// RecordTurnLatency records how long a full chat turn took. Turns that never
// reach the model count too; this is customer-facing time, not model time.
func (m *Monitor) RecordTurnLatency(d time.Duration) {
	m.turnLatency.Observe(d.Seconds())
}

// RecordClarification counts a clarification by kind
func (m *Monitor) RecordClarification(kind string) {
	m.clarifications.WithLabelValues(kind).Inc()
}

// RecordBlocked counts a gated message
func (m *Monitor) RecordBlocked() {
	m.blockedTurns.Inc()
}

// RecordOrderSent records a kitchen submission and its value
func (m *Monitor) RecordOrderSent(total float64) {
	m.ordersSent.Inc()
	m.orderValue.Observe(total)
}

// SetLiveSessions updates the open-session gauge
func (m *Monitor) SetLiveSessions(n int) {
	m.liveSessions.Set(float64(n))
}
