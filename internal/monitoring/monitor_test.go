package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorCounters(t *testing.T) {
	m := NewMonitor()

	m.RecordTurn("reply")
	m.RecordTurn("reply")
	m.RecordTurn("clarification")
	m.RecordClarification("item_confirmation")
	m.RecordBlocked()
	m.RecordOrderSent(31.50)
	m.SetLiveSessions(3)
	m.RecordTurnLatency(150 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.turnsProcessed.WithLabelValues("reply")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.turnsProcessed.WithLabelValues("clarification")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.clarifications.WithLabelValues("item_confirmation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.blockedTurns))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersSent))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.liveSessions))
}

func TestMonitorRegistersEverything(t *testing.T) {
	m := NewMonitor()
	m.RecordTurn("reply")
	m.RecordOrderSent(10)
	m.RecordTurnLatency(time.Second)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"waiter_turns_total",
		"waiter_turn_duration_seconds",
		"waiter_orders_sent_total",
		"waiter_order_value_euros",
	} {
		assert.True(t, names[want], "metric %s should be registered", want)
	}
}
