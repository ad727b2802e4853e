package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Paused("breakpoint")
	m.Paused("breakpoint")
	m.Resumed("clear")
	m.EventRaised("paused")
	m.BroadcastAborted()
	m.Exited()
	m.ObserveWait("wait_for_pause", 0.01)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Pauses.WithLabelValues("breakpoint")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Resumes.WithLabelValues("clear")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Events.WithLabelValues("paused")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BroadcastsAborted))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Exits))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["dbgcore_process_pauses_total"])
	assert.True(t, names["dbgcore_process_wait_duration_seconds"])
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Paused("break")
		m.Resumed("keep")
		m.EventRaised("resumed")
		m.BroadcastAborted()
		m.Exited()
		m.ObserveWait("wait_for_exit", 1)
	})
}

func TestNew_UnregisteredWithNilRegisterer(t *testing.T) {
	assert.NotPanics(t, func() {
		New(nil).Paused("other")
		New(nil).Paused("other")
	})
}
