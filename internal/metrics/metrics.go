// Package metrics provides Prometheus metrics for the process controller.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dbgcore"

// Metrics holds the process controller collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	// Pauses counts pause sessions by reason.
	Pauses *prometheus.CounterVec
	// Resumes counts resumes by debuggee state action (keep, clear).
	Resumes *prometheus.CounterVec
	// Events counts raised events by type.
	Events *prometheus.CounterVec
	// BroadcastsAborted counts Paused broadcasts cut short by a resume.
	BroadcastsAborted prometheus.Counter
	// CallsPerformed counts engine callbacks executed on the controller.
	CallsPerformed prometheus.Counter
	// Exits counts processes that reached the expired state.
	Exits prometheus.Counter
	// WaitDuration tracks time spent in wait loops by operation.
	WaitDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Pauses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "process",
				Name:      "pauses_total",
				Help:      "Total number of pause sessions by reason",
			},
			[]string{"reason"},
		),
		Resumes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "process",
				Name:      "resumes_total",
				Help:      "Total number of resumes by debuggee state action",
			},
			[]string{"action"},
		),
		Events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "raised_total",
				Help:      "Total number of events raised by type",
			},
			[]string{"event"},
		),
		BroadcastsAborted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "paused_broadcasts_aborted_total",
				Help:      "Total number of paused broadcasts stopped because a handler resumed the process",
			},
		),
		CallsPerformed: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "calls_performed_total",
				Help:      "Total number of queued engine callbacks executed",
			},
		),
		Exits: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "process",
				Name:      "exits_total",
				Help:      "Total number of processes that exited",
			},
		),
		WaitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "process",
				Name:      "wait_duration_seconds",
				Help:      "Time spent waiting for the process by operation",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
}

func (m *Metrics) Paused(reason string) {
	if m == nil {
		return
	}
	m.Pauses.WithLabelValues(reason).Inc()
}

func (m *Metrics) Resumed(action string) {
	if m == nil {
		return
	}
	m.Resumes.WithLabelValues(action).Inc()
}

func (m *Metrics) EventRaised(event string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(event).Inc()
}

func (m *Metrics) BroadcastAborted() {
	if m == nil {
		return
	}
	m.BroadcastsAborted.Inc()
}

func (m *Metrics) Exited() {
	if m == nil {
		return
	}
	m.Exits.Inc()
}

func (m *Metrics) ObserveWait(op string, seconds float64) {
	if m == nil {
		return
	}
	m.WaitDuration.WithLabelValues(op).Observe(seconds)
}
