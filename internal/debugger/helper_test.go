package debugger

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/wnxd/dbgcore/debugger"
	"github.com/wnxd/dbgcore/engine"
	"github.com/wnxd/dbgcore/internal/simulator"
)

// fakeEngine records requests. Notifications are injected by the test
// through callback.
type fakeEngine struct {
	callback     engine.Callback
	calls        []string
	queued       bool
	stopErr      error
	continueErr  error
	terminateErr error
	onContinue   func()
}

func (e *fakeEngine) Start(callback engine.Callback) error {
	if e.callback != nil {
		return engine.ErrAlreadyStarted
	}
	e.callback = callback
	return nil
}

func (e *fakeEngine) Close() error {
	e.calls = append(e.calls, "close")
	return nil
}

func (e *fakeEngine) Stop(timeout time.Duration) error {
	e.calls = append(e.calls, "stop")
	return e.stopErr
}

func (e *fakeEngine) Continue(flags uint32) error {
	e.calls = append(e.calls, "continue")
	if e.onContinue != nil {
		e.onContinue()
	}
	return e.continueErr
}

func (e *fakeEngine) Terminate(exitCode int) error {
	e.calls = append(e.calls, "terminate")
	return e.terminateErr
}

func (e *fakeEngine) HasQueuedCallbacks() bool {
	return e.queued
}

func newTestProcess(t *testing.T, opts ...Option) (*Process, *fakeEngine) {
	t.Helper()
	fe := &fakeEngine{}
	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	p, err := NewProcess(fe, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p, fe
}

func newTestThread(id int) *simulator.Thread {
	module := simulator.NewModule("app", 0x1000, 0x1000, true)
	return simulator.NewThread(id,
		simulator.NewFrame("memcpy", nil),
		simulator.NewFrame("main", module),
	)
}

// pauseAtBreakpoint delivers a breakpoint on thread and pumps until paused.
func pauseAtBreakpoint(t *testing.T, p *Process, fe *fakeEngine, thread debugger.Thread) {
	t.Helper()
	fe.callback.Breakpoint(thread)
	require.NoError(t, p.WaitForPause())
	require.True(t, p.IsPaused())
}

// recorder collects event names in delivery order.
type recorder struct {
	events []string
}

func (r *recorder) record(name string) debugger.ProcessCallback {
	return func(*debugger.ProcessEvent) {
		r.events = append(r.events, name)
	}
}
