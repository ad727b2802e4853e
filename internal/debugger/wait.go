package debugger

import (
	"time"

	"github.com/wnxd/dbgcore/debugger"
)

// WaitForPause pumps engine callbacks until the process pauses. It fails
// with ErrProcessExited if the process exits first.
func (p *Process) WaitForPause() (err error) {
	span := p.startSpan("process.WaitForPause")
	defer func() { endSpan(span, err) }()
	defer p.observeWait("wait_for_pause", time.Now())

	if p.closed {
		return debugger.ErrProcessClosed
	}
	for p.IsRunning() && !p.HasExpired() {
		p.dispatcher.WaitForCall()
		if err = p.dispatcher.PerformAllCalls(); err != nil {
			return
		}
		if p.closed {
			return debugger.ErrProcessClosed
		}
	}
	if p.HasExpired() {
		return debugger.ErrProcessExited
	}
	return nil
}

// WaitForPauseTimeout is the bounded form of WaitForPause. Running out of
// time is not an error: the process is then simply still running. Each
// iteration performs a single call so a burst of callbacks cannot overrun
// the deadline.
func (p *Process) WaitForPauseTimeout(timeout time.Duration) (err error) {
	span := p.startSpan("process.WaitForPauseTimeout")
	defer func() { endSpan(span, err) }()
	defer p.observeWait("wait_for_pause_timeout", time.Now())

	if p.closed {
		return debugger.ErrProcessClosed
	}
	deadline := time.Now().Add(timeout)
	for p.IsRunning() && !p.HasExpired() {
		left := time.Until(deadline)
		if left <= p.waitGuard {
			break
		}
		p.dispatcher.WaitForCallTimeout(left)
		if err = p.dispatcher.PerformCall(); err != nil {
			return
		}
		if p.closed {
			return debugger.ErrProcessClosed
		}
	}
	// Deliver the pause events queued by the callback that paused, within the
	// same deadline and only for that pause session.
	session := p.pauseSession
	for session != nil && p.pauseSession == session && !p.HasExpired() &&
		p.dispatcher.Pending() > 0 && time.Until(deadline) > p.waitGuard {
		if err = p.dispatcher.PerformCall(); err != nil {
			return
		}
		if p.closed {
			return debugger.ErrProcessClosed
		}
	}
	if p.HasExpired() {
		return debugger.ErrProcessExited
	}
	return nil
}

// WaitForExit pumps engine callbacks until the process exits.
func (p *Process) WaitForExit() (err error) {
	span := p.startSpan("process.WaitForExit")
	defer func() { endSpan(span, err) }()
	defer p.observeWait("wait_for_exit", time.Now())

	if p.closed {
		return debugger.ErrProcessClosed
	}
	for !p.HasExpired() {
		p.dispatcher.WaitForCall()
		if err = p.dispatcher.PerformAllCalls(); err != nil {
			return
		}
		if p.closed && !p.HasExpired() {
			return debugger.ErrProcessClosed
		}
	}
	return nil
}

func (p *Process) observeWait(op string, start time.Time) {
	p.metrics.ObserveWait(op, time.Since(start).Seconds())
}
