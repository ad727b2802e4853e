package debugger

import (
	"slices"

	"github.com/wnxd/dbgcore/debugger"
)

type eventHandler[T any] struct {
	list     *handlerList[T]
	callback T
}

type handlerList[T any] struct {
	typ      debugger.EventType
	handlers []*eventHandler[T]
}

type eventManager struct {
	paused  handlerList[debugger.ProcessCallback]
	resumed handlerList[debugger.ProcessCallback]
	exited  handlerList[debugger.ProcessCallback]
	thrown  handlerList[debugger.ExceptionCallback]
}

func (em *eventManager) ctor() {
	em.paused.typ = debugger.EventType_Paused
	em.resumed.typ = debugger.EventType_Resumed
	em.exited.typ = debugger.EventType_Exited
	em.thrown.typ = debugger.EventType_ExceptionThrown
}

func (h *eventHandler[T]) Close() error {
	h.list.remove(h)
	return nil
}

func (h *eventHandler[T]) Type() debugger.EventType {
	return h.list.typ
}

func (l *handlerList[T]) add(callback T) *eventHandler[T] {
	h := &eventHandler[T]{list: l, callback: callback}
	l.handlers = append(l.handlers, h)
	return h
}

func (l *handlerList[T]) remove(h *eventHandler[T]) {
	l.handlers = slices.DeleteFunc(l.handlers, func(e *eventHandler[T]) bool { return e == h })
}

// snapshot copies the registration list so handlers may register or
// unregister others without disturbing a broadcast in progress.
func (l *handlerList[T]) snapshot() []*eventHandler[T] {
	return slices.Clone(l.handlers)
}

func (p *Process) OnPaused(callback debugger.ProcessCallback) (debugger.EventHandler, error) {
	if callback == nil {
		return nil, debugger.ErrCallbackNil
	}
	return p.paused.add(callback), nil
}

func (p *Process) OnResumed(callback debugger.ProcessCallback) (debugger.EventHandler, error) {
	if callback == nil {
		return nil, debugger.ErrCallbackNil
	}
	return p.resumed.add(callback), nil
}

func (p *Process) OnExceptionThrown(callback debugger.ExceptionCallback) (debugger.EventHandler, error) {
	if callback == nil {
		return nil, debugger.ErrCallbackNil
	}
	return p.thrown.add(callback), nil
}

func (p *Process) OnExited(callback debugger.ProcessCallback) (debugger.EventHandler, error) {
	if callback == nil {
		return nil, debugger.ErrCallbackNil
	}
	return p.exited.add(callback), nil
}

func (p *Process) checkReentrancy(event debugger.EventType) error {
	if p.callback.InCallback() {
		return &debugger.ReentrancyError{Event: event}
	}
	return nil
}

func (p *Process) newEvent() *debugger.ProcessEvent {
	return &debugger.ProcessEvent{Process: p, PauseSession: p.PauseSession()}
}

// raisePaused stops as soon as a handler ends the pause episode it was
// raised for: later handlers never observe a pause that is already over.
func (p *Process) raisePaused() error {
	if err := p.assertPaused("raise paused"); err != nil {
		return err
	}
	if err := p.checkReentrancy(debugger.EventType_Paused); err != nil {
		return err
	}
	p.logger.Debug().Stringer("event", debugger.EventType_Paused).Msg("Debugger event")
	p.metrics.EventRaised(debugger.EventType_Paused.String())
	session := p.pauseSession
	e := p.newEvent()
	for _, h := range p.paused.snapshot() {
		if p.pauseSession != session {
			p.logger.Debug().Msg("Skipping paused handlers because process has resumed")
			p.metrics.BroadcastAborted()
			break
		}
		h.callback(e)
	}
	return nil
}

func (p *Process) raiseResumed() error {
	if err := p.assertRunning("raise resumed"); err != nil {
		return err
	}
	if err := p.checkReentrancy(debugger.EventType_Resumed); err != nil {
		return err
	}
	p.logger.Debug().Stringer("event", debugger.EventType_Resumed).Msg("Debugger event")
	p.metrics.EventRaised(debugger.EventType_Resumed.String())
	e := p.newEvent()
	for _, h := range p.resumed.snapshot() {
		h.callback(e)
	}
	return nil
}

func (p *Process) raiseExceptionThrown(ex debugger.Exception) error {
	if err := p.checkReentrancy(debugger.EventType_ExceptionThrown); err != nil {
		return err
	}
	p.logger.Debug().
		Stringer("event", debugger.EventType_ExceptionThrown).
		Str("type", ex.Type).
		Bool("unhandled", ex.Unhandled).
		Msg("Debugger event")
	p.metrics.EventRaised(debugger.EventType_ExceptionThrown.String())
	e := &debugger.ExceptionEvent{ProcessEvent: *p.newEvent(), Exception: ex}
	for _, h := range p.thrown.snapshot() {
		h.callback(e)
	}
	return nil
}

func (p *Process) raiseExited() error {
	if err := p.checkReentrancy(debugger.EventType_Exited); err != nil {
		return err
	}
	p.logger.Debug().Stringer("event", debugger.EventType_Exited).Msg("Debugger event")
	p.metrics.EventRaised(debugger.EventType_Exited.String())
	e := p.newEvent()
	for _, h := range p.exited.snapshot() {
		h.callback(e)
	}
	return nil
}

// raisePausedEvents sets up the environment for a new pause and raises the
// user events.
func (p *Process) raisePausedEvents() error {
	if err := p.assertPaused("raise paused events"); err != nil {
		return err
	}
	p.disableAllSteppers()
	p.selectMostRecentStackFrameWithLoadedSymbols()

	if p.pauseSession.reason == debugger.PausedReason_Exception && p.exception != nil {
		if err := p.raiseExceptionThrown(*p.exception); err != nil {
			return err
		}
		// The handlers could have resumed or terminated the process.
	}

	if p.IsPaused() && !p.HasExpired() {
		return p.raisePaused()
	}
	return nil
}
