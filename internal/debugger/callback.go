package debugger

import (
	"github.com/wnxd/dbgcore/debugger"
	"github.com/wnxd/dbgcore/internal/dispatch"
)

// callbackSwitch runs on the engine's goroutine. It only queues work: every
// notification is handled later on the controller context.
type callbackSwitch struct {
	dispatcher dispatch.Dispatcher
	handler    *callbackHandler
}

type callbackHandler struct {
	p               *Process
	inCallback      bool
	pauseOnNextExit bool
}

func newCallbackSwitch(dispatcher dispatch.Dispatcher, handler *callbackHandler) *callbackSwitch {
	return &callbackSwitch{dispatcher: dispatcher, handler: handler}
}

func newCallbackHandler(p *Process) *callbackHandler {
	return &callbackHandler{p: p}
}

func (s *callbackSwitch) post(call dispatch.Call) {
	if !s.dispatcher.Post(call) {
		s.handler.p.logger.Warn().Msg("Dropping engine callback after close")
	}
}

func (s *callbackSwitch) CreateThread(thread debugger.Thread) {
	s.post(func() error { return s.handler.createThread(thread) })
}

func (s *callbackSwitch) ExitThread(thread debugger.Thread) {
	s.post(func() error { return s.handler.exitThread(thread) })
}

func (s *callbackSwitch) LoadModule(module debugger.Module) {
	s.post(func() error { return s.handler.loadModule(module) })
}

func (s *callbackSwitch) UnloadModule(module debugger.Module) {
	s.post(func() error { return s.handler.unloadModule(module) })
}

func (s *callbackSwitch) Breakpoint(thread debugger.Thread) {
	s.post(func() error { return s.handler.breakpoint(thread) })
}

func (s *callbackSwitch) StepComplete(thread debugger.Thread, stepper debugger.Stepper) {
	s.post(func() error { return s.handler.stepComplete(thread, stepper) })
}

func (s *callbackSwitch) Break(thread debugger.Thread) {
	s.post(func() error { return s.handler.userBreak(thread) })
}

func (s *callbackSwitch) Exception(thread debugger.Thread, exception any, unhandled bool) {
	s.post(func() error { return s.handler.exception(thread, exception, unhandled) })
}

func (s *callbackSwitch) ExitProcess(exitCode int) {
	s.post(func() error { return s.handler.exitProcess(exitCode) })
}

// InCallback reports whether an engine callback is being handled right now.
func (h *callbackHandler) InCallback() bool {
	return h.inCallback
}

func (h *callbackHandler) enter(reason debugger.PausedReason, name string) error {
	p := h.p
	h.inCallback = true
	p.logger.Trace().Str("callback", name).Msg("Callback")

	// A callback queued before a Break arrives after it: undo the forced
	// break and handle the callback as usual, but stay paused afterwards.
	if p.IsPaused() && p.pauseSession.reason == debugger.PausedReason_ForcedBreak {
		p.logger.Debug().Str("callback", name).Msg("Processing post-break callback")
		if err := p.asyncContinue(debugger.DebuggeeStateAction_Keep); err != nil {
			return err
		}
		if err := p.notifyPaused(reason); err != nil {
			return err
		}
		h.pauseOnNextExit = true
		return nil
	}

	if p.IsRunning() {
		return p.notifyPaused(reason)
	}

	return &debugger.StateError{Op: name, State: p.State(), Err: debugger.ErrCallbackState}
}

// exit finishes a callback. pause reports whether the callback asked the
// debuggee to stay paused; the request is carried over queued callbacks until
// the last one has been handled.
func (h *callbackHandler) exit(pause bool) error {
	p := h.p
	if pause {
		h.pauseOnNextExit = true
	}
	if p.engine.HasQueuedCallbacks() {
		p.logger.Trace().Bool("pause_on_next_exit", h.pauseOnNextExit).Msg("Process has queued callbacks")
		return p.asyncContinue(debugger.DebuggeeStateAction_Keep)
	}

	pause = h.pauseOnNextExit
	h.pauseOnNextExit = false
	if !pause {
		return p.asyncContinue(debugger.DebuggeeStateAction_Keep)
	}

	// Raise the pause events outside the callback.
	session := p.pauseSession
	p.dispatcher.Post(func() error {
		if p.expired || p.pauseSession != session {
			p.logger.Debug().Msg("Skipping paused events for a finished pause session")
			return nil
		}
		return p.raisePausedEvents()
	})
	return nil
}

// handle brackets fn with enter and exit. fn reports whether the debuggee
// should stay paused once the callback returns.
func (h *callbackHandler) handle(reason debugger.PausedReason, name string, fn func() bool) error {
	defer func() { h.inCallback = false }()
	if err := h.enter(reason, name); err != nil {
		return err
	}
	return h.exit(fn())
}

func (h *callbackHandler) createThread(thread debugger.Thread) error {
	return h.handle(debugger.PausedReason_Other, "CreateThread", func() bool {
		h.p.addThread(thread)
		return false
	})
}

func (h *callbackHandler) exitThread(thread debugger.Thread) error {
	return h.handle(debugger.PausedReason_Other, "ExitThread", func() bool {
		h.p.removeThread(thread)
		return false
	})
}

func (h *callbackHandler) loadModule(module debugger.Module) error {
	return h.handle(debugger.PausedReason_Other, "LoadModule", func() bool {
		h.p.load(module)
		return false
	})
}

func (h *callbackHandler) unloadModule(module debugger.Module) error {
	return h.handle(debugger.PausedReason_Other, "UnloadModule", func() bool {
		h.p.unload(module)
		return false
	})
}

func (h *callbackHandler) breakpoint(thread debugger.Thread) error {
	return h.handle(debugger.PausedReason_Breakpoint, "Breakpoint", func() bool {
		h.p.SetSelectedThread(thread)
		return true
	})
}

func (h *callbackHandler) stepComplete(thread debugger.Thread, stepper debugger.Stepper) error {
	return h.handle(debugger.PausedReason_StepComplete, "StepComplete", func() bool {
		if stepper == nil || !stepper.PauseWhenComplete() {
			h.p.logger.Trace().Msg("Step completed without pause request")
			return false
		}
		h.p.SetSelectedThread(thread)
		return true
	})
}

func (h *callbackHandler) userBreak(thread debugger.Thread) error {
	return h.handle(debugger.PausedReason_Break, "Break", func() bool {
		h.p.SetSelectedThread(thread)
		return true
	})
}

func (h *callbackHandler) exception(thread debugger.Thread, value any, unhandled bool) error {
	return h.handle(debugger.PausedReason_Exception, "Exception", func() bool {
		if !unhandled && !h.p.pauseOnHandledException {
			h.p.logger.Trace().Msg("Ignoring handled exception")
			return false
		}
		ex := debugger.NewException(thread, value, unhandled)
		h.p.exception = &ex
		h.p.SetSelectedThread(thread)
		return true
	})
}

// exitProcess can arrive in any state, so it bypasses enter and exit.
func (h *callbackHandler) exitProcess(exitCode int) error {
	h.p.logger.Trace().Str("callback", "ExitProcess").Msg("Callback")
	return h.p.notifyExited(exitCode)
}
