// Package simulator provides an engine.Engine that replays a scripted
// debuggee. Stop and continue requests nest the way native debugging APIs
// count them: every delivered notification also stops the debuggee until it
// is continued.
package simulator

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wnxd/dbgcore/engine"
)

type Engine struct {
	mu       sync.Mutex
	scenario *Scenario
	cursor   int
	callback engine.Callback
	logger   zerolog.Logger
	stops    int
	inflight bool
	started  bool
	exited   bool
	threads  map[int]*Thread
	modules  map[string]*Module
	closed   chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

func New(scenario *Scenario, logger zerolog.Logger) *Engine {
	return &Engine{
		scenario: scenario,
		logger:   logger,
		threads:  make(map[int]*Thread),
		modules:  make(map[string]*Module),
		closed:   make(chan struct{}),
	}
}

func (e *Engine) Start(callback engine.Callback) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return engine.ErrAlreadyStarted
	}
	e.started = true
	e.callback = callback
	e.scheduleLocked()
	return nil
}

func (e *Engine) Close() error {
	e.once.Do(func() { close(e.closed) })
	e.wg.Wait()
	return nil
}

func (e *Engine) Stop(timeout time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return engine.ErrNotStarted
	} else if e.exited {
		return engine.ErrTerminated
	}
	e.stops++
	e.logger.Trace().Int("stops", e.stops).Msg("Stop")
	return nil
}

func (e *Engine) Continue(flags uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return engine.ErrNotStarted
	} else if e.exited {
		return engine.ErrTerminated
	}
	if e.stops > 0 {
		e.stops--
	}
	e.logger.Trace().Int("stops", e.stops).Msg("Continue")
	e.scheduleLocked()
	return nil
}

// Terminate kills the debuggee. The exit is reported asynchronously.
func (e *Engine) Terminate(exitCode int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return engine.ErrNotStarted
	} else if e.exited {
		return engine.ErrTerminated
	}
	e.exited = true
	callback := e.callback
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		callback.ExitProcess(exitCode)
	}()
	return nil
}

// HasQueuedCallbacks is always false: the next step is only scheduled once
// the debuggee runs again.
func (e *Engine) HasQueuedCallbacks() bool {
	return false
}

// Remaining reports how many scenario steps have not been delivered yet.
func (e *Engine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.scenario.Steps) - e.cursor
}

func (e *Engine) scheduleLocked() {
	if e.stops > 0 || e.inflight || e.exited || e.cursor >= len(e.scenario.Steps) {
		return
	}
	step := e.scenario.Steps[e.cursor]
	e.cursor++
	e.inflight = true
	e.wg.Add(1)
	go e.deliver(step)
}

func (e *Engine) deliver(step Step) {
	defer e.wg.Done()
	if step.Delay > 0 {
		timer := time.NewTimer(step.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-e.closed:
			return
		}
	}

	e.mu.Lock()
	e.inflight = false
	if e.exited {
		e.mu.Unlock()
		return
	}
	callback := e.callback
	notify := e.prepareLocked(step)
	if step.Kind == StepExit {
		e.exited = true
	} else {
		e.stops++
	}
	e.mu.Unlock()

	e.logger.Trace().Str("kind", string(step.Kind)).Msg("Deliver")
	notify(callback)
}

// prepareLocked updates the simulated debuggee for step and returns the
// notification to deliver outside the lock.
func (e *Engine) prepareLocked(step Step) func(engine.Callback) {
	thread := e.threads[step.Thread]
	switch step.Kind {
	case StepThread:
		frames := make([]*Frame, 0, len(step.Frames))
		for _, f := range step.Frames {
			frames = append(frames, NewFrame(f.Function, e.modules[f.Module]))
		}
		thread = NewThread(step.Thread, frames...)
		e.threads[step.Thread] = thread
		return func(cb engine.Callback) { cb.CreateThread(thread) }
	case StepThreadExit:
		delete(e.threads, step.Thread)
		thread.Invalidate()
		return func(cb engine.Callback) { cb.ExitThread(thread) }
	case StepModule:
		module := NewModule(step.Module, step.Base, step.Size, step.Symbols)
		e.modules[step.Module] = module
		return func(cb engine.Callback) { cb.LoadModule(module) }
	case StepModuleUnload:
		module := e.modules[step.Module]
		delete(e.modules, step.Module)
		return func(cb engine.Callback) { cb.UnloadModule(module) }
	case StepBreakpoint:
		return func(cb engine.Callback) { cb.Breakpoint(thread) }
	case StepStep:
		stepper := NewStepper(step.Pause)
		thread.AddStepper(stepper)
		return func(cb engine.Callback) { cb.StepComplete(thread, stepper) }
	case StepBreak:
		return func(cb engine.Callback) { cb.Break(thread) }
	case StepException:
		ex := &SimulatedException{Message: step.Exception}
		unhandled := step.Unhandled
		return func(cb engine.Callback) { cb.Exception(thread, ex, unhandled) }
	case StepExit:
		exitCode := step.ExitCode
		return func(cb engine.Callback) { cb.ExitProcess(exitCode) }
	}
	return func(engine.Callback) {}
}
