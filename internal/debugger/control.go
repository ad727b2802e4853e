package debugger

import (
	"context"
	"fmt"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wnxd/dbgcore/debugger"
)

func (p *Process) startSpan(name string) trace.Span {
	_, span := p.tracer.Start(context.Background(), name,
		trace.WithAttributes(attribute.String("process.state", p.State().String())))
	return span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Break stops the running process and raises the pause events.
func (p *Process) Break() (err error) {
	span := p.startSpan("process.Break")
	defer func() { endSpan(span, err) }()

	if err = p.assertAlive("break"); err != nil {
		return
	}
	if err = p.assertRunning("break"); err != nil {
		return
	}

	// The stop result carries no bookkeeping meaning; completion is observed
	// through the pause session created below.
	if stopErr := p.engine.Stop(p.breakTimeout); stopErr != nil {
		p.logger.Debug().Err(stopErr).Msg("Engine stop request failed")
	}

	if err = p.notifyPaused(debugger.PausedReason_ForcedBreak); err != nil {
		return
	}
	return p.raisePausedEvents()
}

// Continue resumes the process and blocks until it pauses again.
func (p *Process) Continue() error {
	if err := p.AsyncContinue(); err != nil {
		return err
	}
	return p.WaitForPause()
}

// AsyncContinue resumes the process, discarding the debuggee state.
func (p *Process) AsyncContinue() error {
	return p.asyncContinue(debugger.DebuggeeStateAction_Clear)
}

// asyncContinue updates the bookkeeping before the engine is told to
// continue, so a notification delivered right after the resume already sees
// the process as running. Only a Clear resume raises Resumed.
func (p *Process) asyncContinue(action debugger.DebuggeeStateAction) (err error) {
	span := p.startSpan("process.AsyncContinue")
	span.SetAttributes(attribute.String("action", action.String()))
	defer func() { endSpan(span, err) }()

	if err = p.assertAlive("continue"); err != nil {
		return
	}
	if err = p.assertPaused("continue"); err != nil {
		return
	}

	if err = p.notifyResumed(action); err != nil {
		return
	}
	if err = p.engine.Continue(0); err != nil {
		return fmt.Errorf("engine continue: %w", err)
	}

	if action == debugger.DebuggeeStateAction_Clear {
		return p.raiseResumed()
	}
	return nil
}

// Terminate asks the engine to kill the process. It returns before the
// process is gone: the process expires when the engine reports the exit.
// A paused process is not resumed first.
func (p *Process) Terminate() (err error) {
	span := p.startSpan("process.Terminate")
	defer func() { endSpan(span, err) }()

	if err = p.assertAlive("terminate"); err != nil {
		return
	}

	// Let callbacks that are already in flight reach the queue first.
	runtime.Gosched()

	// The engine requires both requests, in this order.
	if stopErr := p.engine.Stop(p.breakTimeout); stopErr != nil {
		p.logger.Debug().Err(stopErr).Msg("Engine stop request failed")
	}
	if err = p.engine.Terminate(0); err != nil {
		return fmt.Errorf("engine terminate: %w", err)
	}

	p.logger.Info().Stringer("state", p.State()).Msg("Terminate requested")
	return nil
}
