package debugger

import (
	"github.com/google/uuid"

	"github.com/wnxd/dbgcore/debugger"
)

type pauseSession struct {
	id      uuid.UUID
	seq     uint64
	reason  debugger.PausedReason
	expired bool
}

type debuggeeState struct {
	id      uuid.UUID
	seq     uint64
	expired bool
}

func newPauseSession(seq uint64, reason debugger.PausedReason) *pauseSession {
	return &pauseSession{id: uuid.New(), seq: seq, reason: reason}
}

func newDebuggeeState(seq uint64) *debuggeeState {
	return &debuggeeState{id: uuid.New(), seq: seq}
}

func (s *pauseSession) ID() uuid.UUID                 { return s.id }
func (s *pauseSession) Seq() uint64                   { return s.seq }
func (s *pauseSession) Reason() debugger.PausedReason { return s.reason }
func (s *pauseSession) HasExpired() bool              { return s.expired }
func (s *pauseSession) notifyHasExpired()             { s.expired = true }

func (s *debuggeeState) ID() uuid.UUID     { return s.id }
func (s *debuggeeState) Seq() uint64       { return s.seq }
func (s *debuggeeState) HasExpired() bool  { return s.expired }
func (s *debuggeeState) notifyHasExpired() { s.expired = true }

// PauseSession identifies the current pause episode; nil while running.
func (p *Process) PauseSession() debugger.PauseSession {
	if p.pauseSession == nil {
		return nil
	}
	return p.pauseSession
}

// DebuggeeState identifies the current span of valid debuggee state; nil once
// cleared by a resume.
func (p *Process) DebuggeeState() debugger.DebuggeeState {
	if p.debuggeeState == nil {
		return nil
	}
	return p.debuggeeState
}

// notifyPaused puts the process into the paused state. It raises no event.
func (p *Process) notifyPaused(reason debugger.PausedReason) error {
	if err := p.assertRunning("notify paused"); err != nil {
		return err
	}
	p.pauseSession = newPauseSession(p.pauseSeq.Next(), reason)
	if p.debuggeeState == nil {
		p.debuggeeState = newDebuggeeState(p.stateSeq.Next())
	}
	p.metrics.Paused(reason.String())
	p.logger.Debug().
		Stringer("reason", reason).
		Uint64("pause_session", p.pauseSession.seq).
		Uint64("debuggee_state", p.debuggeeState.seq).
		Msg("Process paused")
	return nil
}

// notifyResumed puts the process into the running state. It raises no event.
func (p *Process) notifyResumed(action debugger.DebuggeeStateAction) error {
	if err := p.assertPaused("notify resumed"); err != nil {
		return err
	}
	oldPauseSession := p.pauseSession
	p.pauseSession = nil
	oldPauseSession.notifyHasExpired()
	if action == debugger.DebuggeeStateAction_Clear {
		if p.debuggeeState == nil {
			return &debugger.StateError{Op: "notify resumed", State: p.State(), Err: debugger.ErrDebuggeeStateCleared}
		}
		oldDebuggeeState := p.debuggeeState
		p.debuggeeState = nil
		oldDebuggeeState.notifyHasExpired()
		p.exception = nil
	}
	p.metrics.Resumed(action.String())
	p.logger.Debug().
		Stringer("action", action).
		Uint64("pause_session", oldPauseSession.seq).
		Msg("Process resumed")
	return nil
}
