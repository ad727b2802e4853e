package debugger

import (
	"errors"
	"fmt"
)

var (
	ErrNotPaused            = errors.New("process is not paused")
	ErrNotRunning           = errors.New("process is not running")
	ErrDebuggeeStateCleared = errors.New("debuggee state already cleared")
	ErrReentrant            = errors.New("can not raise event within callback")
	ErrProcessExited        = errors.New("process exited")
	ErrCallbackState        = errors.New("invalid state at the start of callback")
	ErrCallbackNil          = errors.New("callback is nil")
	ErrModuleNotFound       = errors.New("module not found")
	ErrProcessClosed        = errors.New("process closed")
)

// StateError reports an operation attempted in the wrong process state.
type StateError struct {
	Op    string
	State ProcessState
	Err   error
}

// ReentrancyError reports an event raised from inside an engine callback.
type ReentrancyError struct {
	Event EventType
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %v (state: %v)", e.Op, e.Err, e.State)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

func (e *ReentrancyError) Error() string {
	return fmt.Sprintf("[%v] %v", e.Event, ErrReentrant)
}

func (e *ReentrancyError) Unwrap() error {
	return ErrReentrant
}
