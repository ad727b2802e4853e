package debugger

import "io"

type EventType int

const (
	EventType_Paused EventType = iota
	EventType_Resumed
	EventType_ExceptionThrown
	EventType_Exited
)

type ProcessEvent struct {
	Process      Process
	PauseSession PauseSession
}

type ExceptionEvent struct {
	ProcessEvent
	Exception Exception
}

type ProcessCallback = func(e *ProcessEvent)
type ExceptionCallback = func(e *ExceptionEvent)

// EventManager registers observers of process state changes. Handlers run on
// the controller context in registration order. Closing the returned handler
// unregisters it.
type EventManager interface {
	OnPaused(callback ProcessCallback) (EventHandler, error)
	OnResumed(callback ProcessCallback) (EventHandler, error)
	OnExceptionThrown(callback ExceptionCallback) (EventHandler, error)
	OnExited(callback ProcessCallback) (EventHandler, error)
}

type EventHandler interface {
	io.Closer
	Type() EventType
}

func (t EventType) String() string {
	switch t {
	case EventType_Paused:
		return "paused"
	case EventType_Resumed:
		return "resumed"
	case EventType_ExceptionThrown:
		return "exception_thrown"
	case EventType_Exited:
		return "exited"
	}
	return "unknown"
}
