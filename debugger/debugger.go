package debugger

import (
	"io"
	"time"
)

type Process interface {
	io.Closer
	State() ProcessState
	PauseSession() PauseSession
	DebuggeeState() DebuggeeState
	IsRunning() bool
	IsPaused() bool
	HasExpired() bool
	ExitCode() int
	PauseOnHandledException() bool
	SetPauseOnHandledException(pause bool)
	CurrentException() (Exception, bool)
	ThreadManager
	ModuleManager
	EventManager
	ProcessControl
}

type ProcessControl interface {
	Break() error
	Continue() error
	AsyncContinue() error
	Terminate() error
	WaitForPause() error
	WaitForPauseTimeout(timeout time.Duration) error
	WaitForExit() error
}
