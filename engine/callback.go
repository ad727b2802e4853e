package engine

import "github.com/wnxd/dbgcore/debugger"

// Callback receives engine notifications. Methods are invoked on the engine's
// own goroutine; the debuggee is stopped for the duration of each
// notification except ExitProcess.
type Callback interface {
	CreateThread(thread debugger.Thread)
	ExitThread(thread debugger.Thread)
	LoadModule(module debugger.Module)
	UnloadModule(module debugger.Module)
	Breakpoint(thread debugger.Thread)
	StepComplete(thread debugger.Thread, stepper debugger.Stepper)
	Break(thread debugger.Thread)
	Exception(thread debugger.Thread, exception any, unhandled bool)
	ExitProcess(exitCode int)
}
