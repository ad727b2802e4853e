package debugger

type Thread interface {
	ID() int
	IsInValidState() bool
	SelectedFrame() StackFrame
	SetSelectedFrame(frame StackFrame)
	MostRecentFrameWithSymbols() StackFrame
	Steppers() []Stepper
}

type Stepper interface {
	PauseWhenComplete() bool
	SetPauseWhenComplete(pause bool)
}

type StackFrame interface {
	Function() string
	Module() Module
	HasSymbols() bool
}

type ThreadManager interface {
	Threads() []Thread
	SelectedThread() Thread
	SetSelectedThread(thread Thread)
}
