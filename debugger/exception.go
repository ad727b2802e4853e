package debugger

import (
	"fmt"

	"github.com/modern-go/reflect2"
)

// Exception is a snapshot of the exception that paused a thread.
type Exception struct {
	Thread    Thread
	Value     any
	Type      string
	Unhandled bool
}

func NewException(thread Thread, value any, unhandled bool) Exception {
	ex := Exception{
		Thread:    thread,
		Value:     value,
		Unhandled: unhandled,
	}
	if value != nil {
		ex.Type = reflect2.TypeOf(value).String()
	}
	return ex
}

func (ex Exception) String() string {
	state := "handled"
	if ex.Unhandled {
		state = "unhandled"
	}
	if ex.Thread == nil {
		return fmt.Sprintf("[%s] %s: %v", state, ex.Type, ex.Value)
	}
	return fmt.Sprintf("[%s] %s: %v, thread: %d", state, ex.Type, ex.Value, ex.Thread.ID())
}
