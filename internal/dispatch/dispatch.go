// Package dispatch marshals calls from engine goroutines onto the single
// controller goroutine that owns the debugged process.
package dispatch

import (
	"fmt"
	"time"
)

// Call is a unit of work queued for the controller context.
type Call = func() error

// Dispatcher is the callback channel between the engine and the controller.
// Post is safe from any goroutine; the remaining methods belong to the
// controller context.
type Dispatcher interface {
	Post(call Call) bool
	Pending() int
	WaitForCall()
	WaitForCallTimeout(timeout time.Duration) bool
	PerformCall() error
	PerformAllCalls() error
}

// PanicError is returned when a queued call panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("[Panic] queued call: %v", e.Value)
}
