package engine

import (
	"io"
	"time"
)

// Engine is the native debugging engine. Every method is a request: its
// outcome, including process exit, is reported later through Callback.
type Engine interface {
	io.Closer
	Start(callback Callback) error
	Stop(timeout time.Duration) error
	Continue(flags uint32) error
	Terminate(exitCode int) error
	HasQueuedCallbacks() bool
}
