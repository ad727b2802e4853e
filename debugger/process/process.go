package process

import (
	"github.com/wnxd/dbgcore/debugger"
	"github.com/wnxd/dbgcore/engine"
	internal "github.com/wnxd/dbgcore/internal/debugger"
)

type Option = internal.Option

var (
	WithLogger                  = internal.WithLogger
	WithTracer                  = internal.WithTracer
	WithWaitGuard               = internal.WithWaitGuard
	WithBreakTimeout            = internal.WithBreakTimeout
	WithPauseOnHandledException = internal.WithPauseOnHandledException
)

var _ debugger.Process = (*internal.Process)(nil)

// New attaches a process controller to eng. The returned process belongs to
// the calling goroutine: engine notifications are applied to it only while
// that goroutine runs one of the Wait methods.
func New(eng engine.Engine, opts ...Option) (debugger.Process, error) {
	p, err := internal.NewProcess(eng, opts...)
	if err != nil {
		return nil, err
	}
	return p, nil
}
