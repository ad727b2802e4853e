package debugger

import (
	"math"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/wnxd/dbgcore/debugger"
	"github.com/wnxd/dbgcore/engine"
	"github.com/wnxd/dbgcore/internal/dispatch"
	"github.com/wnxd/dbgcore/internal/metrics"
)

const (
	DefaultWaitGuard    = 10 * time.Millisecond
	DefaultBreakTimeout = time.Duration(math.MaxInt64)

	tracerName = "github.com/wnxd/dbgcore/process"
)

type Options struct {
	Logger                  zerolog.Logger
	Metrics                 *metrics.Metrics
	Tracer                  trace.Tracer
	Dispatcher              dispatch.Dispatcher
	WaitGuard               time.Duration
	BreakTimeout            time.Duration
	PauseOnHandledException bool
}

type Option func(*Options)

func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(o *Options) { o.Tracer = tracer }
}

func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(o *Options) { o.Dispatcher = d }
}

func WithWaitGuard(guard time.Duration) Option {
	return func(o *Options) { o.WaitGuard = guard }
}

func WithBreakTimeout(timeout time.Duration) Option {
	return func(o *Options) { o.BreakTimeout = timeout }
}

func WithPauseOnHandledException(pause bool) Option {
	return func(o *Options) { o.PauseOnHandledException = pause }
}

// Process is the controller-side view of a debuggee. All fields belong to the
// controller context: engine notifications reach them only through calls
// queued on the dispatcher and performed by the wait loop.
type Process struct {
	engine       engine.Engine
	dispatcher   dispatch.Dispatcher
	callback     *callbackHandler
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	waitGuard    time.Duration
	breakTimeout time.Duration

	pauseSession  *pauseSession
	debuggeeState *debuggeeState
	pauseSeq      debugger.Sequence[uint64]
	stateSeq      debugger.Sequence[uint64]
	exception     *debugger.Exception

	pauseOnHandledException bool
	expired                 bool
	closed                  bool
	exitCode                int

	threadManager
	moduleManager
	eventManager
}

func NewProcess(eng engine.Engine, opts ...Option) (*Process, error) {
	o := Options{
		Logger:       zerolog.Nop(),
		WaitGuard:    DefaultWaitGuard,
		BreakTimeout: DefaultBreakTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Tracer == nil {
		o.Tracer = otel.Tracer(tracerName)
	}
	if o.Dispatcher == nil {
		var qopts []dispatch.QueueOption
		if o.Metrics != nil {
			qopts = append(qopts, dispatch.WithPerformedCounter(o.Metrics.CallsPerformed))
		}
		o.Dispatcher = dispatch.NewQueue(qopts...)
	}
	p := &Process{
		engine:                  eng,
		dispatcher:              o.Dispatcher,
		logger:                  o.Logger,
		metrics:                 o.Metrics,
		tracer:                  o.Tracer,
		waitGuard:               o.WaitGuard,
		breakTimeout:            o.BreakTimeout,
		pauseOnHandledException: o.PauseOnHandledException,
	}
	p.eventManager.ctor()
	p.callback = newCallbackHandler(p)
	if err := eng.Start(newCallbackSwitch(p.dispatcher, p.callback)); err != nil {
		return nil, err
	}
	p.logger.Debug().Msg("Process attached")
	return p, nil
}

func (p *Process) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if closer, ok := p.dispatcher.(interface{ Close() error }); ok {
		closer.Close()
	}
	p.moduleManager.dtor()
	return p.engine.Close()
}

func (p *Process) State() debugger.ProcessState {
	if p.expired {
		return debugger.ProcessState_Expired
	} else if p.pauseSession != nil {
		return debugger.ProcessState_Paused
	}
	return debugger.ProcessState_Running
}

func (p *Process) IsRunning() bool {
	return p.pauseSession == nil
}

func (p *Process) IsPaused() bool {
	return !p.IsRunning()
}

func (p *Process) HasExpired() bool {
	return p.expired
}

func (p *Process) ExitCode() int {
	return p.exitCode
}

func (p *Process) PauseOnHandledException() bool {
	return p.pauseOnHandledException
}

func (p *Process) SetPauseOnHandledException(pause bool) {
	p.pauseOnHandledException = pause
}

func (p *Process) CurrentException() (debugger.Exception, bool) {
	if p.exception == nil {
		return debugger.Exception{}, false
	}
	return *p.exception, true
}

func (p *Process) assertPaused(op string) error {
	if p.IsRunning() {
		return &debugger.StateError{Op: op, State: p.State(), Err: debugger.ErrNotPaused}
	}
	return nil
}

func (p *Process) assertRunning(op string) error {
	if p.IsPaused() {
		return &debugger.StateError{Op: op, State: p.State(), Err: debugger.ErrNotRunning}
	}
	return nil
}

func (p *Process) assertAlive(op string) error {
	if p.closed {
		return &debugger.StateError{Op: op, State: p.State(), Err: debugger.ErrProcessClosed}
	} else if p.expired {
		return &debugger.StateError{Op: op, State: p.State(), Err: debugger.ErrProcessExited}
	}
	return nil
}

func (p *Process) notifyExited(exitCode int) error {
	if p.expired {
		return nil
	}
	p.expired = true
	p.exitCode = exitCode
	if p.pauseSession != nil {
		p.pauseSession.notifyHasExpired()
	}
	if p.debuggeeState != nil {
		p.debuggeeState.notifyHasExpired()
	}
	p.metrics.Exited()
	p.logger.Info().Int("exit_code", exitCode).Msg("Process exited")
	return p.raiseExited()
}
