package simulator

import (
	"sync"

	"github.com/wnxd/dbgcore/debugger"
)

type Module struct {
	name    string
	base    uint64
	size    uint64
	symbols bool
}

type Frame struct {
	function string
	module   *Module
}

type Stepper struct {
	mu    sync.Mutex
	pause bool
}

// Thread is safe for use from both the engine and the controller goroutine.
type Thread struct {
	mu       sync.Mutex
	id       int
	valid    bool
	frames   []*Frame
	selected debugger.StackFrame
	steppers []*Stepper
}

func NewModule(name string, base, size uint64, symbols bool) *Module {
	return &Module{name: name, base: base, size: size, symbols: symbols}
}

func (m *Module) Name() string             { return m.name }
func (m *Module) Region() (uint64, uint64) { return m.base, m.size }
func (m *Module) BaseAddr() uint64         { return m.base }
func (m *Module) HasSymbols() bool         { return m.symbols }

func NewFrame(function string, module *Module) *Frame {
	return &Frame{function: function, module: module}
}

func (f *Frame) Function() string { return f.function }

func (f *Frame) Module() debugger.Module {
	if f.module == nil {
		return nil
	}
	return f.module
}

func (f *Frame) HasSymbols() bool {
	return f.module != nil && f.module.symbols
}

func NewStepper(pause bool) *Stepper {
	return &Stepper{pause: pause}
}

func (s *Stepper) PauseWhenComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pause
}

func (s *Stepper) SetPauseWhenComplete(pause bool) {
	s.mu.Lock()
	s.pause = pause
	s.mu.Unlock()
}

// NewThread creates a valid thread. frames are ordered from the most recent.
func NewThread(id int, frames ...*Frame) *Thread {
	return &Thread{id: id, valid: true, frames: frames}
}

func (t *Thread) ID() int {
	return t.id
}

func (t *Thread) IsInValidState() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.valid
}

func (t *Thread) Invalidate() {
	t.mu.Lock()
	t.valid = false
	t.mu.Unlock()
}

func (t *Thread) SelectedFrame() debugger.StackFrame {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selected
}

func (t *Thread) SetSelectedFrame(frame debugger.StackFrame) {
	t.mu.Lock()
	t.selected = frame
	t.mu.Unlock()
}

func (t *Thread) MostRecentFrameWithSymbols() debugger.StackFrame {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, frame := range t.frames {
		if frame.HasSymbols() {
			return frame
		}
	}
	return nil
}

func (t *Thread) AddStepper(stepper *Stepper) {
	t.mu.Lock()
	t.steppers = append(t.steppers, stepper)
	t.mu.Unlock()
}

func (t *Thread) Steppers() []debugger.Stepper {
	t.mu.Lock()
	defer t.mu.Unlock()
	steppers := make([]debugger.Stepper, len(t.steppers))
	for i, s := range t.steppers {
		steppers[i] = s
	}
	return steppers
}
