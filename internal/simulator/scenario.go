package simulator

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type StepKind string

const (
	StepThread       StepKind = "thread"
	StepThreadExit   StepKind = "thread_exit"
	StepModule       StepKind = "module"
	StepModuleUnload StepKind = "module_unload"
	StepBreakpoint   StepKind = "breakpoint"
	StepStep         StepKind = "step"
	StepBreak        StepKind = "break"
	StepException    StepKind = "exception"
	StepExit         StepKind = "exit"
)

// Scenario is the script replayed by the simulated engine, one step per
// continue.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

type Step struct {
	Kind  StepKind      `yaml:"kind"`
	Delay time.Duration `yaml:"delay,omitempty"`

	Thread int         `yaml:"thread,omitempty"`
	Frames []FrameSpec `yaml:"frames,omitempty"`

	Module  string `yaml:"module,omitempty"`
	Base    uint64 `yaml:"base,omitempty"`
	Size    uint64 `yaml:"size,omitempty"`
	Symbols bool   `yaml:"symbols,omitempty"`

	// Pause is the pause-when-complete flag of the stepper created by a step.
	Pause bool `yaml:"pause,omitempty"`

	Exception string `yaml:"exception,omitempty"`
	Unhandled bool   `yaml:"unhandled,omitempty"`

	ExitCode int `yaml:"exit_code,omitempty"`
}

type FrameSpec struct {
	Function string `yaml:"function"`
	Module   string `yaml:"module,omitempty"`
}

// SimulatedException is the exception value delivered for exception steps.
type SimulatedException struct {
	Message string
}

func (e *SimulatedException) Error() string {
	return e.Message
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every step refers only to threads and modules created
// by earlier steps.
func (s *Scenario) Validate() error {
	threads := make(map[int]bool)
	modules := make(map[string]bool)
	for i, step := range s.Steps {
		if step.Delay < 0 {
			return fmt.Errorf("step %d: negative delay", i)
		}
		switch step.Kind {
		case StepThread:
			if threads[step.Thread] {
				return fmt.Errorf("step %d: thread %d already exists", i, step.Thread)
			}
			for _, f := range step.Frames {
				if f.Module != "" && !modules[f.Module] {
					return fmt.Errorf("step %d: frame %s refers to unknown module %q", i, f.Function, f.Module)
				}
			}
			threads[step.Thread] = true
		case StepThreadExit, StepBreakpoint, StepStep, StepBreak, StepException:
			if !threads[step.Thread] {
				return fmt.Errorf("step %d: unknown thread %d", i, step.Thread)
			}
			if step.Kind == StepThreadExit {
				delete(threads, step.Thread)
			}
			if step.Kind == StepException && step.Exception == "" {
				return fmt.Errorf("step %d: exception message is required", i)
			}
		case StepModule:
			if step.Module == "" {
				return fmt.Errorf("step %d: module name is required", i)
			}
			modules[step.Module] = true
		case StepModuleUnload:
			if !modules[step.Module] {
				return fmt.Errorf("step %d: unknown module %q", i, step.Module)
			}
			delete(modules, step.Module)
		case StepExit:
		default:
			return fmt.Errorf("step %d: unknown kind %q", i, step.Kind)
		}
	}
	return nil
}
