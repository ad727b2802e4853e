package debugger

type ProcessState int

const (
	ProcessState_Running ProcessState = iota
	ProcessState_Paused
	ProcessState_Expired
)

type PausedReason int

const (
	PausedReason_Other PausedReason = iota
	PausedReason_ForcedBreak
	PausedReason_Exception
	PausedReason_StepComplete
	PausedReason_Breakpoint
	PausedReason_Break
)

// DebuggeeStateAction tells a resume whether the current DebuggeeState
// survives it.
type DebuggeeStateAction int

const (
	DebuggeeStateAction_Keep DebuggeeStateAction = iota
	DebuggeeStateAction_Clear
)

func (s ProcessState) String() string {
	switch s {
	case ProcessState_Running:
		return "running"
	case ProcessState_Paused:
		return "paused"
	case ProcessState_Expired:
		return "expired"
	}
	return "unknown"
}

func (r PausedReason) String() string {
	switch r {
	case PausedReason_Other:
		return "other"
	case PausedReason_ForcedBreak:
		return "forced_break"
	case PausedReason_Exception:
		return "exception"
	case PausedReason_StepComplete:
		return "step_complete"
	case PausedReason_Breakpoint:
		return "breakpoint"
	case PausedReason_Break:
		return "break"
	}
	return "unknown"
}

func (a DebuggeeStateAction) String() string {
	switch a {
	case DebuggeeStateAction_Keep:
		return "keep"
	case DebuggeeStateAction_Clear:
		return "clear"
	}
	return "unknown"
}
