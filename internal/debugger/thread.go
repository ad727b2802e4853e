package debugger

import (
	"slices"

	"github.com/wnxd/dbgcore/debugger"
)

type threadManager struct {
	threads  []debugger.Thread
	selected debugger.Thread
}

func (tm *threadManager) addThread(thread debugger.Thread) {
	if !slices.Contains(tm.threads, thread) {
		tm.threads = append(tm.threads, thread)
	}
}

func (tm *threadManager) removeThread(thread debugger.Thread) {
	tm.threads = slices.DeleteFunc(tm.threads, func(t debugger.Thread) bool { return t == thread })
	if tm.selected == thread {
		tm.selected = nil
	}
}

func (tm *threadManager) Threads() []debugger.Thread {
	return slices.Clone(tm.threads)
}

func (tm *threadManager) SelectedThread() debugger.Thread {
	return tm.selected
}

func (tm *threadManager) SetSelectedThread(thread debugger.Thread) {
	tm.selected = thread
}

func (tm *threadManager) selectSomeThread() {
	if tm.selected != nil && !tm.selected.IsInValidState() {
		tm.selected = nil
	}
	if tm.selected == nil {
		for _, thread := range tm.threads {
			if thread.IsInValidState() {
				tm.selected = thread
				break
			}
		}
	}
}

func (tm *threadManager) selectMostRecentStackFrameWithLoadedSymbols() {
	tm.selectSomeThread()
	if tm.selected != nil {
		tm.selected.SetSelectedFrame(tm.selected.MostRecentFrameWithSymbols())
	}
}

// disableAllSteppers keeps in-flight steps from resuming the debuggee on
// their own once it has paused.
func (tm *threadManager) disableAllSteppers() {
	for _, thread := range tm.threads {
		for _, stepper := range thread.Steppers() {
			stepper.SetPauseWhenComplete(false)
		}
	}
}
