package debugger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnxd/dbgcore/debugger"
	"github.com/wnxd/dbgcore/internal/simulator"
)

func TestSelector_ReplacesInvalidThread(t *testing.T) {
	var tm threadManager
	stale := newTestThread(1)
	first := newTestThread(2)
	second := newTestThread(3)
	tm.addThread(stale)
	tm.addThread(first)
	tm.addThread(second)
	tm.SetSelectedThread(stale)
	stale.Invalidate()

	tm.selectMostRecentStackFrameWithLoadedSymbols()

	require.Same(t, first, tm.SelectedThread())
	require.NotNil(t, first.SelectedFrame())
	assert.Equal(t, "main", first.SelectedFrame().Function())
	assert.Nil(t, second.SelectedFrame())
}

func TestSelector_KeepsValidSelection(t *testing.T) {
	var tm threadManager
	first := newTestThread(1)
	second := newTestThread(2)
	tm.addThread(first)
	tm.addThread(second)
	tm.SetSelectedThread(second)

	tm.selectMostRecentStackFrameWithLoadedSymbols()
	assert.Same(t, second, tm.SelectedThread())
}

func TestSelector_NoValidThread(t *testing.T) {
	var tm threadManager
	thread := newTestThread(1)
	thread.Invalidate()
	tm.addThread(thread)

	tm.selectMostRecentStackFrameWithLoadedSymbols()
	assert.Nil(t, tm.SelectedThread())
}

func TestSelector_NoFrameWithSymbols(t *testing.T) {
	var tm threadManager
	thread := simulator.NewThread(1, simulator.NewFrame("start", nil))
	thread.SetSelectedFrame(simulator.NewFrame("old", nil))
	tm.addThread(thread)

	tm.selectMostRecentStackFrameWithLoadedSymbols()
	assert.Same(t, thread, tm.SelectedThread())
	assert.Nil(t, thread.SelectedFrame())
}

func TestThreadManager_RemoveDeselects(t *testing.T) {
	var tm threadManager
	thread := newTestThread(1)
	tm.addThread(thread)
	tm.addThread(thread)
	tm.SetSelectedThread(thread)

	assert.Len(t, tm.Threads(), 1)
	tm.removeThread(thread)
	assert.Empty(t, tm.Threads())
	assert.Nil(t, tm.SelectedThread())
}

func TestPause_DisablesSteppers(t *testing.T) {
	p, fe := newTestProcess(t)
	thread := newTestThread(1)
	stepper := simulator.NewStepper(true)
	thread.AddStepper(stepper)
	fe.callback.CreateThread(thread)
	require.NoError(t, p.WaitForPauseTimeout(50*time.Millisecond))

	require.NoError(t, p.Break())
	assert.False(t, stepper.PauseWhenComplete())
	assert.Equal(t, []debugger.Thread{thread}, p.Threads())
}
