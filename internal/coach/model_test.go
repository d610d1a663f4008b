package coach

import (
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/fit-coach/fit-coach-app/internal/routine"
)

func TestModel_LogTail(t *testing.T) {
	logChan := make(chan string, 10)
	model := NewModel(log.New(io.Discard, "", 0), logChan)
	defer model.Shutdown()

	logChan <- "line 1\n"
	logChan <- "line 2\n"
	logChan <- "line 3\n"

	require.Eventually(t, func() bool {
		return len(model.GetLogTail(10)) == 3
	}, time.Second, 5*time.Millisecond)

	tail := model.GetLogTail(2)
	require.Len(t, tail, 2)
	assert.Equal(t, "line 2\n", tail[0])
	assert.Equal(t, "line 3\n", tail[1])
}

func TestModel_LogTailCapped(t *testing.T) {
	logChan := make(chan string, maxLogLines+50)
	model := NewModel(log.New(io.Discard, "", 0), logChan)
	defer model.Shutdown()

	for i := 0; i < maxLogLines+50; i++ {
		logChan <- fmt.Sprintf("line %d\n", i)
	}

	require.Eventually(t, func() bool {
		tail := model.GetLogTail(maxLogLines + 100)
		return len(tail) == maxLogLines && tail[len(tail)-1] == fmt.Sprintf("line %d\n", maxLogLines+49)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestModel_RoutinesNotifyListeners(t *testing.T) {
	model := NewModel(log.New(io.Discard, "", 0), nil)
	defer model.Shutdown()

	ch := make(chan []routine.Routine, 4)
	unlisten := model.ListenToRoutines(ch)
	defer unlisten()

	model.SetRoutines([]routine.Routine{{ID: "r1", Name: "Push Day"}})

	select {
	case routines := <-ch:
		require.Len(t, routines, 1)
		assert.Equal(t, "Push Day", routines[0].Name)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for routines notification")
	}

	// Replay-on-listen hands new listeners the current list
	late := make(chan []routine.Routine, 1)
	unlistenLate := model.ListenToRoutines(late)
	defer unlistenLate()

	select {
	case routines := <-late:
		require.Len(t, routines, 1)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for replayed routines")
	}
}

func TestModel_UIModeRoundTrip(t *testing.T) {
	model := NewModel(log.New(io.Discard, "", 0), nil)
	defer model.Shutdown()

	assert.Equal(t, UIModeRoutines, model.GetUIMode())

	ch := make(chan UIMode, 4)
	unlisten := model.ListenToUIMode(ch)
	defer unlisten()

	model.SetUIMode(UIModeHistory)
	assert.Equal(t, UIModeHistory, model.GetUIMode())

	select {
	case mode := <-ch:
		assert.Equal(t, UIModeHistory, mode)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for mode notification")
	}
}
