package store

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/fit-coach/fit-coach-app/internal/player"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/routine"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), log.New(io.Discard, "", 0))
	require.NoError(t, err)
	return s
}

func TestStore_RoutinesRoundTrip(t *testing.T) {
	s := newTestStore(t)

	assert.Empty(t, s.LoadRoutines())

	r1 := routine.New("Morning", []routine.Entry{{ExerciseID: "5", Sets: 3, Reps: 12}})
	r2 := routine.New("Evening", []routine.Entry{{ExerciseID: "2", HoldSeconds: 30}})
	s.AddRoutine(r1)
	s.AddRoutine(r2)

	loaded := s.LoadRoutines()
	require.Len(t, loaded, 2)
	assert.Equal(t, r1.ID, loaded[0].ID)
	assert.Equal(t, "Morning", loaded[0].Name)
	assert.Equal(t, 3, loaded[0].Exercises[0].Sets)
	assert.Equal(t, 30, loaded[1].Exercises[0].HoldSeconds)
}

func TestStore_DeleteRoutine(t *testing.T) {
	s := newTestStore(t)

	r1 := routine.New("Keep", nil)
	r2 := routine.New("Drop", nil)
	s.AddRoutine(r1)
	s.AddRoutine(r2)

	s.DeleteRoutine(r2.ID)

	loaded := s.LoadRoutines()
	require.Len(t, loaded, 1)
	assert.Equal(t, "Keep", loaded[0].Name)

	// Deleting an unknown id leaves the list alone
	s.DeleteRoutine("nope")
	assert.Len(t, s.LoadRoutines(), 1)
}

func TestStore_CorruptFileFallsBackToEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, log.New(io.Discard, "", 0))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, routinesFile), []byte("{not json"), 0o644))

	assert.Empty(t, s.LoadRoutines())

	// A save after the corrupt read recovers the file
	s.SaveRoutines([]routine.Routine{routine.New("Fresh", nil)})
	assert.Len(t, s.LoadRoutines(), 1)
}

func TestStore_HistoryAppend(t *testing.T) {
	s := newTestStore(t)

	assert.Empty(t, s.LoadHistory())

	completed := time.Date(2026, 8, 1, 18, 30, 0, 0, time.UTC)
	require.NoError(t, s.Append(player.HistoryEntry{
		RoutineID:   "r1",
		RoutineName: "Push Day",
		CompletedAt: completed,
		Felt:        player.RatingOK,
	}))
	require.NoError(t, s.Append(player.HistoryEntry{
		RoutineID:   "r1",
		RoutineName: "Push Day",
		CompletedAt: completed.Add(48 * time.Hour),
		Felt:        player.RatingHard,
	}))

	history := s.LoadHistory()
	require.Len(t, history, 2)
	assert.Equal(t, player.RatingOK, history[0].Felt)
	assert.Equal(t, player.RatingHard, history[1].Felt)
	assert.True(t, completed.Equal(history[0].CompletedAt))
}

func TestStore_ScheduleRoundTrip(t *testing.T) {
	s := newTestStore(t)

	assert.Empty(t, s.LoadSchedule())

	s.ScheduleWorkout("2026-09-01", ScheduledWorkout{RoutineID: "r1", RoutineName: "Push Day"})
	s.ScheduleWorkout("2026-09-03", ScheduledWorkout{RoutineID: "r2", RoutineName: "Pull Day"})

	schedule := s.LoadSchedule()
	require.Len(t, schedule, 2)
	assert.Equal(t, "Push Day", schedule["2026-09-01"].RoutineName)

	// Replanning a day overwrites it
	s.ScheduleWorkout("2026-09-01", ScheduledWorkout{RoutineID: "r2", RoutineName: "Pull Day"})
	assert.Equal(t, "Pull Day", s.LoadSchedule()["2026-09-01"].RoutineName)

	s.UnscheduleWorkout("2026-09-01")
	schedule = s.LoadSchedule()
	assert.Len(t, schedule, 1)
	_, ok := schedule["2026-09-01"]
	assert.False(t, ok)
}

func TestStore_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := New(dir, log.New(io.Discard, "", 0))
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
