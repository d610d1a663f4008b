// Package store persists routines, workout history, and the schedule as JSON
// files in the data directory. Reads tolerate missing or corrupt files and
// fall back to empty collections; writes that fail are logged and dropped so
// persistence never takes the app down.
package store

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/lowaak/fit-coach/fit-coach-app/internal/player"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/routine"
)

const (
	routinesFile = "routines.json"
	historyFile  = "workout_history.json"
	scheduleFile = "scheduled_workouts.json"
)

// ScheduledWorkout marks a routine planned for a calendar day.
type ScheduledWorkout struct {
	RoutineID   string `json:"routineId"`
	RoutineName string `json:"routineName"`
}

// Store is the JSON file store. Safe for use from one goroutine at a time;
// the controller serializes access.
type Store struct {
	dir    string
	logger *log.Logger
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		panic("Store: logger cannot be nil")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir, logger: logger}, nil
}

// LoadRoutines returns the saved routines, empty when nothing is saved yet.
func (s *Store) LoadRoutines() []routine.Routine {
	var routines []routine.Routine
	s.load(routinesFile, &routines)
	return routines
}

// SaveRoutines overwrites the saved routine list.
func (s *Store) SaveRoutines(routines []routine.Routine) {
	s.save(routinesFile, routines)
}

// AddRoutine appends a routine and saves.
func (s *Store) AddRoutine(r routine.Routine) {
	routines := s.LoadRoutines()
	routines = append(routines, r)
	s.SaveRoutines(routines)
}

// DeleteRoutine removes the routine with the given id, if present.
func (s *Store) DeleteRoutine(id string) {
	routines := s.LoadRoutines()
	kept := routines[:0]
	for _, r := range routines {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.SaveRoutines(kept)
}

// LoadHistory returns the recorded workout history, newest entries last.
func (s *Store) LoadHistory() []player.HistoryEntry {
	var history []player.HistoryEntry
	s.load(historyFile, &history)
	return history
}

// Append records one completed workout. Implements player.HistorySink.
func (s *Store) Append(entry player.HistoryEntry) error {
	history := s.LoadHistory()
	history = append(history, entry)
	return s.save(historyFile, history)
}

// LoadSchedule returns the schedule keyed by ISO date (2006-01-02).
func (s *Store) LoadSchedule() map[string]ScheduledWorkout {
	schedule := make(map[string]ScheduledWorkout)
	s.load(scheduleFile, &schedule)
	return schedule
}

// ScheduleWorkout plans a routine for a date, replacing any existing plan.
func (s *Store) ScheduleWorkout(date string, sw ScheduledWorkout) {
	schedule := s.LoadSchedule()
	schedule[date] = sw
	s.save(scheduleFile, schedule)
}

// UnscheduleWorkout clears the plan for a date.
func (s *Store) UnscheduleWorkout(date string) {
	schedule := s.LoadSchedule()
	delete(schedule, date)
	s.save(scheduleFile, schedule)
}

func (s *Store) load(name string, out any) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Printf("Store: reading %s failed: %v", name, err)
		}
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Printf("Store: parsing %s failed, starting empty: %v", name, err)
	}
}

func (s *Store) save(name string, in any) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		s.logger.Printf("Store: encoding %s failed: %v", name, err)
		return err
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Printf("Store: writing %s failed: %v", name, err)
		return err
	}
	return nil
}
