// Package routine defines user routines and the hydration that merges stored
// per-exercise overrides over catalog defaults into display-ready exercises.
package routine

import (
	"github.com/google/uuid"

	"github.com/lowaak/fit-coach/fit-coach-app/internal/catalog"
)

// Entry references a catalog exercise with per-routine overrides.
// A zero value means the field is absent and resolution falls through to the
// catalog default, then the hard fallback.
type Entry struct {
	ExerciseID  string `json:"exerciseId"`
	Sets        int    `json:"sets,omitempty"`
	Reps        int    `json:"reps,omitempty"`
	HoldSeconds int    `json:"cueDurationSeconds,omitempty"`
}

// Routine is a named, ordered collection of exercise entries. TemplateID
// back-references the recommended template a routine was cloned from so the
// same template isn't followed twice.
type Routine struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	TemplateID string  `json:"templateId,omitempty"`
	Exercises  []Entry `json:"exercises"`
}

// Hard fallbacks used when neither the stored entry nor the catalog provides
// a value. The legacy data paths disagreed on the hold fallback (45s in one
// merge, 60s in two others); resolution now happens here and only here.
const (
	FallbackSets        = 3
	FallbackReps        = 10
	FallbackHoldSeconds = 60
)

// Exercise is a hydrated exercise: the stored overrides merged over the
// catalog entry, with every numeric field resolved to a concrete value.
type Exercise struct {
	ID           string
	Name         string
	Description  string
	Difficulty   catalog.Difficulty
	Category     string
	MuscleGroups []string
	CueProfile   catalog.CueProfile
	Sets         int
	Reps         int
	HoldSeconds  int
}

// New creates a routine with a fresh id.
func New(name string, entries []Entry) Routine {
	return Routine{
		ID:        uuid.NewString(),
		Name:      name,
		Exercises: entries,
	}
}

// Hydrate resolves every entry of r against the catalog. Entries referencing
// an unknown exercise id keep whatever override fields they carry; cosmetic
// fields stay empty and the cue profile defaults to rep_standard. A stale
// reference never fails hydration.
func Hydrate(r Routine, cat *catalog.Catalog) []Exercise {
	out := make([]Exercise, 0, len(r.Exercises))
	for _, entry := range r.Exercises {
		out = append(out, hydrateEntry(entry, cat))
	}
	return out
}

func hydrateEntry(entry Entry, cat *catalog.Catalog) Exercise {
	ex := Exercise{
		ID:         entry.ExerciseID,
		CueProfile: catalog.CueRepStandard,
	}
	canonical, found := cat.FindByID(entry.ExerciseID)
	if found {
		ex.Name = canonical.Name
		ex.Description = canonical.Description
		ex.Difficulty = canonical.Difficulty
		ex.Category = canonical.Category
		ex.MuscleGroups = canonical.MuscleGroups
		if canonical.CueProfile != "" {
			ex.CueProfile = canonical.CueProfile
		}
	}

	ex.Sets = resolve(entry.Sets, 0, FallbackSets)
	ex.Reps = resolve(entry.Reps, 0, FallbackReps)
	holdDefault := 0
	if found {
		holdDefault = canonical.HoldSeconds
	}
	ex.HoldSeconds = resolve(entry.HoldSeconds, holdDefault, FallbackHoldSeconds)
	return ex
}

// resolve picks the first positive value of override, catalog default, fallback.
func resolve(override, catalogDefault, fallback int) int {
	if override > 0 {
		return override
	}
	if catalogDefault > 0 {
		return catalogDefault
	}
	return fallback
}
