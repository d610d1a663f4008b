package routine

import "github.com/google/uuid"

// Template is a recommended routine new users can follow. Following a
// template clones it into a regular routine with a fresh id.
type Template struct {
	ID          string
	Name        string
	Description string
	Difficulty  string
	Focus       string
	Duration    string
	Exercises   []Entry
}

var templates = []Template{
	{
		ID:          "rec_push_foundation",
		Name:        "Push Foundation",
		Description: "Warm up your shoulders, then build push strength with classic calisthenics staples.",
		Difficulty:  "beginner",
		Focus:       "push",
		Duration:    "20-25 min",
		Exercises: []Entry{
			{ExerciseID: "2", Sets: 2, HoldSeconds: 30},
			{ExerciseID: "5", Sets: 3, Reps: 12},
			{ExerciseID: "40", Sets: 3, Reps: 10},
			{ExerciseID: "9", Sets: 3, Reps: 8},
			{ExerciseID: "37", Sets: 2, HoldSeconds: 45},
		},
	},
	{
		ID:          "rec_pull_core",
		Name:        "Pull + Core Flow",
		Description: "Grip work, pulling strength, and core control for a balanced upper-body session.",
		Difficulty:  "intermediate",
		Focus:       "pull/core",
		Duration:    "25-30 min",
		Exercises: []Entry{
			{ExerciseID: "1", Sets: 2, HoldSeconds: 60},
			{ExerciseID: "6", Sets: 3, Reps: 12},
			{ExerciseID: "7", Sets: 3, Reps: 6},
			{ExerciseID: "38", Sets: 3, Reps: 10},
			{ExerciseID: "3", Sets: 2, HoldSeconds: 40},
		},
	},
	{
		ID:          "rec_full_body",
		Name:        "Full Body Primer",
		Description: "Simple moves that cover legs, push, pull, and conditioning - perfect day one workout.",
		Difficulty:  "beginner",
		Focus:       "full body",
		Duration:    "18-22 min",
		Exercises: []Entry{
			{ExerciseID: "4", Sets: 3, Reps: 15},
			{ExerciseID: "36", Sets: 3, Reps: 12},
			{ExerciseID: "5", Sets: 3, Reps: 10},
			{ExerciseID: "39", Sets: 3, Reps: 12},
			{ExerciseID: "35", Sets: 2, Reps: 30},
			{ExerciseID: "37", Sets: 1, HoldSeconds: 60},
		},
	},
	{
		ID:          "rec_static_strength",
		Name:        "Static Strength Builder",
		Description: "Develop time-under-tension with holds that reinforce body control and posture.",
		Difficulty:  "intermediate",
		Focus:       "skills",
		Duration:    "20 min",
		Exercises: []Entry{
			{ExerciseID: "2", Sets: 2, HoldSeconds: 40},
			{ExerciseID: "3", Sets: 2, HoldSeconds: 40},
			{ExerciseID: "13", Sets: 3, HoldSeconds: 30},
			{ExerciseID: "26", Sets: 3, HoldSeconds: 30},
			{ExerciseID: "19", Sets: 2, HoldSeconds: 25},
		},
	},
}

// Templates returns the recommended routine templates in display order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// FindTemplate returns the template with the given id, if present.
func FindTemplate(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// CloneTemplate creates a user routine from a template. The clone gets a
// fresh id and keeps the template id so callers can de-duplicate follows.
func CloneTemplate(t Template) Routine {
	entries := make([]Entry, len(t.Exercises))
	copy(entries, t.Exercises)
	return Routine{
		ID:         uuid.NewString(),
		Name:       t.Name,
		TemplateID: t.ID,
		Exercises:  entries,
	}
}
