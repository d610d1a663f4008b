// Package catalog holds the immutable master exercise list. The data ships
// embedded in the binary; everything else in the app treats it as read-only.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Difficulty classifies how hard an exercise is.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Label returns the display label for a difficulty.
func (d Difficulty) Label() string {
	switch d {
	case DifficultyBeginner:
		return "EASY"
	case DifficultyIntermediate:
		return "INTERMEDIATE"
	case DifficultyAdvanced:
		return "HARD"
	default:
		return strings.ToUpper(string(d))
	}
}

// CueProfile classifies how an exercise is verbally paced: a rep cadence
// (standard/slow/fast) or a timed hold (seconds or minute announcements).
type CueProfile string

const (
	CueRepStandard CueProfile = "rep_standard"
	CueRepSlow     CueProfile = "rep_slow"
	CueRepFast     CueProfile = "rep_fast"
	CueHoldTime    CueProfile = "hold_time"
	CueHoldMinutes CueProfile = "hold_minutes"
)

// IsHold reports whether the profile is duration-based rather than rep-based.
func (p CueProfile) IsHold() bool {
	return strings.HasPrefix(string(p), "hold")
}

// Exercise is one catalog entry. HoldSeconds is the default hold duration for
// hold profiles; zero means no catalog default.
type Exercise struct {
	ID           string     `yaml:"id"`
	Name         string     `yaml:"name"`
	Difficulty   Difficulty `yaml:"difficulty"`
	Category     string     `yaml:"category"`
	Description  string     `yaml:"description"`
	MuscleGroups []string   `yaml:"muscle_groups"`
	CueProfile   CueProfile `yaml:"cue_profile"`
	HoldSeconds  int        `yaml:"hold_seconds"`
}

//go:embed exercises.yaml
var exercisesYAML []byte

// Catalog is the parsed exercise list with an id index.
type Catalog struct {
	ordered []Exercise
	byID    map[string]Exercise
}

type catalogFile struct {
	Exercises []Exercise `yaml:"exercises"`
}

// New parses the embedded exercise data.
func New() (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(exercisesYAML, &file); err != nil {
		return nil, fmt.Errorf("parsing exercise catalog: %w", err)
	}
	c := &Catalog{
		ordered: file.Exercises,
		byID:    make(map[string]Exercise, len(file.Exercises)),
	}
	for _, ex := range file.Exercises {
		if ex.ID == "" {
			return nil, fmt.Errorf("exercise %q has no id", ex.Name)
		}
		if _, dup := c.byID[ex.ID]; dup {
			return nil, fmt.Errorf("duplicate exercise id %q", ex.ID)
		}
		c.byID[ex.ID] = ex
	}
	return c, nil
}

// FindByID returns the exercise with the given id, if present.
func (c *Catalog) FindByID(id string) (Exercise, bool) {
	ex, ok := c.byID[id]
	return ex, ok
}

// All returns the exercises in catalog order.
func (c *Catalog) All() []Exercise {
	out := make([]Exercise, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of exercises in the catalog.
func (c *Catalog) Len() int {
	return len(c.ordered)
}
