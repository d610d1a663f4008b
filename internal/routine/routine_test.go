package routine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/fit-coach/fit-coach-app/internal/catalog"
)

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New()
	require.NoError(t, err)
	return cat
}

func TestNew_AssignsFreshIDs(t *testing.T) {
	r1 := New("Morning", []Entry{{ExerciseID: "5"}})
	r2 := New("Morning", []Entry{{ExerciseID: "5"}})

	assert.NotEmpty(t, r1.ID)
	assert.NotEmpty(t, r2.ID)
	assert.NotEqual(t, r1.ID, r2.ID)
	assert.Empty(t, r1.TemplateID)
}

func TestHydrate_OverridesWinOverCatalog(t *testing.T) {
	cat := mustCatalog(t)

	r := Routine{Exercises: []Entry{
		{ExerciseID: "5", Sets: 4, Reps: 20},
	}}
	exercises := Hydrate(r, cat)
	require.Len(t, exercises, 1)

	ex := exercises[0]
	assert.Equal(t, "Push-ups", ex.Name)
	assert.Equal(t, catalog.CueRepStandard, ex.CueProfile)
	assert.Equal(t, 4, ex.Sets)
	assert.Equal(t, 20, ex.Reps)
}

func TestHydrate_FallbacksWhenEntryIsBare(t *testing.T) {
	cat := mustCatalog(t)

	// Push-ups has no catalog defaults for sets/reps, so the hard
	// fallbacks apply
	r := Routine{Exercises: []Entry{{ExerciseID: "5"}}}
	ex := Hydrate(r, cat)[0]

	assert.Equal(t, FallbackSets, ex.Sets)
	assert.Equal(t, FallbackReps, ex.Reps)
}

func TestHydrate_HoldDurationResolution(t *testing.T) {
	cat := mustCatalog(t)

	r := Routine{Exercises: []Entry{
		{ExerciseID: "2"},                  // catalog default 45s
		{ExerciseID: "2", HoldSeconds: 30}, // override wins
		{ExerciseID: "nope"},               // no catalog entry at all
	}}
	exercises := Hydrate(r, cat)

	assert.Equal(t, 45, exercises[0].HoldSeconds)
	assert.Equal(t, 30, exercises[1].HoldSeconds)
	assert.Equal(t, FallbackHoldSeconds, exercises[2].HoldSeconds)
}

func TestHydrate_UnknownExerciseIDDoesNotFail(t *testing.T) {
	cat := mustCatalog(t)

	r := Routine{Exercises: []Entry{{ExerciseID: "gone-from-catalog", Sets: 2, Reps: 5}}}
	exercises := Hydrate(r, cat)
	require.Len(t, exercises, 1)

	ex := exercises[0]
	assert.Equal(t, "gone-from-catalog", ex.ID)
	assert.Empty(t, ex.Name)
	assert.Equal(t, catalog.CueRepStandard, ex.CueProfile)
	assert.Equal(t, 2, ex.Sets)
	assert.Equal(t, 5, ex.Reps)
}

func TestHydrate_PreservesEntryOrder(t *testing.T) {
	cat := mustCatalog(t)

	r := Routine{Exercises: []Entry{
		{ExerciseID: "7"},
		{ExerciseID: "4"},
		{ExerciseID: "1"},
	}}
	exercises := Hydrate(r, cat)
	require.Len(t, exercises, 3)
	assert.Equal(t, "7", exercises[0].ID)
	assert.Equal(t, "4", exercises[1].ID)
	assert.Equal(t, "1", exercises[2].ID)
}

func TestTemplates_AllResolveAgainstCatalog(t *testing.T) {
	cat := mustCatalog(t)

	templates := Templates()
	require.Len(t, templates, 4)
	for _, tpl := range templates {
		for _, entry := range tpl.Exercises {
			_, ok := cat.FindByID(entry.ExerciseID)
			assert.True(t, ok, "template %s references unknown exercise %s", tpl.ID, entry.ExerciseID)
		}
	}
}

func TestFindTemplate(t *testing.T) {
	tpl, ok := FindTemplate("rec_full_body")
	require.True(t, ok)
	assert.Equal(t, "Full Body Primer", tpl.Name)

	_, ok = FindTemplate("rec_unknown")
	assert.False(t, ok)
}

func TestCloneTemplate(t *testing.T) {
	tpl, ok := FindTemplate("rec_push_foundation")
	require.True(t, ok)

	clone := CloneTemplate(tpl)
	assert.NotEmpty(t, clone.ID)
	assert.NotEqual(t, tpl.ID, clone.ID)
	assert.Equal(t, tpl.ID, clone.TemplateID)
	assert.Equal(t, tpl.Name, clone.Name)
	require.Equal(t, len(tpl.Exercises), len(clone.Exercises))

	// The clone owns its entries
	clone.Exercises[0].Sets = 99
	assert.NotEqual(t, 99, tpl.Exercises[0].Sets)
}
