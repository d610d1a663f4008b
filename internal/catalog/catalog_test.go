package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LoadsEmbeddedCatalog(t *testing.T) {
	cat, err := New()
	require.NoError(t, err)
	assert.Equal(t, 40, cat.Len())
}

func TestCatalog_FindByID(t *testing.T) {
	cat, err := New()
	require.NoError(t, err)

	ex, ok := cat.FindByID("5")
	require.True(t, ok)
	assert.Equal(t, "Push-ups", ex.Name)
	assert.Equal(t, CueRepStandard, ex.CueProfile)
	assert.NotEmpty(t, ex.Description)
	assert.NotEmpty(t, ex.MuscleGroups)

	_, ok = cat.FindByID("does-not-exist")
	assert.False(t, ok)
}

func TestCatalog_HoldProfilesCarryDefaults(t *testing.T) {
	cat, err := New()
	require.NoError(t, err)

	// Dead hang is a minute-based hold with a catalog default duration
	ex, ok := cat.FindByID("1")
	require.True(t, ok)
	assert.True(t, ex.CueProfile.IsHold())
	assert.Equal(t, CueHoldMinutes, ex.CueProfile)
	assert.Greater(t, ex.HoldSeconds, 0)
}

func TestCatalog_AllReturnsCopyInOrder(t *testing.T) {
	cat, err := New()
	require.NoError(t, err)

	all := cat.All()
	require.Equal(t, cat.Len(), len(all))
	assert.Equal(t, "1", all[0].ID)

	all[0].Name = "mutated"
	fresh, ok := cat.FindByID("1")
	require.True(t, ok)
	assert.NotEqual(t, "mutated", fresh.Name)
}

func TestCueProfile_IsHold(t *testing.T) {
	assert.True(t, CueHoldTime.IsHold())
	assert.True(t, CueHoldMinutes.IsHold())
	assert.False(t, CueRepStandard.IsHold())
	assert.False(t, CueRepSlow.IsHold())
	assert.False(t, CueRepFast.IsHold())
}

func TestDifficulty_Label(t *testing.T) {
	assert.Equal(t, "EASY", DifficultyBeginner.Label())
	assert.Equal(t, "INTERMEDIATE", DifficultyIntermediate.Label())
	assert.Equal(t, "HARD", DifficultyAdvanced.Label())
	assert.Equal(t, "ELITE", Difficulty("elite").Label())
}
