package speech

import (
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseVoice_PrefersHeuristicNameMatch(t *testing.T) {
	voices := []Voice{
		{ID: "v1", Name: "Daniel", Language: "en-GB"},
		{ID: "v2", Name: "Samantha", Language: "en-US"},
		{ID: "v3", Name: "Anna", Language: "de-DE"},
	}

	v, ok := ChooseVoice(voices, "en", "")
	require.True(t, ok)
	assert.Equal(t, "v2", v.ID)
}

func TestChooseVoice_LanguageFilterBeatsNameMatch(t *testing.T) {
	voices := []Voice{
		{ID: "v1", Name: "Amy", Language: "de-DE"},
		{ID: "v2", Name: "Daniel", Language: "en-GB"},
	}

	// Amy would match the heuristic but is the wrong language
	v, ok := ChooseVoice(voices, "en", "")
	require.True(t, ok)
	assert.Equal(t, "v2", v.ID)
}

func TestChooseVoice_HintWinsOverHeuristic(t *testing.T) {
	voices := []Voice{
		{ID: "v1", Name: "Samantha", Language: "en-US"},
		{ID: "v2", Name: "Daniel", Language: "en-GB"},
	}

	v, ok := ChooseVoice(voices, "en", "daniel")
	require.True(t, ok)
	assert.Equal(t, "v2", v.ID)
}

func TestChooseVoice_FallsBackToFirstLanguageMatch(t *testing.T) {
	voices := []Voice{
		{ID: "v1", Name: "Anna", Language: "de-DE"},
		{ID: "v2", Name: "Daniel", Language: "en-GB"},
		{ID: "v3", Name: "Thomas", Language: "en-US"},
	}

	v, ok := ChooseVoice(voices, "en", "")
	require.True(t, ok)
	assert.Equal(t, "v2", v.ID)
}

func TestChooseVoice_NothingMatches(t *testing.T) {
	voices := []Voice{
		{ID: "v1", Name: "Anna", Language: "de-DE"},
	}

	_, ok := ChooseVoice(voices, "en", "")
	assert.False(t, ok)

	_, ok = ChooseVoice(nil, "en", "")
	assert.False(t, ok)
}

func TestConsoleSpeaker_CompletesUtterances(t *testing.T) {
	speaker := NewConsoleSpeaker(log.New(io.Discard, "", 0))

	done := make(chan struct{})
	speaker.Speak("Up", SpeakOptions{Rate: 5.0, OnDone: func() { close(done) }})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for OnDone")
	}
}

func TestConsoleSpeaker_StopAllFiresOnStopped(t *testing.T) {
	speaker := NewConsoleSpeaker(log.New(io.Discard, "", 0))

	var mu sync.Mutex
	var stopped, completed int
	speaker.Speak("a long utterance that will not finish quickly", SpeakOptions{
		Rate:      0.1,
		OnDone:    func() { mu.Lock(); completed++; mu.Unlock() },
		OnStopped: func() { mu.Lock(); stopped++; mu.Unlock() },
	})
	speaker.Speak("another slow one", SpeakOptions{
		Rate:      0.1,
		OnStopped: func() { mu.Lock(); stopped++; mu.Unlock() },
	})

	speaker.StopAll()

	mu.Lock()
	assert.Equal(t, 2, stopped)
	assert.Equal(t, 0, completed)
	mu.Unlock()

	// Exactly one callback per utterance: waiting past the estimated
	// speaking time must not add completions
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 0, completed)
	mu.Unlock()
}

func TestMutedSpeaker_StillCompletes(t *testing.T) {
	speaker := NewMutedSpeaker()

	done := make(chan struct{})
	speaker.Speak("anything", SpeakOptions{OnDone: func() { close(done) }})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for OnDone")
	}
}

func TestEstimateSpeakingTime_ScalesWithRate(t *testing.T) {
	slow := estimateSpeakingTime("Up", 0.5)
	normal := estimateSpeakingTime("Up", 1.0)
	fast := estimateSpeakingTime("Up", 2.0)

	assert.Greater(t, slow, normal)
	assert.Greater(t, normal, fast)

	// Unset rate behaves like 1.0
	assert.Equal(t, normal, estimateSpeakingTime("Up", 0))
}
