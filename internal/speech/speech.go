// Package speech defines the text-to-speech channel the workout player talks
// to. The player only depends on the Speaker contract; platform engines plug
// in behind it.
package speech

import (
	"log"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Voice describes one available TTS voice.
type Voice struct {
	ID       string
	Name     string
	Language string
}

// SpeakOptions carries per-utterance parameters and completion callbacks.
// Exactly one of OnDone, OnStopped, OnError fires per Speak call. Nil
// callbacks are allowed and treated as no-ops.
type SpeakOptions struct {
	Language  string
	Voice     string
	Pitch     float64
	Rate      float64
	OnDone    func()
	OnStopped func()
	OnError   func(error)
}

// Speaker is the speech channel contract.
//
// StopAll must settle quickly enough that a Speak issued right after it is
// not silently dropped; every utterance in flight gets its OnStopped.
type Speaker interface {
	Speak(text string, opts SpeakOptions)
	StopAll()
	Voices() ([]Voice, error)
}

var preferredVoiceRe = regexp.MustCompile(`(?i)female|woman|samantha|amy|joanna|linda|emma`)

// ChooseVoice picks a voice filtered by language-tag prefix, preferring a
// user hint substring, then a heuristic name match. Best-effort: when nothing
// matches the zero Voice is returned and the platform default applies.
func ChooseVoice(voices []Voice, langPrefix, hint string) (Voice, bool) {
	langPrefix = strings.ToLower(langPrefix)
	hint = strings.ToLower(hint)

	var fallback Voice
	var haveFallback bool
	for _, v := range voices {
		if langPrefix != "" && !strings.HasPrefix(strings.ToLower(v.Language), langPrefix) {
			continue
		}
		if !haveFallback {
			fallback = v
			haveFallback = true
		}
		nameAndID := v.Name + " " + v.ID
		if hint != "" && strings.Contains(strings.ToLower(nameAndID), hint) {
			return v, true
		}
		if hint == "" && preferredVoiceRe.MatchString(nameAndID) {
			return v, true
		}
	}
	return fallback, haveFallback
}

// ConsoleSpeaker is the built-in Speaker: it logs utterances and paces
// completion callbacks on an estimated speaking time, so the player behaves
// exactly as it would against a real engine, minus the audio.
type ConsoleSpeaker struct {
	logger *log.Logger

	mu      sync.Mutex
	pending map[uint64]*consoleUtterance
	nextID  uint64
}

type consoleUtterance struct {
	timer     *time.Timer
	onStopped func()
}

// NewConsoleSpeaker creates a ConsoleSpeaker.
func NewConsoleSpeaker(logger *log.Logger) *ConsoleSpeaker {
	if logger == nil {
		panic("ConsoleSpeaker: logger cannot be nil")
	}
	return &ConsoleSpeaker{
		logger:  logger,
		pending: make(map[uint64]*consoleUtterance),
	}
}

// Speak logs the utterance and schedules OnDone after the estimated speaking
// time, unless StopAll lands first.
func (c *ConsoleSpeaker) Speak(text string, opts SpeakOptions) {
	c.logger.Printf("ConsoleSpeaker: %q (rate=%.2f pitch=%.2f)", text, opts.Rate, opts.Pitch)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	u := &consoleUtterance{onStopped: opts.OnStopped}
	c.pending[id] = u
	u.timer = time.AfterFunc(estimateSpeakingTime(text, opts.Rate), func() {
		c.mu.Lock()
		_, live := c.pending[id]
		delete(c.pending, id)
		c.mu.Unlock()
		if live && opts.OnDone != nil {
			opts.OnDone()
		}
	})
	c.mu.Unlock()
}

// StopAll cancels every in-flight utterance, firing its OnStopped.
func (c *ConsoleSpeaker) StopAll() {
	c.mu.Lock()
	stopped := make([]func(), 0, len(c.pending))
	for id, u := range c.pending {
		u.timer.Stop()
		if u.onStopped != nil {
			stopped = append(stopped, u.onStopped)
		}
		delete(c.pending, id)
	}
	c.mu.Unlock()

	for _, fn := range stopped {
		fn()
	}
}

// Voices reports no selectable voices; the console has only its default.
func (c *ConsoleSpeaker) Voices() ([]Voice, error) {
	return nil, nil
}

// MutedSpeaker discards utterances but still completes them asynchronously,
// so cue chains keep advancing with speech disabled.
type MutedSpeaker struct{}

// NewMutedSpeaker creates a MutedSpeaker.
func NewMutedSpeaker() *MutedSpeaker {
	return &MutedSpeaker{}
}

func (*MutedSpeaker) Speak(text string, opts SpeakOptions) {
	if opts.OnDone != nil {
		time.AfterFunc(10*time.Millisecond, opts.OnDone)
	}
}

func (*MutedSpeaker) StopAll() {}

func (*MutedSpeaker) Voices() ([]Voice, error) {
	return nil, nil
}

// estimateSpeakingTime approximates how long an utterance takes to say.
// Rough is fine: the player chains cues on completion signals, not on a
// fixed clock, and workout timing is wall-clock-approximate anyway.
func estimateSpeakingTime(text string, rate float64) time.Duration {
	if rate <= 0 {
		rate = 1.0
	}
	base := 250*time.Millisecond + time.Duration(len(text))*55*time.Millisecond
	return time.Duration(float64(base) / rate)
}
