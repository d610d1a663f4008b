package player

import (
	"sync"
	"time"

	"github.com/lowaak/fit-coach/fit-coach-app/internal/speech"
)

// fakeClock is a manually advanced Clock. Advancing fires due timers in
// deadline order, including timers that fired callbacks schedule.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	when    time.Time
	fn      func()
	fired   bool
	stopped bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 7, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, when: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// advance moves the clock forward by d, running every timer that comes due
// on the way, in order.
func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		var next *fakeTimer
		for _, t := range c.timers {
			if t.fired || t.stopped || t.when.After(target) {
				continue
			}
			if next == nil || t.when.Before(next.when) {
				next = t
			}
		}
		if next == nil {
			break
		}
		if next.when.After(c.now) {
			c.now = next.when
		}
		next.fired = true
		fn := next.fn
		c.mu.Unlock()
		fn()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// fakeSpeaker records utterances and lets tests drive completion callbacks
// explicitly.
type fakeSpeaker struct {
	mu      sync.Mutex
	voices  []speech.Voice
	spoken  []spokenUtterance
	pending []speech.SpeakOptions
}

type spokenUtterance struct {
	Text  string
	Rate  float64
	Pitch float64
}

func newFakeSpeaker() *fakeSpeaker {
	return &fakeSpeaker{}
}

func (f *fakeSpeaker) Speak(text string, opts speech.SpeakOptions) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, spokenUtterance{Text: text, Rate: opts.Rate, Pitch: opts.Pitch})
	f.pending = append(f.pending, opts)
}

func (f *fakeSpeaker) StopAll() {
	f.mu.Lock()
	pending := f.pending
	f.pending = nil
	f.mu.Unlock()

	for _, opts := range pending {
		if opts.OnStopped != nil {
			opts.OnStopped()
		}
	}
}

func (f *fakeSpeaker) Voices() ([]speech.Voice, error) {
	return f.voices, nil
}

// completeOldest fires OnDone for the oldest in-flight utterance. Returns
// false when nothing is in flight.
func (f *fakeSpeaker) completeOldest() bool {
	f.mu.Lock()
	if len(f.pending) == 0 {
		f.mu.Unlock()
		return false
	}
	opts := f.pending[0]
	f.pending = f.pending[1:]
	f.mu.Unlock()

	if opts.OnDone != nil {
		opts.OnDone()
	}
	return true
}

// failOldest fires OnError for the oldest in-flight utterance.
func (f *fakeSpeaker) failOldest(err error) bool {
	f.mu.Lock()
	if len(f.pending) == 0 {
		f.mu.Unlock()
		return false
	}
	opts := f.pending[0]
	f.pending = f.pending[1:]
	f.mu.Unlock()

	if opts.OnError != nil {
		opts.OnError(err)
	}
	return true
}

func (f *fakeSpeaker) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.spoken))
	for i, u := range f.spoken {
		out[i] = u.Text
	}
	return out
}

func (f *fakeSpeaker) utterances() []spokenUtterance {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]spokenUtterance, len(f.spoken))
	copy(out, f.spoken)
	return out
}

func (f *fakeSpeaker) pendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// fakeHistory records appended entries.
type fakeHistory struct {
	mu      sync.Mutex
	entries []HistoryEntry
}

func (f *fakeHistory) Append(entry HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeHistory) all() []HistoryEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]HistoryEntry, len(f.entries))
	copy(out, f.entries)
	return out
}
