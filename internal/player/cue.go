package player

import (
	"fmt"
	"strconv"
	"time"

	"github.com/lowaak/fit-coach/fit-coach-app/internal/catalog"
)

// CueKind distinguishes movement-phase cues from rep-count cues.
type CueKind int

const (
	CueKindPhase CueKind = iota
	CueKindRep
)

// CueEvent is one utterance in a rep cue sequence. DelayAfter is the pause
// between this utterance finishing and the next one starting.
type CueEvent struct {
	Text       string
	Kind       CueKind
	Phase      string
	Rep        int
	DelayAfter time.Duration
	Rate       float64
	Pitch      float64
}

const (
	cuePitch = 1.1

	slowCueDelay     = 600 * time.Millisecond
	standardCueDelay = 400 * time.Millisecond
	fastCueDelay     = 200 * time.Millisecond

	holdStartPitch        = 1.1
	holdStartRate         = 0.9
	holdAnnouncementPitch = 1.05
	holdAnnouncementRate  = 0.95
)

// BuildRepSequence expands a rep cue profile into the flat utterance sequence
// for a full set. Slow reps are cued Down, Hold, Up, count; fast reps Up,
// Down, count at double tempo; standard reps Up, Down, count. The count is
// spoken as a word.
func BuildRepSequence(profile catalog.CueProfile, reps int) []CueEvent {
	if reps <= 0 {
		return nil
	}

	var events []CueEvent
	phase := func(text string, delay time.Duration, rate float64) {
		events = append(events, CueEvent{
			Text:       text,
			Kind:       CueKindPhase,
			Phase:      text,
			DelayAfter: delay,
			Rate:       rate,
			Pitch:      cuePitch,
		})
	}
	count := func(rep int, delay time.Duration, rate float64) {
		events = append(events, CueEvent{
			Text:       NumberToWord(rep),
			Kind:       CueKindRep,
			Rep:        rep,
			DelayAfter: delay,
			Rate:       rate,
			Pitch:      cuePitch,
		})
	}

	for rep := 1; rep <= reps; rep++ {
		switch profile {
		case catalog.CueRepSlow:
			phase("Down", slowCueDelay, 0.85)
			phase("Hold", slowCueDelay, 0.85)
			phase("Up", slowCueDelay, 0.85)
			count(rep, slowCueDelay, 0.9)
		case catalog.CueRepFast:
			phase("Up", fastCueDelay, 1.1)
			phase("Down", fastCueDelay, 1.1)
			count(rep, fastCueDelay, 1.15)
		default:
			phase("Up", standardCueDelay, 1.0)
			phase("Down", standardCueDelay, 1.0)
			count(rep, standardCueDelay, 0.95)
		}
	}
	return events
}

// HoldAnnouncement is one timed utterance during a hold, fired At seconds
// into the hold.
type HoldAnnouncement struct {
	At   time.Duration
	Text string
}

// HoldAnnouncements returns the progress announcements for a hold of the
// given duration. Minute-based holds announce every elapsed minute; other
// holds announce the halfway point and, when the hold is long enough, the
// ten-seconds-remaining mark.
func HoldAnnouncements(profile catalog.CueProfile, durationSeconds int) []HoldAnnouncement {
	var out []HoldAnnouncement
	if profile == catalog.CueHoldMinutes {
		for minute := 1; minute*60 <= durationSeconds; minute++ {
			text := fmt.Sprintf("%d minutes", minute)
			if minute == 1 {
				text = "1 minute"
			}
			out = append(out, HoldAnnouncement{
				At:   time.Duration(minute) * time.Minute,
				Text: text,
			})
		}
		return out
	}

	if halfway := durationSeconds / 2; halfway > 0 {
		out = append(out, HoldAnnouncement{
			At:   time.Duration(halfway) * time.Second,
			Text: "Halfway",
		})
	}
	if durationSeconds > 10 {
		out = append(out, HoldAnnouncement{
			At:   time.Duration(durationSeconds-10) * time.Second,
			Text: "10 seconds remaining",
		})
	}
	return out
}

var onesWords = []string{
	"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen", "Twenty",
}

var tensWords = map[int]string{
	20: "Twenty",
	30: "Thirty",
	40: "Forty",
	50: "Fifty",
	60: "Sixty",
}

// NumberToWord spells a rep count for speech. Counts through twenty get a
// single word, 21 through 69 compose tens and ones, and anything past that
// falls back to the numeral so the engine reads digits.
func NumberToWord(n int) string {
	if n >= 0 && n <= 20 {
		return onesWords[n]
	}
	if n > 20 && n < 70 {
		tens := (n / 10) * 10
		ones := n % 10
		if ones == 0 {
			return tensWords[tens]
		}
		return tensWords[tens] + " " + onesWords[ones]
	}
	return strconv.Itoa(n)
}

// FormatDuration renders a second count for display, m:ss past a minute and
// a bare second count below it.
func FormatDuration(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%ds", seconds)
}
