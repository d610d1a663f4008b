// Package player runs a workout session: the phase state machine, the cue
// scheduler, and the rest timers. All user actions and timer callbacks funnel
// through one mutex; side effects (speech, timer starts) run after unlock,
// and a per-scope epoch counter turns callbacks from a torn-down set into
// no-ops.
package player

import (
	"errors"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/lowaak/fit-coach/fit-coach-app/internal/catalog"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/events"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/routine"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/speech"
)

// Phase is the current state of the session state machine.
type Phase string

const (
	PhaseSelectingPacing Phase = "selecting_pacing"
	PhasePreparing       Phase = "preparing"
	PhaseCueing          Phase = "cueing"
	PhaseHolding         Phase = "holding"
	PhaseActive          Phase = "active"
	PhaseResting         Phase = "resting"
	PhaseCompleted       Phase = "completed"
)

// PacingMode controls how long the automatic rest between sets lasts.
// Manual pacing disables automatic rests entirely.
type PacingMode string

const (
	PacingManual PacingMode = "manual"
	PacingSlow   PacingMode = "slow"
	PacingMedium PacingMode = "medium"
	PacingFast   PacingMode = "fast"
)

// RestSeconds returns the between-sets rest for a pacing mode. Unrecognized
// modes rest like medium.
func RestSeconds(mode PacingMode) int {
	switch mode {
	case PacingManual:
		return 0
	case PacingSlow:
		return 60
	case PacingMedium:
		return 30
	case PacingFast:
		return 15
	default:
		return 30
	}
}

// InterExerciseRestSeconds returns the rest when moving to the next exercise:
// one and a half times the set rest, rounded to the nearest second.
func InterExerciseRestSeconds(mode PacingMode) int {
	return int(math.Round(float64(RestSeconds(mode)) * 1.5))
}

const (
	// PrepSeconds is the get-ready countdown before cues start.
	PrepSeconds = 5

	// RestExtendSeconds is how much one extend-rest action adds.
	RestExtendSeconds = 10

	// holdCompleteGrace is the pause between a hold reaching zero and the
	// set counting as complete, so the display settles before advancing.
	holdCompleteGrace = 300 * time.Millisecond
)

// Rating is the user's post-workout difficulty verdict.
type Rating string

const (
	RatingEasy Rating = "easy"
	RatingOK   Rating = "ok"
	RatingHard Rating = "hard"
)

// HistoryEntry records one completed, rated workout.
type HistoryEntry struct {
	RoutineID   string    `json:"routineId"`
	RoutineName string    `json:"routineName"`
	CompletedAt time.Time `json:"completedAt"`
	Felt        Rating    `json:"felt"`
}

// HistorySink receives the history entry when a completed workout is rated.
type HistorySink interface {
	Append(entry HistoryEntry) error
}

// State is an immutable snapshot of the session, published after every
// change. Countdown fields are zero outside their phase.
type State struct {
	RoutineName string

	Phase  Phase
	Pacing PacingMode

	ExerciseIndex  int
	TotalExercises int
	CurrentSet     int

	ExerciseName        string
	ExerciseDescription string
	Difficulty          catalog.Difficulty
	CueProfile          catalog.CueProfile
	Sets                int
	Reps                int
	HoldSeconds         int

	PrepRemaining int
	RestRemaining int
	HoldRemaining int

	CueRep   int
	CuePhase string

	Rated  bool
	Rating Rating
}

// SessionArgs collects the dependencies for NewSession. Clock defaults to
// the wall clock; History may be nil when completions shouldn't be recorded.
type SessionArgs struct {
	Routine   routine.Routine
	Exercises []routine.Exercise
	Speaker   speech.Speaker
	History   HistorySink
	Clock     Clock
	Logger    *log.Logger

	// LanguageTag filters voice selection and tags utterances, e.g. "en-US".
	LanguageTag string
	// VoiceHint is an optional substring preference for voice selection.
	VoiceHint string
}

// Session drives one workout through the routine's exercises and sets.
type Session struct {
	rt        routine.Routine
	exercises []routine.Exercise
	speaker   speech.Speaker
	history   HistorySink
	clock     Clock
	logger    *log.Logger

	language string
	voiceID  string

	stateEvent *events.ChannelEvent[State]

	mu            sync.Mutex
	phase         Phase
	pacing        PacingMode
	exerciseIndex int
	currentSet    int

	// scope is bumped whenever the activity of the current set is torn
	// down. Timer and speech callbacks capture the scope they were
	// scheduled under and bail out when it has moved on.
	scope uint64

	prep *Countdown
	rest *Countdown
	hold *Countdown

	cueTimer   Timer
	graceTimer Timer
	holdTimers []Timer

	prepRemaining int
	restRemaining int
	holdRemaining int
	cueRep        int
	cuePhase      string

	rated  bool
	rating Rating
	closed bool
}

// NewSession creates a session positioned at pacing selection for the first
// set of the first exercise. Exercises must already be hydrated.
func NewSession(args SessionArgs) (*Session, error) {
	if args.Speaker == nil {
		panic("Session: speaker cannot be nil")
	}
	if args.Logger == nil {
		panic("Session: logger cannot be nil")
	}
	if len(args.Exercises) == 0 {
		return nil, errors.New("routine has no exercises")
	}
	clock := args.Clock
	if clock == nil {
		clock = NewClock()
	}
	language := args.LanguageTag
	if language == "" {
		language = "en-US"
	}

	s := &Session{
		rt:            args.Routine,
		exercises:     args.Exercises,
		speaker:       args.Speaker,
		history:       args.History,
		clock:         clock,
		logger:        args.Logger,
		language:      language,
		stateEvent:    events.NewChannelEvent[State](true),
		phase:         PhaseSelectingPacing,
		exerciseIndex: 0,
		currentSet:    1,
	}
	s.prep = NewCountdown(clock)
	s.rest = NewCountdown(clock)
	s.hold = NewCountdown(clock)

	if voices, err := args.Speaker.Voices(); err != nil {
		s.logger.Printf("Session: listing voices failed: %v", err)
	} else if v, ok := speech.ChooseVoice(voices, languagePrefix(language), args.VoiceHint); ok {
		s.voiceID = v.ID
		s.logger.Printf("Session: using voice %q (%s)", v.Name, v.Language)
	}

	s.logger.Printf("Session: started routine %q with %d exercises", args.Routine.Name, len(args.Exercises))
	s.stateEvent.Notify(s.snapshot())
	return s, nil
}

func languagePrefix(tag string) string {
	if i := strings.IndexByte(tag, '-'); i > 0 {
		return tag[:i]
	}
	return tag
}

// ListenToState registers a channel for state snapshots. The latest snapshot
// is replayed immediately. Returns a deregistration function.
func (s *Session) ListenToState(ch chan<- State) func() {
	return s.stateEvent.Listen(ch)
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	ex := s.exercises[s.exerciseIndex]
	return State{
		RoutineName:         s.rt.Name,
		Phase:               s.phase,
		Pacing:              s.pacing,
		ExerciseIndex:       s.exerciseIndex,
		TotalExercises:      len(s.exercises),
		CurrentSet:          s.currentSet,
		ExerciseName:        ex.Name,
		ExerciseDescription: ex.Description,
		Difficulty:          ex.Difficulty,
		CueProfile:          ex.CueProfile,
		Sets:                ex.Sets,
		Reps:                ex.Reps,
		HoldSeconds:         ex.HoldSeconds,
		PrepRemaining:       s.prepRemaining,
		RestRemaining:       s.restRemaining,
		HoldRemaining:       s.holdRemaining,
		CueRep:              s.cueRep,
		CuePhase:            s.cuePhase,
		Rated:               s.rated,
		Rating:              s.rating,
	}
}

// SelectPacing picks the pacing mode and starts the first preparation
// countdown. Only valid while the session is waiting for pacing.
func (s *Session) SelectPacing(mode PacingMode) {
	s.mu.Lock()
	if s.phase != PhaseSelectingPacing || s.closed {
		s.mu.Unlock()
		return
	}
	s.pacing = mode
	eff := s.startPreparationLocked()
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Printf("Session: pacing set to %s", mode)
	eff()
	s.stateEvent.Notify(st)
}

// PlayCues replays the cue sequence for the current set, starting with a
// fresh preparation countdown. Only valid while the set is idle.
func (s *Session) PlayCues() {
	s.mu.Lock()
	if s.phase != PhaseActive || s.closed {
		s.mu.Unlock()
		return
	}
	eff := s.startPreparationLocked()
	st := s.snapshotLocked()
	s.mu.Unlock()

	eff()
	s.stateEvent.Notify(st)
}

// StopCues cancels cue playback or an in-progress hold and returns the set
// to idle. The rep and phase display resets.
func (s *Session) StopCues() {
	s.mu.Lock()
	if (s.phase != PhaseCueing && s.phase != PhaseHolding) || s.closed {
		s.mu.Unlock()
		return
	}
	eff := s.teardownLocked()
	s.phase = PhaseActive
	st := s.snapshotLocked()
	s.mu.Unlock()

	eff()
	s.stateEvent.Notify(st)
}

// CompleteSet finishes the current set and advances: next set with a rest,
// next exercise with a longer rest, or workout completion. Any cue playback
// or hold in progress is cancelled first.
func (s *Session) CompleteSet() {
	s.mu.Lock()
	if s.phase == PhaseSelectingPacing || s.phase == PhaseCompleted || s.phase == PhaseResting || s.closed {
		s.mu.Unlock()
		return
	}
	eff := s.advanceLocked()
	st := s.snapshotLocked()
	s.mu.Unlock()

	eff()
	s.stateEvent.Notify(st)
}

// SkipExercise abandons the rest of the current exercise and moves to the
// next one, or completes the workout on the last. Everything in flight for
// the current set stops immediately.
func (s *Session) SkipExercise() {
	s.mu.Lock()
	if s.phase == PhaseSelectingPacing || s.phase == PhaseCompleted || s.closed {
		s.mu.Unlock()
		return
	}
	teardown := s.teardownLocked()
	s.restRemaining = 0
	var eff func()
	if s.exerciseIndex < len(s.exercises)-1 {
		s.exerciseIndex++
		s.currentSet = 1
		s.logger.Printf("Session: skipped to exercise %d/%d", s.exerciseIndex+1, len(s.exercises))
		eff = s.startPreparationLocked()
	} else {
		s.completeLocked()
		eff = func() {}
	}
	st := s.snapshotLocked()
	s.mu.Unlock()

	teardown()
	eff()
	s.stateEvent.Notify(st)
}

// SkipRest ends the current rest immediately and moves on to preparation.
func (s *Session) SkipRest() {
	s.mu.Lock()
	if s.phase != PhaseResting || s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.rest.ForceZero()
}

// ExtendRest adds time to the current rest.
func (s *Session) ExtendRest() {
	s.mu.Lock()
	if s.phase != PhaseResting || s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.rest.Extend(RestExtendSeconds)
}

// Rate records how the completed workout felt and writes the history entry.
// Only the first rating of a completed session counts.
func (s *Session) Rate(r Rating) {
	s.mu.Lock()
	if s.phase != PhaseCompleted || s.rated || s.closed {
		s.mu.Unlock()
		return
	}
	s.rated = true
	s.rating = r
	entry := HistoryEntry{
		RoutineID:   s.rt.ID,
		RoutineName: s.rt.Name,
		CompletedAt: s.clock.Now(),
		Felt:        r,
	}
	sink := s.history
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Printf("Session: workout rated %s", r)
	if sink != nil {
		if err := sink.Append(entry); err != nil {
			s.logger.Printf("Session: recording history failed: %v", err)
		}
	}
	s.stateEvent.Notify(st)
}

// Close tears the session down: timers cancelled, speech stopped. Closing an
// unrated session records nothing. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	phase := s.phase
	eff := s.teardownLocked()
	s.mu.Unlock()

	s.logger.Printf("Session: closed in phase %s", phase)
	eff()
}

// teardownLocked invalidates the current activity scope and returns the
// side-effect closure that stops speech and timers. The closure must run
// after the session lock is released; Countdown has its own lock and its
// callbacks take ours.
func (s *Session) teardownLocked() func() {
	s.scope++
	cueTimer := s.cueTimer
	graceTimer := s.graceTimer
	holdTimers := s.holdTimers
	s.cueTimer = nil
	s.graceTimer = nil
	s.holdTimers = nil
	s.cueRep = 0
	s.cuePhase = ""
	s.prepRemaining = 0
	s.holdRemaining = 0

	return func() {
		s.speaker.StopAll()
		if cueTimer != nil {
			cueTimer.Stop()
		}
		if graceTimer != nil {
			graceTimer.Stop()
		}
		for _, t := range holdTimers {
			t.Stop()
		}
		s.prep.Cancel()
		s.rest.Cancel()
		s.hold.Cancel()
	}
}

// advanceLocked handles set completion: tears down the current set and
// positions the session at the next set, next exercise, or completion.
func (s *Session) advanceLocked() func() {
	teardown := s.teardownLocked()
	s.restRemaining = 0
	ex := s.exercises[s.exerciseIndex]

	var next func()
	switch {
	case s.currentSet < ex.Sets:
		s.currentSet++
		next = s.afterSetLocked(RestSeconds(s.pacing))
	case s.exerciseIndex < len(s.exercises)-1:
		s.exerciseIndex++
		s.currentSet = 1
		next = s.afterSetLocked(InterExerciseRestSeconds(s.pacing))
	default:
		s.completeLocked()
		next = func() {}
	}
	return func() {
		teardown()
		next()
	}
}

// afterSetLocked enters rest when the pacing calls for one. Manual pacing
// never rests and goes straight to the next preparation countdown.
func (s *Session) afterSetLocked(restSeconds int) func() {
	if s.pacing == PacingManual || restSeconds <= 0 {
		return s.startPreparationLocked()
	}
	return s.startRestLocked(restSeconds)
}

func (s *Session) completeLocked() {
	s.phase = PhaseCompleted
	s.logger.Printf("Session: routine %q complete", s.rt.Name)
}

func (s *Session) startPreparationLocked() func() {
	s.phase = PhasePreparing
	s.prepRemaining = PrepSeconds
	s.cueRep = 0
	s.cuePhase = "READY"
	scope := s.scope
	return func() {
		s.prep.Start(PrepSeconds,
			func(remaining int) { s.onPrepTick(scope, remaining) },
			func() { s.onPrepZero(scope) })
	}
}

func (s *Session) onPrepTick(scope uint64, remaining int) {
	s.mu.Lock()
	if s.scope != scope || s.phase != PhasePreparing {
		s.mu.Unlock()
		return
	}
	s.prepRemaining = remaining
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.stateEvent.Notify(st)
}

func (s *Session) onPrepZero(scope uint64) {
	s.mu.Lock()
	if s.scope != scope || s.phase != PhasePreparing {
		s.mu.Unlock()
		return
	}
	eff := s.startCuesLocked()
	st := s.snapshotLocked()
	s.mu.Unlock()

	eff()
	s.stateEvent.Notify(st)
}

// startCuesLocked begins the actual work of the set once preparation is
// over: a hold countdown with its announcements, or the rep cue sequence.
// Rep exercises with no reps configured fall straight to idle.
func (s *Session) startCuesLocked() func() {
	ex := s.exercises[s.exerciseIndex]
	scope := s.scope

	if ex.CueProfile.IsHold() {
		duration := ex.HoldSeconds
		s.phase = PhaseHolding
		s.holdRemaining = duration
		s.cueRep = duration
		if ex.CueProfile == catalog.CueHoldMinutes {
			s.cuePhase = "MINUTES"
		} else {
			s.cuePhase = "SECONDS LEFT"
		}
		announcements := HoldAnnouncements(ex.CueProfile, duration)
		return func() {
			s.speak("Begin hold", holdStartPitch, holdStartRate)
			timers := make([]Timer, 0, len(announcements))
			for _, a := range announcements {
				a := a
				timers = append(timers, s.clock.AfterFunc(a.At, func() {
					s.onHoldAnnouncement(scope, a.Text)
				}))
			}
			s.adoptHoldTimers(scope, timers)
			s.hold.Start(duration,
				func(remaining int) { s.onHoldTick(scope, remaining) },
				func() { s.onHoldZero(scope) })
		}
	}

	if ex.Reps <= 0 {
		s.phase = PhaseActive
		return func() {}
	}

	s.phase = PhaseCueing
	s.cueRep = 0
	s.cuePhase = ""
	sequence := BuildRepSequence(ex.CueProfile, ex.Reps)
	return func() {
		s.speakCueAt(scope, sequence, 0)
	}
}

// adoptHoldTimers stores announcement timers under the lock, or stops them
// straight away when the scope already moved on.
func (s *Session) adoptHoldTimers(scope uint64, timers []Timer) {
	s.mu.Lock()
	if s.scope != scope {
		s.mu.Unlock()
		for _, t := range timers {
			t.Stop()
		}
		return
	}
	s.holdTimers = append(s.holdTimers, timers...)
	s.mu.Unlock()
}

func (s *Session) onHoldAnnouncement(scope uint64, text string) {
	s.mu.Lock()
	if s.scope != scope || s.phase != PhaseHolding {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.speak(text, holdAnnouncementPitch, holdAnnouncementRate)
}

func (s *Session) onHoldTick(scope uint64, remaining int) {
	s.mu.Lock()
	if s.scope != scope || s.phase != PhaseHolding {
		s.mu.Unlock()
		return
	}
	s.holdRemaining = remaining
	s.cueRep = remaining
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.stateEvent.Notify(st)
}

// onHoldZero clears the hold display and schedules set completion after a
// short grace. A user action during the grace window wins; the grace
// callback finds a stale scope and does nothing.
func (s *Session) onHoldZero(scope uint64) {
	s.mu.Lock()
	if s.scope != scope || s.phase != PhaseHolding {
		s.mu.Unlock()
		return
	}
	announcementTimers := s.holdTimers
	s.holdTimers = nil
	s.phase = PhaseActive
	s.holdRemaining = 0
	s.cueRep = 0
	s.cuePhase = ""
	st := s.snapshotLocked()
	s.mu.Unlock()

	for _, t := range announcementTimers {
		t.Stop()
	}
	grace := s.clock.AfterFunc(holdCompleteGrace, func() { s.onHoldGrace(scope) })
	s.mu.Lock()
	if s.scope != scope {
		s.mu.Unlock()
		grace.Stop()
	} else {
		s.graceTimer = grace
		s.mu.Unlock()
	}
	s.stateEvent.Notify(st)
}

func (s *Session) onHoldGrace(scope uint64) {
	s.mu.Lock()
	if s.scope != scope || s.closed {
		s.mu.Unlock()
		return
	}
	eff := s.advanceLocked()
	st := s.snapshotLocked()
	s.mu.Unlock()

	eff()
	s.stateEvent.Notify(st)
}

// speakCueAt speaks the sequence element at index and chains the next one
// off the utterance's completion callback plus the profile's inter-cue
// delay. The chain dies silently whenever the scope moves on.
func (s *Session) speakCueAt(scope uint64, sequence []CueEvent, index int) {
	s.mu.Lock()
	if s.scope != scope || s.closed {
		s.mu.Unlock()
		return
	}
	if index >= len(sequence) {
		if s.phase == PhaseCueing {
			s.phase = PhaseActive
		}
		s.cuePhase = ""
		st := s.snapshotLocked()
		s.mu.Unlock()
		s.stateEvent.Notify(st)
		return
	}
	ev := sequence[index]
	if ev.Kind == CueKindRep {
		s.cueRep = ev.Rep
		s.cuePhase = "COUNT"
	} else {
		s.cuePhase = ev.Phase
	}
	st := s.snapshotLocked()
	s.mu.Unlock()
	s.stateEvent.Notify(st)

	s.speaker.Speak(ev.Text, speech.SpeakOptions{
		Language:  s.language,
		Voice:     s.voiceID,
		Pitch:     ev.Pitch,
		Rate:      ev.Rate,
		OnDone:    func() { s.scheduleNextCue(scope, sequence, index, ev.DelayAfter) },
		OnStopped: func() { s.onCueInterrupted(scope) },
		OnError: func(err error) {
			s.logger.Printf("Session: speech error: %v", err)
			s.onCueInterrupted(scope)
		},
	})
}

func (s *Session) scheduleNextCue(scope uint64, sequence []CueEvent, index int, delay time.Duration) {
	timer := s.clock.AfterFunc(delay, func() {
		s.speakCueAt(scope, sequence, index+1)
	})
	s.mu.Lock()
	if s.scope != scope {
		s.mu.Unlock()
		timer.Stop()
		return
	}
	s.cueTimer = timer
	s.mu.Unlock()
}

// onCueInterrupted handles an utterance that was stopped or failed while its
// scope is still live: the cue chain is over, the set goes back to idle.
func (s *Session) onCueInterrupted(scope uint64) {
	s.mu.Lock()
	if s.scope != scope || s.closed {
		s.mu.Unlock()
		return
	}
	cueTimer := s.cueTimer
	s.cueTimer = nil
	if s.phase == PhaseCueing {
		s.phase = PhaseActive
	}
	s.cueRep = 0
	s.cuePhase = ""
	st := s.snapshotLocked()
	s.mu.Unlock()

	if cueTimer != nil {
		cueTimer.Stop()
	}
	s.stateEvent.Notify(st)
}

func (s *Session) startRestLocked(restSeconds int) func() {
	s.phase = PhaseResting
	s.restRemaining = restSeconds
	s.cueRep = 0
	s.cuePhase = ""
	scope := s.scope
	return func() {
		s.rest.Start(restSeconds,
			func(remaining int) { s.onRestTick(scope, remaining) },
			func() { s.onRestZero(scope) })
	}
}

func (s *Session) onRestTick(scope uint64, remaining int) {
	s.mu.Lock()
	if s.scope != scope || s.phase != PhaseResting {
		s.mu.Unlock()
		return
	}
	s.restRemaining = remaining
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.stateEvent.Notify(st)
}

func (s *Session) onRestZero(scope uint64) {
	s.mu.Lock()
	if s.scope != scope || s.phase != PhaseResting {
		s.mu.Unlock()
		return
	}
	s.restRemaining = 0
	eff := s.startPreparationLocked()
	st := s.snapshotLocked()
	s.mu.Unlock()

	eff()
	s.stateEvent.Notify(st)
}

// speak sends a fire-and-forget utterance with the session's voice settings.
func (s *Session) speak(text string, pitch, rate float64) {
	s.speaker.Speak(text, speech.SpeakOptions{
		Language: s.language,
		Voice:    s.voiceID,
		Pitch:    pitch,
		Rate:     rate,
	})
}
