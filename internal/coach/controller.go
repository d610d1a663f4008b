package coach

import (
	"fmt"
	"log"
	"sync"

	"github.com/lowaak/fit-coach/fit-coach-app/internal/catalog"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/player"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/routine"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/speech"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/store"
)

// ControllerArgs collects the controller's dependencies.
type ControllerArgs struct {
	Model   *Model
	Store   *store.Store
	Catalog *catalog.Catalog
	Speaker speech.Speaker
	Clock   player.Clock
	Logger  *log.Logger

	SpeechLanguage  string
	SpeechVoiceHint string
}

// Controller executes user actions: it mutates the store, manages the
// workout session, and pushes results into the model.
type Controller struct {
	model   *Model
	store   *store.Store
	catalog *catalog.Catalog
	speaker speech.Speaker
	clock   player.Clock
	logger  *log.Logger

	language  string
	voiceHint string

	mu      sync.Mutex
	session *player.Session
}

// NewController creates a controller.
func NewController(args ControllerArgs) *Controller {
	if args.Model == nil {
		panic("Controller: model cannot be nil")
	}
	if args.Store == nil {
		panic("Controller: store cannot be nil")
	}
	if args.Catalog == nil {
		panic("Controller: catalog cannot be nil")
	}
	if args.Speaker == nil {
		panic("Controller: speaker cannot be nil")
	}
	if args.Logger == nil {
		panic("Controller: logger cannot be nil")
	}
	clock := args.Clock
	if clock == nil {
		clock = player.NewClock()
	}
	return &Controller{
		model:     args.Model,
		store:     args.Store,
		catalog:   args.Catalog,
		speaker:   args.Speaker,
		clock:     clock,
		logger:    args.Logger,
		language:  args.SpeechLanguage,
		voiceHint: args.SpeechVoiceHint,
	}
}

// RefreshAll loads everything from the store into the model.
func (c *Controller) RefreshAll() {
	c.RefreshRoutines()
	c.RefreshHistory()
	c.model.SetSchedule(c.store.LoadSchedule())
}

// RefreshRoutines reloads the routine list into the model.
func (c *Controller) RefreshRoutines() {
	c.model.SetRoutines(c.store.LoadRoutines())
}

// RefreshHistory reloads the workout history into the model.
func (c *Controller) RefreshHistory() {
	c.model.SetHistory(c.store.LoadHistory())
}

// CreateRoutine saves a new routine built from entries.
func (c *Controller) CreateRoutine(name string, entries []routine.Entry) routine.Routine {
	r := routine.New(name, entries)
	c.store.AddRoutine(r)
	c.logger.Printf("Controller: created routine %q (%d exercises)", name, len(entries))
	c.RefreshRoutines()
	return r
}

// FollowTemplate clones a recommended template into the user's routines.
// Following the same template twice returns the existing clone instead.
func (c *Controller) FollowTemplate(templateID string) (routine.Routine, error) {
	for _, existing := range c.store.LoadRoutines() {
		if existing.TemplateID == templateID {
			return existing, nil
		}
	}
	tpl, ok := routine.FindTemplate(templateID)
	if !ok {
		return routine.Routine{}, fmt.Errorf("unknown template %q", templateID)
	}
	clone := routine.CloneTemplate(tpl)
	c.store.AddRoutine(clone)
	c.logger.Printf("Controller: followed template %q", tpl.Name)
	c.RefreshRoutines()
	return clone, nil
}

// DeleteRoutine removes a routine.
func (c *Controller) DeleteRoutine(id string) {
	c.store.DeleteRoutine(id)
	c.logger.Printf("Controller: deleted routine %s", id)
	c.RefreshRoutines()
}

// ScheduleWorkout plans a routine for an ISO date (2006-01-02).
func (c *Controller) ScheduleWorkout(date, routineID string) error {
	r, ok := c.findRoutine(routineID)
	if !ok {
		return fmt.Errorf("routine %q not found", routineID)
	}
	c.store.ScheduleWorkout(date, store.ScheduledWorkout{
		RoutineID:   r.ID,
		RoutineName: r.Name,
	})
	c.model.SetSchedule(c.store.LoadSchedule())
	return nil
}

// UnscheduleWorkout clears the plan for a date.
func (c *Controller) UnscheduleWorkout(date string) {
	c.store.UnscheduleWorkout(date)
	c.model.SetSchedule(c.store.LoadSchedule())
}

// StartWorkout hydrates the routine and opens a session in the player
// screen. An unknown routine id is the only failure; stale exercise
// references inside a routine are tolerated by hydration.
func (c *Controller) StartWorkout(routineID string) error {
	r, ok := c.findRoutine(routineID)
	if !ok {
		return fmt.Errorf("routine %q not found", routineID)
	}
	exercises := routine.Hydrate(r, c.catalog)

	sess, err := player.NewSession(player.SessionArgs{
		Routine:     r,
		Exercises:   exercises,
		Speaker:     c.speaker,
		History:     c.store,
		Clock:       c.clock,
		Logger:      c.logger,
		LanguageTag: c.language,
		VoiceHint:   c.voiceHint,
	})
	if err != nil {
		return fmt.Errorf("starting workout: %w", err)
	}

	c.mu.Lock()
	old := c.session
	c.session = sess
	c.mu.Unlock()
	if old != nil {
		old.Close()
	}

	c.model.AttachSession(sess)
	c.model.SetUIMode(UIModePlayer)
	return nil
}

// ExitWorkout closes the active session and returns to the routine list.
func (c *Controller) ExitWorkout() {
	c.mu.Lock()
	sess := c.session
	c.session = nil
	c.mu.Unlock()
	if sess == nil {
		return
	}
	sess.Close()
	c.model.DetachSession()
	c.RefreshHistory()
	c.model.SetUIMode(UIModeRoutines)
}

func (c *Controller) findRoutine(id string) (routine.Routine, bool) {
	for _, r := range c.store.LoadRoutines() {
		if r.ID == id {
			return r, true
		}
	}
	return routine.Routine{}, false
}

func (c *Controller) withSession(fn func(*player.Session)) {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess != nil {
		fn(sess)
	}
}

// SelectPacing forwards the pacing choice to the active session.
func (c *Controller) SelectPacing(mode player.PacingMode) {
	c.withSession(func(s *player.Session) { s.SelectPacing(mode) })
}

// PlayCues replays the current set's cues.
func (c *Controller) PlayCues() {
	c.withSession(func(s *player.Session) { s.PlayCues() })
}

// StopCues cancels cue playback or a hold.
func (c *Controller) StopCues() {
	c.withSession(func(s *player.Session) { s.StopCues() })
}

// CompleteSet marks the current set done.
func (c *Controller) CompleteSet() {
	c.withSession(func(s *player.Session) { s.CompleteSet() })
}

// SkipExercise jumps to the next exercise.
func (c *Controller) SkipExercise() {
	c.withSession(func(s *player.Session) { s.SkipExercise() })
}

// SkipRest ends the current rest early.
func (c *Controller) SkipRest() {
	c.withSession(func(s *player.Session) { s.SkipRest() })
}

// ExtendRest adds time to the current rest.
func (c *Controller) ExtendRest() {
	c.withSession(func(s *player.Session) { s.ExtendRest() })
}

// RateWorkout records the post-workout rating and refreshes history.
func (c *Controller) RateWorkout(r player.Rating) {
	c.withSession(func(s *player.Session) { s.Rate(r) })
	c.RefreshHistory()
}

// HandleEscape exits the player when it is active, otherwise asks the app
// to close.
func (c *Controller) HandleEscape() {
	if c.model.GetUIMode() == UIModePlayer {
		c.ExitWorkout()
		return
	}
	c.model.RequestCloseApplication()
}

// SwitchMode changes the active screen. Switching away from the player does
// not end the workout.
func (c *Controller) SwitchMode(mode UIMode) {
	c.model.SetUIMode(mode)
}

// Shutdown closes any active session.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	sess := c.session
	c.session = nil
	c.mu.Unlock()
	if sess != nil {
		sess.Close()
	}
}
