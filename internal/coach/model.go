package coach

import (
	"context"
	"log"
	"sync"

	"github.com/lowaak/fit-coach/fit-coach-app/internal/events"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/go_func_utils"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/player"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/routine"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/store"
)

const maxLogLines = 1000

// Model holds the UI-facing application state and fans changes out to
// listeners over channel events. The view subscribes; the controller writes.
type Model struct {
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu            sync.Mutex
	logLines      []string
	routines      []routine.Routine
	history       []player.HistoryEntry
	schedule      map[string]store.ScheduledWorkout
	uiMode        UIMode
	sessionState  player.State
	sessionLive   bool
	detachSession func()

	logEvent         *events.ChannelEvent[string]
	routinesEvent    *events.ChannelEvent[[]routine.Routine]
	historyEvent     *events.ChannelEvent[[]player.HistoryEntry]
	uiModeEvent      *events.ChannelEvent[UIMode]
	sessionEvent     *events.ChannelEvent[player.State]
	sessionLiveEvent *events.ChannelEvent[bool]
	closeAppEvent    *events.ChannelEvent[struct{}]
}

// NewModel creates the model and starts draining uiLogChan into the in-app
// log tail. uiLogChan may be nil when no log tee is wired.
func NewModel(logger *log.Logger, uiLogChan <-chan string) *Model {
	if logger == nil {
		panic("Model: logger cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		logger:           logger,
		ctx:              ctx,
		cancel:           cancel,
		schedule:         make(map[string]store.ScheduledWorkout),
		logEvent:         events.NewChannelEvent[string](false),
		routinesEvent:    events.NewChannelEvent[[]routine.Routine](true),
		historyEvent:     events.NewChannelEvent[[]player.HistoryEntry](true),
		uiModeEvent:      events.NewChannelEvent[UIMode](true),
		sessionEvent:     events.NewChannelEvent[player.State](true),
		sessionLiveEvent: events.NewChannelEvent[bool](true),
		closeAppEvent:    events.NewChannelEvent[struct{}](false),
	}
	if uiLogChan != nil {
		go_func_utils.SafeGoWait(&m.wg, logger, func() {
			m.readFromLogChannel(uiLogChan)
		})
	}
	return m
}

func (m *Model) readFromLogChannel(ch <-chan string) {
	for {
		select {
		case <-m.ctx.Done():
			return
		case line, ok := <-ch:
			if !ok {
				return
			}
			m.mu.Lock()
			m.logLines = append(m.logLines, line)
			if len(m.logLines) > maxLogLines {
				m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
			}
			m.mu.Unlock()
			m.logEvent.Notify(line)
		}
	}
}

// GetLogTail returns up to n of the most recent log lines.
func (m *Model) GetLogTail(n int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > len(m.logLines) {
		n = len(m.logLines)
	}
	out := make([]string, n)
	copy(out, m.logLines[len(m.logLines)-n:])
	return out
}

// ListenToLog registers for new log lines.
func (m *Model) ListenToLog(ch chan<- string) func() {
	return m.logEvent.Listen(ch)
}

// SetRoutines replaces the routine list and notifies listeners.
func (m *Model) SetRoutines(routines []routine.Routine) {
	m.mu.Lock()
	m.routines = routines
	m.mu.Unlock()
	m.routinesEvent.Notify(routines)
}

// GetRoutines returns the current routine list.
func (m *Model) GetRoutines() []routine.Routine {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]routine.Routine, len(m.routines))
	copy(out, m.routines)
	return out
}

// ListenToRoutines registers for routine list changes, replaying the latest.
func (m *Model) ListenToRoutines(ch chan<- []routine.Routine) func() {
	return m.routinesEvent.Listen(ch)
}

// SetHistory replaces the workout history and notifies listeners.
func (m *Model) SetHistory(history []player.HistoryEntry) {
	m.mu.Lock()
	m.history = history
	m.mu.Unlock()
	m.historyEvent.Notify(history)
}

// GetHistory returns the current workout history.
func (m *Model) GetHistory() []player.HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]player.HistoryEntry, len(m.history))
	copy(out, m.history)
	return out
}

// ListenToHistory registers for history changes, replaying the latest.
func (m *Model) ListenToHistory(ch chan<- []player.HistoryEntry) func() {
	return m.historyEvent.Listen(ch)
}

// SetSchedule replaces the scheduled-workout map.
func (m *Model) SetSchedule(schedule map[string]store.ScheduledWorkout) {
	m.mu.Lock()
	m.schedule = schedule
	m.mu.Unlock()
}

// GetScheduledFor returns the plan for an ISO date, if any.
func (m *Model) GetScheduledFor(date string) (store.ScheduledWorkout, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sw, ok := m.schedule[date]
	return sw, ok
}

// SetUIMode switches the active screen.
func (m *Model) SetUIMode(mode UIMode) {
	m.mu.Lock()
	m.uiMode = mode
	m.mu.Unlock()
	m.uiModeEvent.Notify(mode)
}

// GetUIMode returns the active screen.
func (m *Model) GetUIMode() UIMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uiMode
}

// ListenToUIMode registers for screen switches, replaying the latest.
func (m *Model) ListenToUIMode(ch chan<- UIMode) func() {
	return m.uiModeEvent.Listen(ch)
}

// AttachSession subscribes the model to a workout session and relays its
// state snapshots to session listeners. Any previous session is detached.
func (m *Model) AttachSession(sess *player.Session) {
	stateCh := make(chan player.State, 16)
	unlisten := sess.ListenToState(stateCh)

	m.mu.Lock()
	if m.detachSession != nil {
		m.detachSession()
	}
	m.detachSession = unlisten
	m.sessionLive = true
	m.sessionState = sess.State()
	m.mu.Unlock()

	m.sessionLiveEvent.Notify(true)
	m.sessionEvent.Notify(sess.State())

	go_func_utils.SafeGoWait(&m.wg, m.logger, func() {
		for {
			select {
			case <-m.ctx.Done():
				return
			case st, ok := <-stateCh:
				if !ok {
					return
				}
				m.mu.Lock()
				live := m.sessionLive
				if live {
					m.sessionState = st
				}
				m.mu.Unlock()
				if live {
					m.sessionEvent.Notify(st)
				}
			}
		}
	})
}

// DetachSession drops the current session relay, if any.
func (m *Model) DetachSession() {
	m.mu.Lock()
	detach := m.detachSession
	m.detachSession = nil
	m.sessionLive = false
	m.mu.Unlock()

	if detach != nil {
		detach()
	}
	m.sessionLiveEvent.Notify(false)
}

// GetSessionState returns the latest session snapshot and whether a session
// is attached.
func (m *Model) GetSessionState() (player.State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionState, m.sessionLive
}

// ListenToSession registers for session snapshots, replaying the latest.
func (m *Model) ListenToSession(ch chan<- player.State) func() {
	return m.sessionEvent.Listen(ch)
}

// ListenToSessionLive registers for session attach/detach flips.
func (m *Model) ListenToSessionLive(ch chan<- bool) func() {
	return m.sessionLiveEvent.Listen(ch)
}

// RequestCloseApplication asks the UI to shut down.
func (m *Model) RequestCloseApplication() {
	m.closeAppEvent.Notify(struct{}{})
}

// ListenToCloseApplication registers for the shutdown request.
func (m *Model) ListenToCloseApplication(ch chan<- struct{}) func() {
	return m.closeAppEvent.Listen(ch)
}

// Shutdown stops the model's goroutines and waits for them.
func (m *Model) Shutdown() {
	m.cancel()
	m.wg.Wait()
}
