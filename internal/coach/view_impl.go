package coach

import (
	"github.com/lowaak/fit-coach/fit-coach-app/internal/player"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/routine"
)

// ViewImpl is the framework-specific part of the UI. BaseView drives it from
// model events; implementations own the widgets and the event loop.
type ViewImpl interface {
	Initialize(controller *Controller)
	SetupKeyboardHandlers(controller *Controller)

	SetMode(mode UIMode)
	SetRoutineList(routines []routine.Routine, templates []routine.Template)
	UpdateSessionState(state player.State, live bool)
	UpdateHistory(entries []player.HistoryEntry)

	GetLogViewHeight() int
	ClearLogView()
	WriteLogLine(line string) error

	Draw() error
	Run() error
	Stop()
}
