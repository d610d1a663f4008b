package coach

import (
	"fmt"
	"log"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lowaak/fit-coach/fit-coach-app/internal/player"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/routine"
)

// Page names for tview.Pages
const (
	pageRoutines = "routines"
	pagePlayer   = "player"
	pageHistory  = "history"
)

// routineListItem maps a list row back to what it represents: a saved
// routine or a recommended template.
type routineListItem struct {
	isTemplate bool
	id         string
}

// CursesViewImpl implements ViewImpl using tview (curses-based terminal UI)
type CursesViewImpl struct {
	logger      *log.Logger
	app         *tview.Application
	model       *Model
	currentMode UIMode

	// Root container that holds all pages
	pages *tview.Pages

	// Shared components (visible in all modes)
	logView  *tview.TextView
	mainFlex *tview.Flex

	// Routines mode components
	routinesFlex *tview.Flex
	routineList  *tview.List
	detailsPanel *tview.TextView
	listItems    []routineListItem
	routines     []routine.Routine
	templates    []routine.Template

	// Player mode components
	playerFlex   *tview.Flex
	playerPanel  *tview.TextView
	sessionState player.State
	sessionLive  bool

	// History mode components
	historyFlex  *tview.Flex
	historyPanel *tview.TextView
}

func NewCursesView(logger *log.Logger, app *tview.Application, model *Model) *CursesViewImpl {
	return &CursesViewImpl{
		logger:      logger,
		app:         app,
		model:       model,
		currentMode: UIModeRoutines,
	}
}

// Initialize sets up the tview widgets
func (ui *CursesViewImpl) Initialize(controller *Controller) {
	// Note: Don't use SetChangedFunc with app.Draw() - it can cause hangs
	// during shutdown when the app has been stopped but log messages are
	// still being written. BaseView's listeners call Draw() after updates.
	ui.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	ui.logView.SetBorder(true).SetTitle(" Logs ")

	ui.pages = tview.NewPages()

	ui.initRoutinesMode(controller)
	ui.initPlayerMode(controller)
	ui.initHistoryMode(controller)

	ui.pages.AddPage(pageRoutines, ui.routinesFlex, true, true)
	ui.pages.AddPage(pagePlayer, ui.playerFlex, true, false)
	ui.pages.AddPage(pageHistory, ui.historyFlex, true, false)

	ui.mainFlex = tview.NewFlex().
		AddItem(ui.pages, 0, 2, true).
		AddItem(ui.logView, 0, 1, false)
}

func (ui *CursesViewImpl) initRoutinesMode(controller *Controller) {
	instructionsText := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	instructionsText.SetText("[yellow]Enter[white] Start Workout  |  [yellow]D[white] Delete Routine\n[yellow]1[white] Routines  |  [yellow]2[white] Player  |  [yellow]3[white] History")

	ui.routineList = tview.NewList().
		ShowSecondaryText(true).
		SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			if index < 0 || index >= len(ui.listItems) {
				return
			}
			item := ui.listItems[index]
			if item.isTemplate {
				clone, err := controller.FollowTemplate(item.id)
				if err != nil {
					ui.logger.Printf("UI: Following template failed: %v", err)
					return
				}
				if err := controller.StartWorkout(clone.ID); err != nil {
					ui.logger.Printf("UI: Starting workout failed: %v", err)
				}
				return
			}
			if err := controller.StartWorkout(item.id); err != nil {
				ui.logger.Printf("UI: Starting workout failed: %v", err)
			}
		}).
		SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			ui.updateDetailsDisplay(index)
		})
	ui.routineList.SetBorder(true).SetTitle(" Routines ")

	ui.detailsPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.detailsPanel.SetBorder(true).SetTitle(" Details ")
	ui.updateDetailsDisplay(-1)

	listRow := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ui.routineList, 0, 1, true).
		AddItem(ui.detailsPanel, 0, 1, false)

	ui.routinesFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(instructionsText, 2, 0, false).
		AddItem(listRow, 0, 1, true)
}

func (ui *CursesViewImpl) initPlayerMode(controller *Controller) {
	ui.playerPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.playerPanel.SetBorder(true).SetTitle(" Workout ")
	ui.renderPlayerPanel()

	ui.playerFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.playerPanel, 0, 1, true)
}

func (ui *CursesViewImpl) initHistoryMode(controller *Controller) {
	ui.historyPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.historyPanel.SetBorder(true).SetTitle(" History ")
	ui.historyPanel.SetText("\n  [gray]No workouts recorded yet.[white]\n")

	ui.historyFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.historyPanel, 0, 1, true)
}

// SetRoutineList populates the routine list: saved routines first, then the
// recommended templates that haven't been followed yet.
func (ui *CursesViewImpl) SetRoutineList(routines []routine.Routine, templates []routine.Template) {
	ui.routines = routines
	ui.templates = templates

	currentIndex := ui.routineList.GetCurrentItem()

	ui.routineList.Clear()
	ui.listItems = ui.listItems[:0]

	followed := make(map[string]bool, len(routines))
	for _, r := range routines {
		if r.TemplateID != "" {
			followed[r.TemplateID] = true
		}
		secondary := fmt.Sprintf("%d exercises", len(r.Exercises))
		ui.routineList.AddItem(r.Name, secondary, 0, nil)
		ui.listItems = append(ui.listItems, routineListItem{id: r.ID})
	}
	for _, t := range templates {
		if followed[t.ID] {
			continue
		}
		secondary := fmt.Sprintf("recommended | %s | %s", t.Focus, t.Duration)
		ui.routineList.AddItem(t.Name, secondary, 0, nil)
		ui.listItems = append(ui.listItems, routineListItem{isTemplate: true, id: t.ID})
	}

	if currentIndex >= 0 && currentIndex < len(ui.listItems) {
		ui.routineList.SetCurrentItem(currentIndex)
	}
	ui.updateDetailsDisplay(ui.routineList.GetCurrentItem())
}

func (ui *CursesViewImpl) updateDetailsDisplay(index int) {
	if ui.detailsPanel == nil {
		return
	}

	if index < 0 || index >= len(ui.listItems) {
		text := "\n\n  [yellow]Routines[white]\n\n"
		text += "  Select a routine to view details.\n\n"
		text += "  [gray]Press Enter to start a workout.[white]\n"
		ui.detailsPanel.SetText(text)
		return
	}

	item := ui.listItems[index]
	if item.isTemplate {
		for _, t := range ui.templates {
			if t.ID == item.id {
				text := "\n"
				text += fmt.Sprintf("  [yellow]%s[white] [gray](recommended)[white]\n\n", t.Name)
				text += fmt.Sprintf("  %s\n\n", t.Description)
				text += fmt.Sprintf("  [gray]Difficulty:[white] %s\n", strings.ToUpper(t.Difficulty))
				text += fmt.Sprintf("  [gray]Focus:[white] %s\n", t.Focus)
				text += fmt.Sprintf("  [gray]Duration:[white] %s\n\n", t.Duration)
				text += "  [green]Press Enter to follow and start[white]\n"
				ui.detailsPanel.SetText(text)
				return
			}
		}
		return
	}
	for _, r := range ui.routines {
		if r.ID == item.id {
			text := "\n"
			text += fmt.Sprintf("  [yellow]%s[white]\n\n", r.Name)
			text += fmt.Sprintf("  [gray]Exercises:[white] %d\n\n", len(r.Exercises))
			text += "  [green]Press Enter to start this workout[white]\n"
			ui.detailsPanel.SetText(text)
			return
		}
	}
}

// UpdateSessionState refreshes the player panel from a session snapshot.
func (ui *CursesViewImpl) UpdateSessionState(state player.State, live bool) {
	ui.sessionState = state
	ui.sessionLive = live
	ui.renderPlayerPanel()
}

func (ui *CursesViewImpl) renderPlayerPanel() {
	if ui.playerPanel == nil {
		return
	}

	if !ui.sessionLive {
		text := "\n\n  [yellow]Player[white]\n\n"
		text += "  No workout in progress.\n\n"
		text += "  [gray]Go to Routines (press 1) and press Enter on a routine.[white]\n"
		ui.playerPanel.SetText(text)
		return
	}

	st := ui.sessionState
	text := "\n"
	text += fmt.Sprintf("  [yellow]%s[white]\n", st.RoutineName)
	text += fmt.Sprintf("  [gray]Exercise %d/%d:[white] %s [gray](%s)[white]\n",
		st.ExerciseIndex+1, st.TotalExercises, st.ExerciseName, st.Difficulty.Label())
	text += fmt.Sprintf("  [gray]Set:[white] %d/%d\n\n", st.CurrentSet, st.Sets)

	switch st.Phase {
	case player.PhaseSelectingPacing:
		text += "  [cyan]Choose your pacing:[white]\n\n"
		text += "  [yellow]1[white] Manual    [gray]no automatic rests[white]\n"
		text += "  [yellow]2[white] Slow      [gray]60s rest between sets[white]\n"
		text += "  [yellow]3[white] Medium    [gray]30s rest between sets[white]\n"
		text += "  [yellow]4[white] Fast      [gray]15s rest between sets[white]\n"

	case player.PhasePreparing:
		text += fmt.Sprintf("  [cyan]GET READY[white]\n\n  [yellow::b]%d[white]\n", st.PrepRemaining)

	case player.PhaseCueing:
		if st.CuePhase == "COUNT" {
			text += fmt.Sprintf("  [green::b]%s[white]\n", player.NumberToWord(st.CueRep))
		} else {
			text += fmt.Sprintf("  [green::b]%s[white]\n", st.CuePhase)
		}
		text += fmt.Sprintf("\n  [gray]Rep:[white] %d/%d\n\n", st.CueRep, st.Reps)
		text += "  [yellow]X[white] Stop cues  |  [yellow]C[white] Complete set\n"

	case player.PhaseHolding:
		text += fmt.Sprintf("  [green::b]HOLD  %s[white]\n\n", player.FormatDuration(st.HoldRemaining))
		text += "  [yellow]X[white] Stop  |  [yellow]C[white] Complete set\n"

	case player.PhaseActive:
		if st.CueProfile.IsHold() {
			text += fmt.Sprintf("  [gray]Hold:[white] %s\n\n", player.FormatDuration(st.HoldSeconds))
		} else {
			text += fmt.Sprintf("  [gray]Reps:[white] %d\n\n", st.Reps)
		}
		text += "  [yellow]P[white] Play cues  |  [yellow]C[white] Complete set  |  [yellow]N[white] Skip exercise\n"

	case player.PhaseResting:
		text += fmt.Sprintf("  [cyan]REST  %s[white]\n\n", player.FormatDuration(st.RestRemaining))
		text += "  [yellow]S[white] Skip rest  |  [yellow]E[white] +10s\n"

	case player.PhaseCompleted:
		text += "  [green::b]Workout complete![white]\n\n"
		if st.Rated {
			text += fmt.Sprintf("  Felt: [yellow]%s[white]\n\n  [gray]Press Esc to return to your routines.[white]\n", st.Rating)
		} else {
			text += "  How did it feel?\n\n"
			text += "  [yellow]1[white] Easy    [yellow]2[white] OK    [yellow]3[white] Hard\n"
		}
	}

	if st.ExerciseDescription != "" && st.Phase == player.PhaseActive {
		text += fmt.Sprintf("\n  [gray]%s[white]\n", st.ExerciseDescription)
	}

	ui.playerPanel.SetText(text)
}

// UpdateHistory refreshes the history panel.
func (ui *CursesViewImpl) UpdateHistory(entries []player.HistoryEntry) {
	if ui.historyPanel == nil {
		return
	}
	if len(entries) == 0 {
		ui.historyPanel.SetText("\n  [gray]No workouts recorded yet.[white]\n")
		return
	}

	text := "\n"
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		text += fmt.Sprintf("  [gray]%s[white]  %s  [yellow]%s[white]\n",
			e.CompletedAt.Format("2006-01-02 15:04"), e.RoutineName, e.Felt)
	}
	ui.historyPanel.SetText(text)
}

// SetMode switches the UI to the specified mode
func (ui *CursesViewImpl) SetMode(mode UIMode) {
	if ui.currentMode == mode {
		return
	}

	ui.currentMode = mode

	switch mode {
	case UIModeRoutines:
		ui.pages.SwitchToPage(pageRoutines)
		ui.app.SetFocus(ui.routineList)
	case UIModePlayer:
		ui.pages.SwitchToPage(pagePlayer)
		ui.app.SetFocus(ui.playerPanel)
	case UIModeHistory:
		ui.pages.SwitchToPage(pageHistory)
		ui.app.SetFocus(ui.historyPanel)
	}
}

// GetCurrentMode returns the currently active UI mode
func (ui *CursesViewImpl) GetCurrentMode() UIMode {
	return ui.currentMode
}

// SetupKeyboardHandlers sets up keyboard event handlers
func (ui *CursesViewImpl) SetupKeyboardHandlers(controller *Controller) {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			controller.HandleEscape()
			return nil
		}

		if event.Key() != tcell.KeyRune {
			return event
		}
		r := event.Rune()

		// In the player, digits select pacing or a rating depending on
		// phase; they only fall through to mode switching otherwise.
		if ui.currentMode == UIModePlayer && ui.sessionLive {
			if handled := ui.handlePlayerKey(controller, r); handled {
				return nil
			}
		}

		if mode, ok := GetUIModeByKey(r); ok {
			controller.SwitchMode(mode)
			return nil
		}

		if ui.currentMode == UIModeRoutines && (r == 'd' || r == 'D') {
			index := ui.routineList.GetCurrentItem()
			if index >= 0 && index < len(ui.listItems) && !ui.listItems[index].isTemplate {
				controller.DeleteRoutine(ui.listItems[index].id)
			}
			return nil
		}

		return event
	})
}

func (ui *CursesViewImpl) handlePlayerKey(controller *Controller, r rune) bool {
	switch ui.sessionState.Phase {
	case player.PhaseSelectingPacing:
		switch r {
		case '1':
			controller.SelectPacing(player.PacingManual)
		case '2':
			controller.SelectPacing(player.PacingSlow)
		case '3':
			controller.SelectPacing(player.PacingMedium)
		case '4':
			controller.SelectPacing(player.PacingFast)
		default:
			return false
		}
		return true

	case player.PhaseCompleted:
		switch r {
		case '1':
			controller.RateWorkout(player.RatingEasy)
		case '2':
			controller.RateWorkout(player.RatingOK)
		case '3':
			controller.RateWorkout(player.RatingHard)
		default:
			return false
		}
		return true

	case player.PhaseResting:
		switch r {
		case 's', 'S':
			controller.SkipRest()
		case 'e', 'E':
			controller.ExtendRest()
		case 'n', 'N':
			controller.SkipExercise()
		default:
			return false
		}
		return true

	default:
		switch r {
		case 'p', 'P':
			controller.PlayCues()
		case 'x', 'X':
			controller.StopCues()
		case 'c', 'C':
			controller.CompleteSet()
		case 'n', 'N':
			controller.SkipExercise()
		default:
			return false
		}
		return true
	}
}

// GetLogViewHeight returns the visible height of the log view
func (ui *CursesViewImpl) GetLogViewHeight() int {
	_, _, _, height := ui.logView.GetInnerRect()
	return height
}

// ClearLogView clears the log view
func (ui *CursesViewImpl) ClearLogView() {
	ui.logView.Clear()
}

// WriteLogLine writes a line to the log view
func (ui *CursesViewImpl) WriteLogLine(line string) error {
	_, err := fmt.Fprint(ui.logView, line)
	return err
}

// Draw refreshes/redraws the UI
func (ui *CursesViewImpl) Draw() error {
	ui.app.Draw()
	return nil
}

// Run starts the UI and blocks until it exits
func (ui *CursesViewImpl) Run() error {
	ui.app.SetRoot(ui.mainFlex, true)
	ui.app.SetFocus(ui.routineList)
	return ui.app.Run()
}

// Stop stops the UI framework
func (ui *CursesViewImpl) Stop() {
	ui.app.Stop()
}
