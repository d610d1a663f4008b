package coach

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lowaak/fit-coach/fit-coach-app/internal/go_func_utils"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/player"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/routine"
)

// BaseView contains the UI logic shared by all view implementations: it
// subscribes to model events and pushes updates into the ViewImpl.
type BaseView struct {
	viewImpl   ViewImpl
	model      *Model
	controller *Controller
	context    context.Context
	cancelFunc context.CancelFunc
	waitGroup  sync.WaitGroup
	logger     *log.Logger
}

// NewBaseViewArgs holds the arguments for creating a BaseView.
type NewBaseViewArgs struct {
	ViewImpl   ViewImpl
	Model      *Model
	Controller *Controller
	Logger     *log.Logger
}

// NewBaseView creates a BaseView and wires the impl to the model.
func NewBaseView(args NewBaseViewArgs) *BaseView {
	if args.Logger == nil {
		panic("BaseView: logger cannot be nil")
	}
	if args.ViewImpl == nil {
		panic("BaseView: ViewImpl cannot be nil")
	}
	if args.Model == nil {
		panic("BaseView: model cannot be nil")
	}
	if args.Controller == nil {
		panic("BaseView: controller cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())

	base := &BaseView{
		viewImpl:   args.ViewImpl,
		model:      args.Model,
		controller: args.Controller,
		context:    ctx,
		cancelFunc: cancel,
		logger:     args.Logger,
	}

	args.ViewImpl.Initialize(args.Controller)
	args.ViewImpl.SetupKeyboardHandlers(args.Controller)
	args.ViewImpl.SetMode(args.Model.GetUIMode())
	args.ViewImpl.SetRoutineList(args.Model.GetRoutines(), routine.Templates())

	go_func_utils.SafeGoWait(&base.waitGroup, base.logger, func() { base.monitorLogResize() })
	base.updateLogDisplay()

	base.setupEventListeners()

	return base
}

func (base *BaseView) setupEventListeners() {
	logChan := make(chan string, 1)
	logUnregister := base.model.ListenToLog(logChan)
	go_func_utils.SafeGoWait(&base.waitGroup, base.logger, func() {
		defer logUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case _, ok := <-logChan:
				if !ok {
					return
				}
				base.updateLogDisplay()
			}
		}
	})

	routinesChan := make(chan []routine.Routine, 1)
	routinesUnregister := base.model.ListenToRoutines(routinesChan)
	go_func_utils.SafeGoWait(&base.waitGroup, base.logger, func() {
		defer routinesUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case routines, ok := <-routinesChan:
				if !ok {
					return
				}
				base.viewImpl.SetRoutineList(routines, routine.Templates())
				if err := base.viewImpl.Draw(); err != nil {
					base.logger.Printf("BaseView: Error drawing: %v", err)
				}
			}
		}
	})

	historyChan := make(chan []player.HistoryEntry, 1)
	historyUnregister := base.model.ListenToHistory(historyChan)
	go_func_utils.SafeGoWait(&base.waitGroup, base.logger, func() {
		defer historyUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case entries, ok := <-historyChan:
				if !ok {
					return
				}
				base.viewImpl.UpdateHistory(entries)
				if err := base.viewImpl.Draw(); err != nil {
					base.logger.Printf("BaseView: Error drawing: %v", err)
				}
			}
		}
	})

	sessionChan := make(chan player.State, 1)
	sessionUnregister := base.model.ListenToSession(sessionChan)
	go_func_utils.SafeGoWait(&base.waitGroup, base.logger, func() {
		defer sessionUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case state, ok := <-sessionChan:
				if !ok {
					return
				}
				base.viewImpl.UpdateSessionState(state, true)
				if err := base.viewImpl.Draw(); err != nil {
					base.logger.Printf("BaseView: Error drawing: %v", err)
				}
			}
		}
	})

	sessionLiveChan := make(chan bool, 1)
	sessionLiveUnregister := base.model.ListenToSessionLive(sessionLiveChan)
	go_func_utils.SafeGoWait(&base.waitGroup, base.logger, func() {
		defer sessionLiveUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case live, ok := <-sessionLiveChan:
				if !ok {
					return
				}
				state, _ := base.model.GetSessionState()
				base.viewImpl.UpdateSessionState(state, live)
				if err := base.viewImpl.Draw(); err != nil {
					base.logger.Printf("BaseView: Error drawing: %v", err)
				}
			}
		}
	})

	modeChan := make(chan UIMode, 1)
	modeUnregister := base.model.ListenToUIMode(modeChan)
	go_func_utils.SafeGoWait(&base.waitGroup, base.logger, func() {
		defer modeUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case mode, ok := <-modeChan:
				if !ok {
					return
				}
				base.viewImpl.SetMode(mode)
				if err := base.viewImpl.Draw(); err != nil {
					base.logger.Printf("BaseView: Error drawing: %v", err)
				}
			}
		}
	})

	closeChan := make(chan struct{}, 1)
	closeUnregister := base.model.ListenToCloseApplication(closeChan)
	go_func_utils.SafeGoWait(&base.waitGroup, base.logger, func() {
		defer closeUnregister()
		select {
		case <-base.context.Done():
			return
		case _, ok := <-closeChan:
			if !ok {
				return
			}
			base.viewImpl.Stop()
		}
	})
}

func (base *BaseView) updateLogDisplay() {
	height := base.viewImpl.GetLogViewHeight()
	if height <= 0 {
		return
	}

	logLines := base.model.GetLogTail(height)

	base.viewImpl.ClearLogView()
	for _, line := range logLines {
		if err := base.viewImpl.WriteLogLine(line); err != nil {
			base.logger.Printf("BaseView: Error writing to log view: %v", err)
		}
	}
}

func (base *BaseView) monitorLogResize() {
	var lastHeight int
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-base.context.Done():
			return
		case <-ticker.C:
			height := base.viewImpl.GetLogViewHeight()
			if height != lastHeight && height > 0 {
				lastHeight = height
				base.updateLogDisplay()
				if err := base.viewImpl.Draw(); err != nil {
					base.logger.Printf("BaseView: Error drawing: %v", err)
				}
			}
		}
	}
}

// Shutdown stops all goroutines and waits for them to finish.
func (base *BaseView) Shutdown() {
	base.logger.Println("BaseView: Shutting down")
	base.cancelFunc()
	base.waitGroup.Wait()
	base.logger.Println("BaseView: Shutdown complete")
}

// Run starts the UI and blocks until it exits.
func (base *BaseView) Run() error {
	return base.viewImpl.Run()
}
