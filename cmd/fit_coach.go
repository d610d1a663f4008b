package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rivo/tview"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lowaak/fit-coach/fit-coach-app/internal/catalog"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/coach"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/config"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/speech"
	"github.com/lowaak/fit-coach/fit-coach-app/internal/store"
)

// chanWriter forwards log lines to the in-app log pane. Non-blocking: the UI
// dropping a line is better than the logger stalling.
type chanWriter struct {
	ch chan<- string
}

func (w chanWriter) Write(p []byte) (int, error) {
	line := string(p)
	select {
	case w.ch <- line:
	default:
	}
	return len(p), nil
}

func main() {
	configPath := pflag.String("config", "", "path to config file (default: config.yaml in the data dir)")
	dataDir := pflag.String("data-dir", "", "data directory for routines, history, and logs")
	logFile := pflag.String("log-file", "", "log file path")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create data dir: %v\n", err)
		os.Exit(1)
	}

	// The curses UI owns the terminal, so logs go to a rotated file and are
	// teed into the in-app log pane.
	fileWriter := &lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}
	defer fileWriter.Close()

	uiLogChan := make(chan string, 100)
	logger := log.New(io.MultiWriter(fileWriter, chanWriter{ch: uiLogChan}), "", log.Ltime)
	logger.Println("Main: starting fit-coach")

	cat, err := catalog.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load exercise catalog: %v\n", err)
		os.Exit(1)
	}

	st, err := store.New(cfg.DataDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open data dir %s: %v\n", cfg.DataDir, err)
		os.Exit(1)
	}

	var speaker speech.Speaker = speech.NewConsoleSpeaker(logger)
	if !cfg.Speech.Enabled {
		speaker = speech.NewMutedSpeaker()
	}

	model := coach.NewModel(logger, uiLogChan)
	controller := coach.NewController(coach.ControllerArgs{
		Model:           model,
		Store:           st,
		Catalog:         cat,
		Speaker:         speaker,
		Logger:          logger,
		SpeechLanguage:  cfg.Speech.LanguageTag,
		SpeechVoiceHint: cfg.Speech.VoiceHint,
	})
	controller.RefreshAll()

	app := tview.NewApplication()
	viewImpl := coach.NewCursesView(logger, app, model)
	view := coach.NewBaseView(coach.NewBaseViewArgs{
		ViewImpl:   viewImpl,
		Model:      model,
		Controller: controller,
		Logger:     logger,
	})

	runErr := view.Run()

	view.Shutdown()
	controller.Shutdown()
	model.Shutdown()
	logger.Println("Main: shutdown complete")

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "UI error: %v\n", runErr)
		os.Exit(1)
	}
}
