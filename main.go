package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/fable/internal/config"
	"github.com/llehouerou/fable/internal/engine"
	"github.com/llehouerou/fable/internal/importer"
	"github.com/llehouerou/fable/internal/interrupt"
	"github.com/llehouerou/fable/internal/mpris"
	"github.com/llehouerou/fable/internal/notify"
	"github.com/llehouerou/fable/internal/playback"
	"github.com/llehouerou/fable/internal/store"
	"github.com/llehouerou/fable/internal/ui"
)

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, err := store.Open()
	if err != nil {
		return err
	}
	defer st.Close()

	eng := engine.New()
	svc := playback.New(eng, st, playback.Options{
		SkipForward:      cfg.SkipForward(),
		SkipBackward:     cfg.SkipBack(),
		AutosaveInterval: cfg.AutosaveInterval(),
	})
	defer svc.Close()
	svc.SetRate(cfg.Rate())

	// Optional integrations: the player works without a bus.
	adapter, adapterErr := mpris.New(svc)
	defer func() {
		if adapterErr == nil && adapter != nil {
			_ = adapter.Close()
		}
	}()
	if src, err := interrupt.NewDBusSource(cfg.AudioService); err == nil {
		// Hooks run on the monitor goroutine, one at a time, so the
		// adapter handoff below needs no extra locking.
		monitor := interrupt.New(src, svc, interrupt.Hooks{
			OnServicesLost: func() {
				if adapterErr == nil && adapter != nil {
					_ = adapter.Close()
					adapter = nil
				}
			},
			OnServicesReset: func() {
				// Reacquire the output device eagerly; the next Play
				// would do it anyway, but remote controllers expect
				// now-playing back as soon as the service returns.
				_ = eng.Resume()
				if adapter == nil && svc.CurrentTitle() != nil {
					adapter, adapterErr = mpris.New(svc)
				}
			},
		})
		defer monitor.Close()
	}

	go watchSleepElapsed(svc)

	m := ui.New(st, svc, importer.New(st), cfg.LibraryFolders)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// watchSleepElapsed sends a desktop notification when the sleep timer
// pauses playback, so a dozing listener sees why the audio stopped.
func watchSleepElapsed(svc playback.Service) {
	notifier, err := notify.New()
	if err != nil {
		return
	}

	sub := svc.Subscribe()
	for {
		select {
		case <-sub.SleepElapsed:
			var icon string
			if title := svc.CurrentTitle(); title != nil {
				icon = notify.FindCoverArt(title.Path)
			}
			_, _ = notifier.Notify(notify.Notification{
				Title:   "Sleep timer",
				Body:    "Playback paused",
				Icon:    icon,
				Timeout: 5000,
				Urgency: notify.UrgencyNormal,
			})
		case <-sub.Done:
			return
		}
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
