package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/fable/internal/importer"
	"github.com/llehouerou/fable/internal/playback"
	"github.com/llehouerou/fable/internal/store"
)

// watchService returns a command that waits for playback service events.
// It listens on all subscription channels and converts events to tea.Msg.
func watchService(sub *playback.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return serviceStateMsg(e)
		case e := <-sub.TitleChanged:
			return serviceTitleMsg(e)
		case e := <-sub.PositionChanged:
			return servicePositionMsg(e)
		case e := <-sub.RateChanged:
			return serviceRateMsg(e)
		case e := <-sub.SleepChanged:
			return serviceSleepMsg(e)
		case <-sub.SleepElapsed:
			return sleepElapsedMsg{}
		case e := <-sub.Error:
			return serviceErrorMsg(e)
		case <-sub.Done:
			return serviceClosedMsg{}
		}
	}
}

// loadTitles returns a command that lists the catalog.
func loadTitles(catalog store.Catalog, q store.Query) tea.Cmd {
	return func() tea.Msg {
		titles, err := catalog.List(q)
		return titlesLoadedMsg{titles: titles, err: err}
	}
}

// scanLibrary returns a command that runs a full library scan.
func scanLibrary(imp *importer.Importer, folders []string) tea.Cmd {
	return func() tea.Msg {
		progress := make(chan importer.ScanProgress, 16)
		go func() {
			for range progress {
			}
		}()
		report, err := imp.Scan(folders, progress)
		return scanFinishedMsg{report: report, err: err}
	}
}
