package ui

import (
	"github.com/llehouerou/fable/internal/importer"
	"github.com/llehouerou/fable/internal/playback"
	"github.com/llehouerou/fable/internal/store"
)

// Playback service events converted to tea messages.
type (
	serviceStateMsg    playback.StateChange
	serviceTitleMsg    playback.TitleChange
	servicePositionMsg playback.PositionChange
	serviceRateMsg     playback.RateChange
	serviceSleepMsg    playback.SleepChange
	sleepElapsedMsg    struct{}
	serviceErrorMsg    playback.ErrorEvent
	serviceClosedMsg   struct{}
)

// titlesLoadedMsg carries a refreshed catalog listing.
type titlesLoadedMsg struct {
	titles []store.Title
	err    error
}

// scanFinishedMsg reports a completed library scan.
type scanFinishedMsg struct {
	report *importer.Report
	err    error
}
