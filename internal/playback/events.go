package playback

import "time"

// StateChange is emitted when the session state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TitleChange is emitted when a different title is loaded, or the
// session unloads (Current == nil).
//
// Emitted by:
//   - Load: on success and on failure (failure unloads)
//
// NOT emitted by:
//   - Play/Pause/Stop: state changes do not emit TitleChange
//
// The shell handles title-related side effects (now-playing metadata,
// notifications) in response to this event.
type TitleChange struct {
	Previous *Title
	Current  *Title
}

// PositionChange is emitted on seeks and on the engine tick cadence
// while playing. Delivery is coalesced; consumers only ever need the
// latest value.
type PositionChange struct {
	Position time.Duration
}

// RateChange is emitted when the playback rate changes.
type RateChange struct {
	Rate float64
}

// SleepChange is emitted when the sleep timer starts, restarts or is
// cancelled.
type SleepChange struct {
	Active       bool
	Remaining    time.Duration
	EndOfChapter bool
}

// SleepElapsed is emitted when the sleep timer expires and playback
// has been paused.
type SleepElapsed struct{}

// ErrorEvent is emitted when an engine or storage failure is absorbed.
// Commands never fail loudly; they fail by not transitioning and by
// emitting one of these.
type ErrorEvent struct {
	Op   string // e.g. "load", "save position"
	Path string // resource path if applicable
	Err  error
}
