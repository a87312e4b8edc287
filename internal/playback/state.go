// internal/playback/state.go
package playback

import "time"

// State represents the session playback state.
//
// Transitions:
//   - Stopped   → Playing  (Play with a loaded title)
//   - Playing   → Paused   (Pause, sleep timer expiry, interruption)
//   - Paused    → Playing  (Play)
//   - any       → Stopped  (Stop, natural end of media, services lost)
//   - Playing   → Buffering (engine underrun)
//   - Buffering → Playing  (underrun resolved, intent was playing)
//   - Buffering → Paused   (underrun resolved, intent was paused)
//
// No state is terminal; Stopped is both initial and re-enterable.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
	StateBuffering
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateBuffering:
		return "Buffering"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a session is underway (anything but Stopped).
func (s State) IsActive() bool {
	return s != StateStopped
}

// Session is an immutable snapshot of the coordinator's state,
// published to subscribers. It is never persisted directly.
type Session struct {
	Title             *Title // nil when nothing is loaded (implies Stopped)
	State             State
	Position          time.Duration
	Duration          time.Duration
	Rate              float64
	SleepRemaining    time.Duration // 0 when no countdown runs
	SleepEndOfChapter bool
}
