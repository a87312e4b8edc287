// internal/engine/interface.go
package engine

import "time"

// TickInterval is the cadence of the position feed while playing.
const TickInterval = 500 * time.Millisecond

// Interface defines the media engine contract for dependency injection
// and testing. The engine is a thin stateful wrapper over the audio
// decode/output primitive; it holds no session or persistence state.
type Interface interface {
	// Open loads the audio resource and leaves it paused at position 0.
	// It returns the decoded duration, or 0 if the stream cannot report
	// a usable length (callers fall back to their own duration).
	Open(path string) (time.Duration, error)
	Play(rate float64)
	Pause()
	Seek(pos time.Duration)
	Position() time.Duration
	SetRate(rate float64)

	// Suspend releases the output device; Resume reacquires it.
	Suspend() error
	Resume() error

	// Ticks delivers the playback position on a fixed cadence while
	// playing. Ticks may be dropped; they only refresh display values.
	Ticks() <-chan time.Duration
	// Finished signals natural end of media.
	Finished() <-chan struct{}
	// Stalled signals output underrun begin (true) and end (false).
	// Local file decode never stalls; the channel exists for engines
	// that buffer remote media, and for test doubles.
	Stalled() <-chan bool

	Close()
}

// Verify Engine implements Interface at compile time.
var _ Interface = (*Engine)(nil)
