package playback

import (
	"time"

	"github.com/llehouerou/fable/internal/store"
)

// Service defines the playback facade contract.
//
// Command methods never fail loudly: engine and storage failures are
// absorbed at the coordinator boundary and surface as ErrorEvents plus
// an absent state transition. All commands are serialized through a
// single writer, whichever goroutine submits them.
type Service interface {
	// Session control
	Load(title store.Title)
	Play()
	Pause()
	Stop()
	Toggle()
	Seek(pos time.Duration)
	SkipForward()
	SkipBackward()
	SetRate(rate float64)

	// Sleep timer
	SetSleepTimer(d time.Duration)
	SetSleepTimerEndOfChapter()
	CancelSleepTimer()

	// State queries
	Snapshot() Session
	State() State
	Position() time.Duration
	Duration() time.Duration
	Rate() float64
	SleepRemaining() time.Duration
	CurrentTitle() *Title

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
