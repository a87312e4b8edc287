// Package sleeptimer implements a single cancellable delayed action
// that pauses playback when it expires.
package sleeptimer

import (
	"sync"
	"time"
)

// Timer is a single-shot sleep timer. Only one countdown is active at a
// time; starting a new one cancels any prior one first. Cancellation
// wins the race with expiry: a cancelled timer never fires, even if the
// wake-up was already scheduled when Cancel was called.
type Timer struct {
	mu sync.Mutex

	generation   int
	timer        *time.Timer
	deadline     time.Time
	endOfChapter bool
}

func New() *Timer {
	return &Timer{}
}

// Start schedules onExpire to run after d. Any previously running
// countdown or pending end-of-chapter mark is replaced.
func (t *Timer) Start(d time.Duration, onExpire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	t.generation++
	gen := t.generation
	t.deadline = time.Now().Add(d)

	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		if gen != t.generation {
			// Cancelled or restarted after this wake was scheduled
			t.mu.Unlock()
			return
		}
		t.timer = nil
		t.deadline = time.Time{}
		t.mu.Unlock()

		onExpire()
	})
}

// StartEndOfChapter records a pending pause-at-chapter-end mark.
// Chapter boundaries are not tracked anywhere in the player yet, so the
// mark is informational only; it never fires.
func (t *Timer) StartEndOfChapter() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	t.endOfChapter = true
}

// Cancel stops any running countdown and clears a pending
// end-of-chapter mark.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

func (t *Timer) cancelLocked() {
	t.generation++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.deadline = time.Time{}
	t.endOfChapter = false
}

// Active reports whether a countdown or end-of-chapter mark is pending.
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil || t.endOfChapter
}

// EndOfChapter reports whether the pending mark is the
// end-of-chapter mode.
func (t *Timer) EndOfChapter() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.endOfChapter
}

// Remaining returns the time until expiry, or 0 if no countdown runs.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer == nil {
		return 0
	}
	remaining := time.Until(t.deadline)
	if remaining < 0 {
		return 0
	}
	return remaining
}
