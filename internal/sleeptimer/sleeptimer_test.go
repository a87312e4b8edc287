package sleeptimer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTimer_FiresAfterDeadline(t *testing.T) {
	tm := New()
	fired := make(chan struct{})

	tm.Start(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	if tm.Active() {
		t.Error("timer should be inactive after firing")
	}
	if tm.Remaining() != 0 {
		t.Errorf("Remaining = %v after firing, want 0", tm.Remaining())
	}
}

func TestTimer_CancelPreventsFiring(t *testing.T) {
	tm := New()
	var fired atomic.Bool

	tm.Start(20*time.Millisecond, func() { fired.Store(true) })
	tm.Cancel()

	time.Sleep(60 * time.Millisecond)

	if fired.Load() {
		t.Error("cancelled timer fired")
	}
	if tm.Active() {
		t.Error("cancelled timer should be inactive")
	}
}

func TestTimer_CancelWinsRaceWithExpiry(t *testing.T) {
	// Repeatedly cancel right around the deadline; the callback must
	// never observe a cancelled generation.
	for range 50 {
		tm := New()
		var fired atomic.Bool

		tm.Start(time.Millisecond, func() { fired.Store(true) })
		time.Sleep(time.Millisecond)
		tm.Cancel()
		wasFired := fired.Load()

		time.Sleep(5 * time.Millisecond)
		if !wasFired && fired.Load() {
			t.Fatal("timer fired after Cancel returned")
		}
	}
}

func TestTimer_RestartReplacesCountdown(t *testing.T) {
	tm := New()
	var first, second atomic.Bool

	tm.Start(20*time.Millisecond, func() { first.Store(true) })
	tm.Start(40*time.Millisecond, func() { second.Store(true) })

	time.Sleep(30 * time.Millisecond)
	if first.Load() {
		t.Error("replaced countdown fired")
	}

	time.Sleep(30 * time.Millisecond)
	if !second.Load() {
		t.Error("replacement countdown did not fire")
	}
}

func TestTimer_Remaining(t *testing.T) {
	tm := New()

	if tm.Remaining() != 0 {
		t.Errorf("Remaining = %v with no countdown, want 0", tm.Remaining())
	}

	tm.Start(time.Minute, func() {})
	defer tm.Cancel()

	remaining := tm.Remaining()
	if remaining <= 50*time.Second || remaining > time.Minute {
		t.Errorf("Remaining = %v, want just under a minute", remaining)
	}
}

func TestTimer_EndOfChapterMarkNeverFires(t *testing.T) {
	tm := New()

	tm.StartEndOfChapter()

	if !tm.Active() {
		t.Error("end-of-chapter mark should report active")
	}
	if !tm.EndOfChapter() {
		t.Error("EndOfChapter should be true")
	}
	if tm.Remaining() != 0 {
		t.Errorf("Remaining = %v for end-of-chapter, want 0", tm.Remaining())
	}

	tm.Cancel()
	if tm.Active() || tm.EndOfChapter() {
		t.Error("Cancel should clear the mark")
	}
}

func TestTimer_StartClearsEndOfChapterMark(t *testing.T) {
	tm := New()

	tm.StartEndOfChapter()
	tm.Start(time.Minute, func() {})
	defer tm.Cancel()

	if tm.EndOfChapter() {
		t.Error("Start should replace the end-of-chapter mark")
	}
}
