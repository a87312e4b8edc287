// internal/playback/coordinator.go
package playback

import (
	"sync"
	"time"

	"github.com/llehouerou/fable/internal/engine"
	"github.com/llehouerou/fable/internal/sleeptimer"
	"github.com/llehouerou/fable/internal/store"
)

// Verify coordinator implements Service at compile time.
var _ Service = (*coordinator)(nil)

// Options tune the coordinator's cadences and intervals.
type Options struct {
	SkipForward      time.Duration // default 15s
	SkipBackward     time.Duration // default 15s
	AutosaveInterval time.Duration // default 5s of elapsed playback
}

func (o Options) withDefaults() Options {
	if o.SkipForward <= 0 {
		o.SkipForward = 15 * time.Second
	}
	if o.SkipBackward <= 0 {
		o.SkipBackward = 15 * time.Second
	}
	if o.AutosaveInterval <= 0 {
		o.AutosaveInterval = 5 * time.Second
	}
	return o
}

// coordinator owns the playback session. All state mutations happen
// under mu, whichever goroutine submits the command (UI, engine ticks,
// sleep timer, interruption monitor): single-writer discipline with no
// interleaved partial transitions.
type coordinator struct {
	mu sync.Mutex

	eng       engine.Interface
	positions store.Positions
	opts      Options
	sleep     *sleeptimer.Timer

	title    *Title
	state    State
	intent   State // Playing or Paused; resolves Buffering exits
	rate     float64
	position time.Duration
	duration time.Duration

	// drained is set when the engine reported natural end: the output
	// chain is spent and the next Play must re-open the resource.
	drained bool

	// sinceSave accumulates elapsed playback from tick deltas and is
	// reset only on a successful persist, so a failed auto-save retries
	// on the next tick.
	sinceSave time.Duration

	subs   []*Subscription
	subsMu sync.RWMutex

	done   chan struct{}
	closed bool
}

// New creates a playback coordinator over the given engine and
// position store.
func New(eng engine.Interface, positions store.Positions, opts Options) Service {
	c := &coordinator{
		eng:       eng,
		positions: positions,
		opts:      opts.withDefaults(),
		sleep:     sleeptimer.New(),
		state:     StateStopped,
		intent:    StatePaused,
		rate:      DefaultRate,
		done:      make(chan struct{}),
	}
	go c.engineLoop()
	return c
}

// engineLoop consumes the engine's asynchronous feeds. Each event takes
// the coordinator lock, so engine-driven transitions serialize with
// commands.
func (c *coordinator) engineLoop() {
	for {
		select {
		case <-c.done:
			return
		case pos := <-c.eng.Ticks():
			c.handleTick(pos)
		case <-c.eng.Finished():
			c.handleFinished()
		case stalled := <-c.eng.Stalled():
			c.handleStall(stalled)
		}
	}
}

// Load stops and flushes any current session, then opens the given
// title and restores its persisted position. On failure the session is
// left Stopped with nothing loaded.
func (c *coordinator) Load(title store.Title) {
	c.mu.Lock()

	previous := c.title
	prevState := c.state

	// Flush the outgoing session before the engine discards it. While
	// advancing, c.position trails the engine by up to one tick.
	if c.title != nil {
		if c.state == StatePlaying || c.state == StateBuffering {
			c.position = c.eng.Position()
		}
		c.persistLocked()
	}

	// A sleep timer belongs to the session it was set in.
	c.sleep.Cancel()

	dur, err := c.eng.Open(title.Path)
	if err != nil {
		c.title = nil
		c.state = StateStopped
		c.intent = StatePaused
		c.position = 0
		c.duration = 0
		c.drained = false
		c.mu.Unlock()

		c.publishError(ErrorEvent{Op: "load", Path: title.Path, Err: err})
		c.publishTitle(TitleChange{Previous: previous, Current: nil})
		if prevState != StateStopped {
			c.publishState(StateChange{Previous: prevState, Current: StateStopped})
		}
		c.publishSleep()
		return
	}

	c.title = titleView(title)
	c.duration = dur
	if c.duration == 0 {
		// Engine could not determine a length (e.g. malformed stream);
		// trust the duration recorded at import.
		c.duration = title.Duration
	}

	c.position = 0
	if title.Position > 0 && title.Position < c.duration {
		c.eng.Seek(title.Position)
		c.position = title.Position
	}

	c.state = StatePaused
	c.intent = StatePaused
	c.drained = false
	c.sinceSave = 0
	current := c.title
	c.mu.Unlock()

	c.publishTitle(TitleChange{Previous: previous, Current: current})
	c.publishState(StateChange{Previous: prevState, Current: StatePaused})
	c.publishPosition()
	c.publishSleep()
}

// Play starts or resumes playback. No-op when nothing is loaded or
// already playing (rapid double Play must not repeat route activation).
func (c *coordinator) Play() {
	c.mu.Lock()

	if c.title == nil || c.state == StatePlaying {
		c.mu.Unlock()
		return
	}

	if c.drained {
		// The output chain was spent by a natural end; re-open.
		if _, err := c.eng.Open(c.title.Path); err != nil {
			path := c.title.Path
			c.mu.Unlock()
			c.publishError(ErrorEvent{Op: "play", Path: path, Err: err})
			return
		}
		c.drained = false
		c.position = 0
	}

	// Output activation failure is transient: log and proceed, the
	// state still transitions.
	if err := c.eng.Resume(); err != nil {
		c.publishError(ErrorEvent{Op: "activate output", Err: err})
	}

	c.eng.Play(c.rate)
	prev := c.state
	c.state = StatePlaying
	c.intent = StatePlaying
	c.mu.Unlock()

	c.publishState(StateChange{Previous: prev, Current: StatePlaying})
}

// Pause stops advancement and flushes the position immediately: pause
// is a durability checkpoint.
func (c *coordinator) Pause() {
	c.mu.Lock()

	if c.state != StatePlaying && c.state != StateBuffering {
		c.mu.Unlock()
		return
	}

	c.eng.Pause()
	c.position = c.eng.Position()
	c.persistLocked()

	prev := c.state
	c.state = StatePaused
	c.intent = StatePaused
	c.mu.Unlock()

	c.publishState(StateChange{Previous: prev, Current: StatePaused})
	c.publishPosition()
}

// Stop pauses, flushes, rewinds to 0 and releases the output route.
func (c *coordinator) Stop() {
	c.mu.Lock()

	if c.title == nil && c.state == StateStopped {
		c.mu.Unlock()
		return
	}

	c.eng.Pause()
	if c.state == StatePlaying || c.state == StateBuffering {
		c.position = c.eng.Position()
	}
	c.persistLocked()

	if !c.drained {
		c.eng.Seek(0)
	}
	c.position = 0

	if err := c.eng.Suspend(); err != nil {
		c.publishError(ErrorEvent{Op: "release output", Err: err})
	}

	prev := c.state
	c.state = StateStopped
	c.intent = StatePaused
	c.mu.Unlock()

	if prev != StateStopped {
		c.publishState(StateChange{Previous: prev, Current: StateStopped})
	}
	c.publishPosition()
}

// Toggle pauses while playing and plays otherwise.
func (c *coordinator) Toggle() {
	c.mu.Lock()
	playing := c.state == StatePlaying
	c.mu.Unlock()

	if playing {
		c.Pause()
	} else {
		c.Play()
	}
}

// Seek moves to pos, clamped to [0, duration], and writes through
// immediately: explicit seeks are user intent and must not be lost.
func (c *coordinator) Seek(pos time.Duration) {
	c.mu.Lock()

	if c.title == nil {
		c.mu.Unlock()
		return
	}

	pos = min(max(pos, 0), c.duration)

	c.eng.Seek(pos)
	c.position = pos
	c.persistLocked()
	c.mu.Unlock()

	c.publishPosition()
}

// SkipForward seeks ahead by the configured interval.
func (c *coordinator) SkipForward() {
	c.mu.Lock()
	pos := c.position + c.opts.SkipForward
	c.mu.Unlock()
	c.Seek(pos)
}

// SkipBackward seeks back by the configured interval.
func (c *coordinator) SkipBackward() {
	c.mu.Lock()
	pos := c.position - c.opts.SkipBackward
	c.mu.Unlock()
	c.Seek(pos)
}

// SetRate clamps rate to the supported set. Applied to the engine
// immediately while playing; otherwise it takes effect on next Play.
func (c *coordinator) SetRate(rate float64) {
	c.mu.Lock()

	rate = NearestRate(rate)
	if rate == c.rate {
		c.mu.Unlock()
		return
	}

	c.rate = rate
	if c.state == StatePlaying {
		c.eng.SetRate(rate)
	}
	c.mu.Unlock()

	c.publishRate(RateChange{Rate: rate})
}

// SetSleepTimer schedules a pause after d. A running timer is replaced.
func (c *coordinator) SetSleepTimer(d time.Duration) {
	if d <= 0 {
		c.CancelSleepTimer()
		return
	}

	c.sleep.Start(d, func() {
		c.Pause()
		c.publishSleep()
		c.publishSleepElapsed()
	})
	c.publishSleep()
}

// SetSleepTimerEndOfChapter records a pause-at-chapter-end mark.
// Chapter boundaries are not tracked yet, so the mark is informational
// and never fires.
func (c *coordinator) SetSleepTimerEndOfChapter() {
	c.sleep.StartEndOfChapter()
	c.publishSleep()
}

// CancelSleepTimer stops any pending sleep action.
func (c *coordinator) CancelSleepTimer() {
	c.sleep.Cancel()
	c.publishSleep()
}

// handleTick refreshes the in-memory position and drives the auto-save
// counter. Persisted writes happen at the coarser auto-save cadence.
func (c *coordinator) handleTick(pos time.Duration) {
	c.mu.Lock()

	if c.state != StatePlaying {
		c.mu.Unlock()
		return
	}

	delta := pos - c.position
	c.position = pos

	// Accumulate elapsed playback; ignore jumps from seeks racing the
	// tick feed.
	if delta > 0 && delta < 4*engine.TickInterval {
		c.sinceSave += delta
	}

	if c.sinceSave >= c.opts.AutosaveInterval {
		if err := c.positions.UpdatePosition(c.title.ID, c.position); err != nil {
			// Leave the counter expired: next tick retries.
			path := c.title.Path
			c.mu.Unlock()
			c.publishError(ErrorEvent{Op: "save position", Path: path, Err: err})
			c.publishPosition()
			return
		}
		c.sinceSave = 0
	}
	c.mu.Unlock()

	c.publishPosition()
}

// handleFinished processes natural end of media: mark finished, stop,
// cancel the sleep timer. This is a terminal transition requiring no
// user action.
func (c *coordinator) handleFinished() {
	c.mu.Lock()

	if c.title == nil {
		c.mu.Unlock()
		return
	}

	c.position = c.duration
	if err := c.positions.MarkFinished(c.title.ID); err != nil {
		c.publishError(ErrorEvent{Op: "mark finished", Path: c.title.Path, Err: err})
	}

	c.sleep.Cancel()
	c.drained = true

	prev := c.state
	c.state = StateStopped
	c.intent = StatePaused
	c.mu.Unlock()

	if prev != StateStopped {
		c.publishState(StateChange{Previous: prev, Current: StateStopped})
	}
	c.publishPosition()
	c.publishSleep()
}

// handleStall moves Playing into Buffering on underrun, and resolves
// Buffering back to the user's pre-stall intent.
func (c *coordinator) handleStall(stalled bool) {
	c.mu.Lock()

	var change *StateChange
	if stalled {
		if c.state == StatePlaying {
			c.state = StateBuffering
			change = &StateChange{Previous: StatePlaying, Current: StateBuffering}
		}
	} else if c.state == StateBuffering {
		next := StatePaused
		if c.intent == StatePlaying {
			next = StatePlaying
		}
		c.state = next
		change = &StateChange{Previous: StateBuffering, Current: next}
	}
	c.mu.Unlock()

	if change != nil {
		c.publishState(*change)
	}
}

// persistLocked writes the current position through to the store.
// Failures are absorbed: persistence staleness must never break
// playback.
func (c *coordinator) persistLocked() {
	if c.title == nil {
		return
	}
	if err := c.positions.UpdatePosition(c.title.ID, c.position); err != nil {
		c.publishError(ErrorEvent{Op: "save position", Path: c.title.Path, Err: err})
		return
	}
	c.sinceSave = 0
}

// Snapshot returns an immutable view of the session.
func (c *coordinator) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Session{
		Title:             c.title,
		State:             c.state,
		Position:          c.position,
		Duration:          c.duration,
		Rate:              c.rate,
		SleepRemaining:    c.sleep.Remaining(),
		SleepEndOfChapter: c.sleep.EndOfChapter(),
	}
}

func (c *coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *coordinator) Position() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *coordinator) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

func (c *coordinator) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

func (c *coordinator) SleepRemaining() time.Duration {
	return c.sleep.Remaining()
}

func (c *coordinator) CurrentTitle() *Title {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

// Subscribe creates a new event subscription.
func (c *coordinator) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	c.subs = append(c.subs, sub)
	return sub
}

// Close flushes the session and shuts down the coordinator.
func (c *coordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	c.sleep.Cancel()
	if c.title != nil {
		if c.state == StatePlaying || c.state == StateBuffering {
			c.position = c.eng.Position()
		}
		c.persistLocked()
	}
	close(c.done)
	c.mu.Unlock()

	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsMu.Unlock()

	return nil
}

// Publish helpers: fan events out to all subscriptions, non-blocking.

func (c *coordinator) publishState(e StateChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendState(e)
	}
}

func (c *coordinator) publishTitle(e TitleChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendTitle(e)
	}
}

func (c *coordinator) publishPosition() {
	c.mu.Lock()
	e := PositionChange{Position: c.position}
	c.mu.Unlock()

	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendPosition(e)
	}
}

func (c *coordinator) publishRate(e RateChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendRate(e)
	}
}

func (c *coordinator) publishSleep() {
	e := SleepChange{
		Active:       c.sleep.Active(),
		Remaining:    c.sleep.Remaining(),
		EndOfChapter: c.sleep.EndOfChapter(),
	}

	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendSleep(e)
	}
}

func (c *coordinator) publishSleepElapsed() {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendSleepElapsed()
	}
}

func (c *coordinator) publishError(e ErrorEvent) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendError(e)
	}
}
