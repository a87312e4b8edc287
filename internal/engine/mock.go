// internal/engine/mock.go
package engine

import (
	"sync"
	"time"
)

// Mock is a test double for Engine.
type Mock struct {
	mu sync.Mutex

	state    State
	position time.Duration
	duration time.Duration
	rate     float64

	openErr      error
	openCalls    []string
	seekCalls    []time.Duration
	playCalls    []float64
	rateCalls    []float64
	suspendCalls int
	resumeCalls  int

	ticks      chan time.Duration
	finishedCh chan struct{}
	stalledCh  chan bool
}

// NewMock creates a new mock engine for testing.
func NewMock() *Mock {
	return &Mock{
		state:      Stopped,
		rate:       1.0,
		ticks:      make(chan time.Duration, 16),
		finishedCh: make(chan struct{}, 1),
		stalledCh:  make(chan bool, 1),
	}
}

func (m *Mock) Open(path string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.openCalls = append(m.openCalls, path)
	if m.openErr != nil {
		return 0, m.openErr
	}
	m.state = Paused
	m.position = 0
	return m.duration, nil
}

func (m *Mock) Play(rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.playCalls = append(m.playCalls, rate)
	if m.state == Stopped {
		return
	}
	m.rate = rate
	m.state = Playing
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Seek(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) SetRate(rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rateCalls = append(m.rateCalls, rate)
	m.rate = rate
}

func (m *Mock) Suspend() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suspendCalls++
	return nil
}

func (m *Mock) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumeCalls++
	return nil
}

func (m *Mock) Ticks() <-chan time.Duration { return m.ticks }

func (m *Mock) Finished() <-chan struct{} { return m.finishedCh }

func (m *Mock) Stalled() <-chan bool { return m.stalledCh }

func (m *Mock) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Stopped
}

// Test helpers

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) SetOpenError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

func (m *Mock) SetPosition(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = pos
}

func (m *Mock) Rate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}

func (m *Mock) OpenCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.openCalls...)
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) PlayCalls() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.playCalls...)
}

func (m *Mock) SuspendCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suspendCalls
}

func (m *Mock) ResumeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resumeCalls
}

// AdvanceTick pushes a position onto the tick feed, as the real engine
// does every TickInterval while playing.
func (m *Mock) AdvanceTick(pos time.Duration) {
	m.mu.Lock()
	m.position = pos
	m.mu.Unlock()

	select {
	case m.ticks <- pos:
	default:
	}
}

// SimulateFinished simulates the resource reaching its natural end.
func (m *Mock) SimulateFinished() {
	select {
	case m.finishedCh <- struct{}{}:
	default:
	}
}

// SimulateStall simulates an output underrun beginning or ending.
func (m *Mock) SimulateStall(stalled bool) {
	select {
	case m.stalledCh <- stalled:
	default:
	}
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
