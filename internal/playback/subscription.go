package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber. Sends are
// non-blocking and drop when a buffer is full: delivery is
// at-least-once per distinct state, with rapid updates coalesced.
type Subscription struct {
	StateChanged    <-chan StateChange
	TitleChanged    <-chan TitleChange
	PositionChanged <-chan PositionChange
	RateChanged     <-chan RateChange
	SleepChanged    <-chan SleepChange
	SleepElapsed    <-chan SleepElapsed
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	// Internal write channels
	stateCh    chan StateChange
	titleCh    chan TitleChange
	positionCh chan PositionChange
	rateCh     chan RateChange
	sleepCh    chan SleepChange
	elapsedCh  chan SleepElapsed
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		titleCh:    make(chan TitleChange, eventBufferSize),
		positionCh: make(chan PositionChange, eventBufferSize),
		rateCh:     make(chan RateChange, eventBufferSize),
		sleepCh:    make(chan SleepChange, eventBufferSize),
		elapsedCh:  make(chan SleepElapsed, 1),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TitleChanged = s.titleCh
	s.PositionChanged = s.positionCh
	s.RateChanged = s.rateCh
	s.SleepChanged = s.sleepCh
	s.SleepElapsed = s.elapsedCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
		// Drop if buffer full
	}
}

func (s *Subscription) sendTitle(e TitleChange) {
	select {
	case s.titleCh <- e:
	default:
	}
}

func (s *Subscription) sendPosition(e PositionChange) {
	select {
	case s.positionCh <- e:
	default:
	}
}

func (s *Subscription) sendRate(e RateChange) {
	select {
	case s.rateCh <- e:
	default:
	}
}

func (s *Subscription) sendSleep(e SleepChange) {
	select {
	case s.sleepCh <- e:
	default:
	}
}

func (s *Subscription) sendSleepElapsed() {
	select {
	case s.elapsedCh <- SleepElapsed{}:
	default:
	}
}

func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
