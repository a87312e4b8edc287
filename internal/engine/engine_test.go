package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// countingStream is a seekable streamer whose position state mutates on
// every Stream call, like a real decoder.
type countingStream struct {
	pos int
	len int
}

func (s *countingStream) Stream(samples [][2]float64) (int, bool) {
	n := min(len(samples), s.len-s.pos)
	if n <= 0 {
		return 0, false
	}
	s.pos += n
	return n, true
}

func (s *countingStream) Err() error       { return nil }
func (s *countingStream) Len() int         { return s.len }
func (s *countingStream) Position() int    { return s.pos }
func (s *countingStream) Seek(p int) error { s.pos = p; return nil }
func (s *countingStream) Close() error     { return nil }

var _ beep.StreamSeekCloser = (*countingStream)(nil)

// Position must take the speaker lock: while playing, the mixer
// goroutine streams the same chain concurrently. Run with -race.
func TestPosition_ConcurrentWithStreaming(t *testing.T) {
	stream := &countingStream{len: 1 << 20}
	e := &Engine{
		state:    Playing,
		streamer: stream,
		format:   beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2},
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		// Stands in for the mixer: streams under the speaker lock.
		defer wg.Done()
		buf := make([][2]float64, 512)
		for {
			select {
			case <-stop:
				return
			default:
			}
			speaker.Lock()
			stream.Stream(buf)
			if stream.Position() >= stream.Len() {
				_ = stream.Seek(0)
			}
			speaker.Unlock()
		}
	}()

	deadline := time.Now().Add(50 * time.Millisecond)
	for time.Now().Before(deadline) {
		if got := e.Position(); got < 0 {
			t.Fatalf("negative position %v", got)
		}
	}
	close(stop)
	wg.Wait()
}

func TestPosition_ZeroWhenNothingLoaded(t *testing.T) {
	e := &Engine{}
	if got := e.Position(); got != 0 {
		t.Errorf("Position() = %v, want 0", got)
	}
}
