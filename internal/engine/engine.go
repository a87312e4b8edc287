// Package engine wraps the beep speaker behind the narrow media engine
// contract the playback coordinator drives.
package engine

import (
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

const resampleQuality = 4

var (
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

type Engine struct {
	mu sync.Mutex

	state     State
	file      *os.File
	streamer  beep.StreamSeekCloser
	format    beep.Format
	ctrl      *beep.Ctrl
	resampler *beep.Resampler
	volume    *effects.Volume
	baseRatio float64
	rate      float64
	duration  time.Duration

	ticks      chan time.Duration
	finishedCh chan struct{}
	stalledCh  chan bool
	done       chan struct{}
}

func New() *Engine {
	e := &Engine{
		state:      Stopped,
		rate:       1.0,
		ticks:      make(chan time.Duration, 1),
		finishedCh: make(chan struct{}, 1),
		stalledCh:  make(chan bool, 1),
		done:       make(chan struct{}),
	}
	go e.tickLoop()
	return e
}

// tickLoop feeds the position channel on a fixed cadence while playing.
func (e *Engine) tickLoop() {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
			e.mu.Lock()
			playing := e.state == Playing
			pos := e.positionLocked()
			e.mu.Unlock()

			if !playing {
				continue
			}
			select {
			case e.ticks <- pos:
			default:
				// Drop if consumer is behind; ticks only refresh display values
			}
		}
	}
}

// Open loads the audio resource, leaving it paused at position 0.
// Any previously open resource is released first.
func (e *Engine) Open(path string) (time.Duration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.unloadLocked()

	// Drain any stale finish signal from the previous resource
	select {
	case <-e.finishedCh:
	default:
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}

	streamer, format, err := decodeFile(f)
	if err != nil {
		f.Close()
		return 0, err
	}

	if !speakerInitialized {
		speakerSampleRate = format.SampleRate
		if err := speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			f.Close()
			return 0, err
		}
		speakerInitialized = true
	}

	e.file = f
	e.streamer = streamer
	e.format = format
	e.baseRatio = float64(format.SampleRate) / float64(speakerSampleRate)
	e.resampler = beep.ResampleRatio(resampleQuality, e.baseRatio*e.rate, streamer)
	e.ctrl = &beep.Ctrl{Streamer: e.resampler, Paused: true}
	e.volume = &effects.Volume{Streamer: e.ctrl, Base: 2, Volume: 0, Silent: false}

	if n := streamer.Len(); n > 0 {
		e.duration = format.SampleRate.D(n)
	} else {
		e.duration = 0
	}
	e.state = Paused

	speaker.Play(beep.Seq(e.volume, beep.Callback(func() {
		select {
		case e.finishedCh <- struct{}{}:
		default:
		}
	})))

	return e.duration, nil
}

// Play starts or resumes advancement at the given rate.
func (e *Engine) Play(rate float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rate = rate
	if e.ctrl == nil {
		return
	}

	speaker.Lock()
	e.resampler.SetRatio(e.baseRatio * e.rate)
	e.ctrl.Paused = false
	speaker.Unlock()
	e.state = Playing
}

// Pause stops advancement without releasing the resource.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Playing || e.ctrl == nil {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	e.state = Paused
}

// Seek moves the playback position. The caller clamps; the engine only
// guards against the stream's own bounds.
func (e *Engine) Seek(pos time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return
	}

	n := e.format.SampleRate.N(pos)
	if maxN := e.streamer.Len(); maxN > 0 && n >= maxN {
		n = maxN - 1
	}
	n = max(n, 0)

	// Mute around the seek to avoid buffer artifacts
	speaker.Lock()
	e.volume.Silent = true
	_ = e.streamer.Seek(n)
	e.volume.Silent = false
	speaker.Unlock()
}

// Position returns the current playback position.
func (e *Engine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positionLocked()
}

func (e *Engine) positionLocked() time.Duration {
	if e.streamer == nil {
		return 0
	}
	// The mixer goroutine streams through the same chain; the read
	// needs the speaker lock like every other streamer access.
	speaker.Lock()
	n := e.streamer.Position()
	speaker.Unlock()
	return e.format.SampleRate.D(n)
}

// SetRate changes the playback rate of the loaded resource. The rate
// also sticks for the next Play when nothing is loaded.
func (e *Engine) SetRate(rate float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rate = rate
	if e.resampler == nil {
		return
	}
	speaker.Lock()
	e.resampler.SetRatio(e.baseRatio * rate)
	speaker.Unlock()
}

// Suspend releases the output device.
func (e *Engine) Suspend() error {
	if !speakerInitialized {
		return nil
	}
	return speaker.Suspend()
}

// Resume reacquires the output device.
func (e *Engine) Resume() error {
	if !speakerInitialized {
		return nil
	}
	return speaker.Resume()
}

func (e *Engine) Ticks() <-chan time.Duration { return e.ticks }

func (e *Engine) Finished() <-chan struct{} { return e.finishedCh }

func (e *Engine) Stalled() <-chan bool { return e.stalledCh }

// Close releases the loaded resource and stops the tick feed.
func (e *Engine) Close() {
	e.mu.Lock()
	e.unloadLocked()
	e.mu.Unlock()

	select {
	case <-e.done:
	default:
		close(e.done)
	}
}

func (e *Engine) unloadLocked() {
	if e.state == Stopped {
		return
	}

	speaker.Clear()

	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}
	if e.file != nil {
		e.file.Close()
		e.file = nil
	}

	e.ctrl = nil
	e.resampler = nil
	e.volume = nil
	e.duration = 0
	e.state = Stopped
}
