package interrupt

import (
	"github.com/llehouerou/fable/internal/playback"
)

// Controller is the slice of the playback facade the monitor drives.
type Controller interface {
	Play()
	Pause()
	Stop()
	State() playback.State
}

// Hooks are invoked on media-subsystem transitions so the shell can
// clear or republish now-playing metadata and reconfigure output.
type Hooks struct {
	OnServicesLost  func()
	OnServicesReset func()
}

// Monitor maps external signals to playback commands.
//
// The resume decision after an interruption depends on what the user
// intended *before* it began, not on the paused state the interruption
// left behind, so the monitor records that intent when the
// interruption starts.
type Monitor struct {
	ctrl  Controller
	hooks Hooks
	src   Source

	wasPlaying bool

	done chan struct{}
}

// New creates a monitor and starts consuming the source.
func New(src Source, ctrl Controller, hooks Hooks) *Monitor {
	m := &Monitor{
		ctrl:  ctrl,
		hooks: hooks,
		src:   src,
		done:  make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *Monitor) run() {
	for {
		select {
		case <-m.done:
			return
		case sig, ok := <-m.src.Signals():
			if !ok {
				return
			}
			m.handle(sig)
		}
	}
}

func (m *Monitor) handle(sig Signal) {
	switch sig.Kind {
	case InterruptionBegan:
		state := m.ctrl.State()
		m.wasPlaying = state == playback.StatePlaying || state == playback.StateBuffering
		m.ctrl.Pause()

	case InterruptionEnded:
		if sig.ShouldResume && m.wasPlaying {
			m.ctrl.Play()
		}
		m.wasPlaying = false

	case RouteLost:
		m.ctrl.Pause()

	case RouteGained:
		// Informational; never auto-resume on a new device.

	case ServicesLost:
		m.ctrl.Stop()
		if m.hooks.OnServicesLost != nil {
			m.hooks.OnServicesLost()
		}

	case ServicesReset:
		if m.hooks.OnServicesReset != nil {
			m.hooks.OnServicesReset()
		}
	}
}

// Close stops the monitor and its source.
func (m *Monitor) Close() error {
	select {
	case <-m.done:
	default:
		close(m.done)
	}
	return m.src.Close()
}
