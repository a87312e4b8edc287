//go:build linux

package interrupt

import (
	"github.com/godbus/dbus/v5"
)

const (
	logindInterface = "org.freedesktop.login1.Manager"
	logindSleep     = "PrepareForSleep"

	propsInterface = "org.freedesktop.DBus.Properties"
	propsChanged   = "PropertiesChanged"
	bluezDevice    = "org.bluez.Device1"

	busInterface    = "org.freedesktop.DBus"
	busOwnerChanged = "NameOwnerChanged"
)

const sourceBufferSize = 8

// DBusSource watches system and session buses for playback interruptions:
// suspend/resume from logind, Bluetooth route changes from BlueZ, and the
// audio service appearing or vanishing on the session bus.
type DBusSource struct {
	system  *dbus.Conn
	session *dbus.Conn
	signals chan Signal
	done    chan struct{}
}

// NewDBusSource connects to D-Bus and starts watching for interruption
// signals. audioService names the session bus service whose loss should
// stop playback (e.g. "org.pipewire.pipewire-pulse"); empty disables that
// watch.
func NewDBusSource(audioService string) (*DBusSource, error) {
	system, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}

	s := &DBusSource{
		system:  system,
		signals: make(chan Signal, sourceBufferSize),
		done:    make(chan struct{}),
	}

	if err := system.AddMatchSignal(
		dbus.WithMatchInterface(logindInterface),
		dbus.WithMatchMember(logindSleep),
	); err != nil {
		return nil, err
	}
	if err := system.AddMatchSignal(
		dbus.WithMatchInterface(propsInterface),
		dbus.WithMatchMember(propsChanged),
		dbus.WithMatchPathNamespace("/org/bluez"),
	); err != nil {
		return nil, err
	}

	// The session bus is optional: headless setups still get suspend and
	// Bluetooth signals from the system bus.
	if audioService != "" {
		if session, err := dbus.SessionBus(); err == nil {
			if err := session.AddMatchSignal(
				dbus.WithMatchInterface(busInterface),
				dbus.WithMatchMember(busOwnerChanged),
				dbus.WithMatchArg(0, audioService),
			); err == nil {
				s.session = session
			}
		}
	}

	raw := make(chan *dbus.Signal, sourceBufferSize)
	system.Signal(raw)
	if s.session != nil {
		s.session.Signal(raw)
	}

	go s.run(raw)
	return s, nil
}

// Signals returns the channel interruption signals are delivered on.
func (s *DBusSource) Signals() <-chan Signal {
	return s.signals
}

// Close stops watching and releases the bus connections.
func (s *DBusSource) Close() error {
	close(s.done)
	err := s.system.Close()
	if s.session != nil {
		if serr := s.session.Close(); err == nil {
			err = serr
		}
	}
	return err
}

func (s *DBusSource) run(raw <-chan *dbus.Signal) {
	for {
		select {
		case <-s.done:
			return
		case sig, ok := <-raw:
			if !ok {
				return
			}
			if mapped, ok := translate(sig); ok {
				s.emit(mapped)
			}
		}
	}
}

func (s *DBusSource) emit(sig Signal) {
	select {
	case s.signals <- sig:
	case <-s.done:
	}
}

// translate maps a raw bus signal to an interruption Signal.
func translate(sig *dbus.Signal) (Signal, bool) {
	switch sig.Name {
	case logindInterface + "." + logindSleep:
		entering, ok := signalArg[bool](sig, 0)
		if !ok {
			return Signal{}, false
		}
		if entering {
			return Signal{Kind: InterruptionBegan}, true
		}
		// Waking from suspend says nothing about whether the user still
		// wants audio; leave the player paused.
		return Signal{Kind: InterruptionEnded, ShouldResume: false}, true

	case propsInterface + "." + propsChanged:
		iface, ok := signalArg[string](sig, 0)
		if !ok || iface != bluezDevice {
			return Signal{}, false
		}
		changed, ok := signalArg[map[string]dbus.Variant](sig, 1)
		if !ok {
			return Signal{}, false
		}
		v, ok := changed["Connected"]
		if !ok {
			return Signal{}, false
		}
		connected, ok := v.Value().(bool)
		if !ok {
			return Signal{}, false
		}
		if connected {
			return Signal{Kind: RouteGained}, true
		}
		return Signal{Kind: RouteLost}, true

	case busInterface + "." + busOwnerChanged:
		oldOwner, okOld := signalArg[string](sig, 1)
		newOwner, okNew := signalArg[string](sig, 2)
		if !okOld || !okNew {
			return Signal{}, false
		}
		if newOwner == "" {
			return Signal{Kind: ServicesLost}, true
		}
		if oldOwner == "" {
			return Signal{Kind: ServicesReset}, true
		}
		return Signal{}, false
	}
	return Signal{}, false
}

func signalArg[T any](sig *dbus.Signal, i int) (T, bool) {
	var zero T
	if i >= len(sig.Body) {
		return zero, false
	}
	v, ok := sig.Body[i].(T)
	if !ok {
		return zero, false
	}
	return v, true
}
