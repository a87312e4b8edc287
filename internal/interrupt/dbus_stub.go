//go:build !linux

package interrupt

// DBusSource is a no-op on non-Linux platforms: it never delivers a
// signal, so the monitor simply idles.
type DBusSource struct {
	signals chan Signal
}

// NewDBusSource returns a no-op source on non-Linux platforms.
func NewDBusSource(_ string) (*DBusSource, error) {
	return &DBusSource{signals: make(chan Signal)}, nil
}

// Signals returns a channel that never delivers.
func (s *DBusSource) Signals() <-chan Signal {
	return s.signals
}

// Close is a no-op on non-Linux platforms.
func (s *DBusSource) Close() error {
	return nil
}
