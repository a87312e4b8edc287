// Package interrupt translates external audio-system signals into
// playback commands.
package interrupt

// Kind classifies an external signal.
type Kind int

const (
	// InterruptionBegan: another client took the output (incoming call,
	// another player starting).
	InterruptionBegan Kind = iota
	// InterruptionEnded: the interruption is over. ShouldResume carries
	// the system's resume hint.
	InterruptionEnded
	// RouteLost: the active output device went away (headphones
	// unplugged, Bluetooth device disconnected).
	RouteLost
	// RouteGained: a new output device appeared. Informational.
	RouteGained
	// ServicesLost: the media subsystem itself went away.
	ServicesLost
	// ServicesReset: the media subsystem came back and must be
	// reconfigured.
	ServicesReset
)

// String returns the kind name for debugging.
func (k Kind) String() string {
	switch k {
	case InterruptionBegan:
		return "InterruptionBegan"
	case InterruptionEnded:
		return "InterruptionEnded"
	case RouteLost:
		return "RouteLost"
	case RouteGained:
		return "RouteGained"
	case ServicesLost:
		return "ServicesLost"
	case ServicesReset:
		return "ServicesReset"
	default:
		return "Unknown"
	}
}

// Signal is one external event.
type Signal struct {
	Kind         Kind
	ShouldResume bool // only meaningful with InterruptionEnded
}

// Source emits external signals. Implementations own their own
// subscription lifecycle; the channel closes when the source closes.
type Source interface {
	Signals() <-chan Signal
	Close() error
}
