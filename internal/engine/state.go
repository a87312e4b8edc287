// internal/engine/state.go
package engine

// State represents the engine's own little state machine.
//
// Valid transitions:
//   - Stopped → Paused  (via Open: loaded, not advancing)
//   - Paused  → Playing (via Play)
//   - Playing → Paused  (via Pause)
//   - any     → Stopped (via Close, or Open of another resource)
//
// Invalid/no-op transitions (handled gracefully):
//   - Play/Pause/Seek with nothing loaded (ignored)
//   - Pause while Paused (ignored)
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsLoaded returns true if a resource is open (Playing or Paused).
func (s State) IsLoaded() bool {
	return s == Playing || s == Paused
}
