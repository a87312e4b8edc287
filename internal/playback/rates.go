package playback

import "math"

// Rates is the supported discrete set of playback rate multipliers.
var Rates = []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0, 2.5}

// DefaultRate is the rate a fresh session starts with.
const DefaultRate = 1.0

// NearestRate clamps r to the closest member of Rates. Remote-control
// integrations send approximate values; rejecting them would break the
// integration, so out-of-set values snap to a neighbor instead.
func NearestRate(r float64) float64 {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return DefaultRate
	}

	nearest := Rates[0]
	best := math.Abs(r - nearest)
	for _, candidate := range Rates[1:] {
		if d := math.Abs(r - candidate); d < best {
			best = d
			nearest = candidate
		}
	}
	return nearest
}

// NextRate returns the rate one step above r (saturating), used by
// cycle-style key bindings.
func NextRate(r float64) float64 {
	for i, candidate := range Rates {
		if candidate == NearestRate(r) && i+1 < len(Rates) {
			return Rates[i+1]
		}
	}
	return Rates[len(Rates)-1]
}

// PrevRate returns the rate one step below r (saturating).
func PrevRate(r float64) float64 {
	for i, candidate := range Rates {
		if candidate == NearestRate(r) && i > 0 {
			return Rates[i-1]
		}
	}
	return Rates[0]
}
