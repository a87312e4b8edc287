package playback

import (
	"math"
	"testing"
)

func TestNearestRate(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"exact member", 1.25, 1.25},
		{"approximate from remote", 1.3, 1.25},
		{"midpoint rounds down", 1.1, 1.0},
		{"above max clamps", 3.5, 2.5},
		{"below min clamps", 0.1, 0.5},
		{"zero falls back to default", 0, 1.0},
		{"negative falls back to default", -1, 1.0},
		{"NaN falls back to default", math.NaN(), 1.0},
		{"Inf falls back to default", math.Inf(1), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NearestRate(tt.in); got != tt.want {
				t.Errorf("NearestRate(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNextPrevRate(t *testing.T) {
	if got := NextRate(1.0); got != 1.25 {
		t.Errorf("NextRate(1.0) = %v, want 1.25", got)
	}
	if got := NextRate(2.5); got != 2.5 {
		t.Errorf("NextRate(2.5) = %v, want saturation at 2.5", got)
	}
	if got := PrevRate(1.0); got != 0.75 {
		t.Errorf("PrevRate(1.0) = %v, want 0.75", got)
	}
	if got := PrevRate(0.5); got != 0.5 {
		t.Errorf("PrevRate(0.5) = %v, want saturation at 0.5", got)
	}
}
