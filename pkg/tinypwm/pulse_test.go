package tinypwm

import (
	"math"
	"testing"
)

func TestPulse(t *testing.T) {
	tests := []struct {
		in   uint16
		want int16
	}{
		{0, 0},
		{500, 500},
		{2500, 2500},
		{math.MaxInt16, math.MaxInt16},
		{math.MaxInt16 + 1, math.MaxInt16},
		{math.MaxUint16, math.MaxInt16},
	}

	for _, tt := range tests {
		if got := pulse(tt.in); got != tt.want {
			t.Errorf("pulse(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
