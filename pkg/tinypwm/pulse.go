package tinypwm

import "math"

// pulse converts a control value to the driver's microsecond argument,
// saturating instead of wrapping past its range.
func pulse(value uint16) int16 {
	if value > math.MaxInt16 {
		return math.MaxInt16
	}
	return int16(value)
}
