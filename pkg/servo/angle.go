// Package servo models position-controllable actuators driven by a PWM-style
// control value, and the calibration that maps angles onto that value.
package servo

import (
	"fmt"
	"math"
)

// Angle bounds in degrees.
const (
	MinAngle = 0.0
	MaxAngle = 180.0
)

// Angle is an actuator position in degrees, always within [MinAngle, MaxAngle].
// The zero value is 0°.
type Angle struct {
	deg float64
}

// Degrees returns the angle x, or ErrInvalidAngle when x is outside [0, 180].
// Use it wherever an out-of-range value is a programming error.
func Degrees(x float64) (Angle, error) {
	if x < MinAngle || x > MaxAngle || math.IsNaN(x) {
		return Angle{}, fmt.Errorf("%w: %g not in [%g, %g]", ErrInvalidAngle, x, MinAngle, MaxAngle)
	}
	return Angle{deg: x}, nil
}

// DegreesClamped returns x clamped to [0, 180]. It never fails.
func DegreesClamped(x float64) Angle {
	switch {
	case math.IsNaN(x):
		// NaN carries no position; park at the lower bound
		return Angle{deg: MinAngle}
	case x < MinAngle:
		return Angle{deg: MinAngle}
	case x > MaxAngle:
		return Angle{deg: MaxAngle}
	}
	return Angle{deg: x}
}

// MustDegrees is like Degrees but panics on an invalid angle.
// Intended for package-level constants such as the neutral pose.
func MustDegrees(x float64) Angle {
	a, err := Degrees(x)
	if err != nil {
		panic(err)
	}
	return a
}

// Degrees returns the angle in degrees.
func (a Angle) Degrees() float64 {
	return a.deg
}

// Add returns the angle offset by d degrees, clamped to the valid range.
func (a Angle) Add(d float64) Angle {
	return DegreesClamped(a.deg + d)
}

func (a Angle) String() string {
	return fmt.Sprintf("%.2f°", a.deg)
}
