package servo

import (
	"fmt"
	"math"
)

const dutyEpsilon = 1e-9

// Calibration maps the angle range onto a device control range.
// Min is the control value at 0° and Max the value at 180°; Inverted swaps them.
type Calibration struct {
	Min      uint16
	Max      uint16
	Inverted bool
}

// NewCalibration validates and returns a calibration.
func NewCalibration(min, max uint16, inverted bool) (Calibration, error) {
	if min == max {
		return Calibration{}, fmt.Errorf("%w: min and max are both %d", ErrInvalidCalibration, min)
	}
	return Calibration{Min: min, Max: max, Inverted: inverted}, nil
}

// Validate reports whether the calibration has a non-zero span.
func (c Calibration) Validate() error {
	if c.Min == c.Max {
		return fmt.Errorf("%w: min and max are both %d", ErrInvalidCalibration, c.Min)
	}
	return nil
}

func (c Calibration) span() float64 {
	return float64(c.Max) - float64(c.Min)
}

// AngleToDuty converts an angle to a control value, truncating toward Min.
// 0° maps exactly to Min (Max when inverted) and 180° to the other bound.
func (c Calibration) AngleToDuty(a Angle) uint16 {
	deg := a.deg
	if c.Inverted {
		deg = MaxAngle - deg
	}
	duty := float64(c.Min) + deg/MaxAngle*c.span()
	// truncate toward Min; dutyEpsilon keeps exact ticks from losing one to float error
	if c.Max > c.Min {
		duty = math.Floor(duty + dutyEpsilon)
	} else {
		duty = math.Ceil(duty - dutyEpsilon)
	}
	return uint16(duty)
}

// DutyToAngle is the inverse of AngleToDuty. Values outside the calibrated
// range are clamped.
func (c Calibration) DutyToAngle(duty uint16) Angle {
	deg := (float64(duty) - float64(c.Min)) / c.span() * MaxAngle
	if c.Inverted {
		deg = MaxAngle - deg
	}
	return DegreesClamped(deg)
}
