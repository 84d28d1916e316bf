// Package motion drives groups of actuators through synchronized, linearly
// interpolated moves paced at the servo refresh period.
package motion

import (
	"fmt"
	"time"

	"github.com/gwillem/allbot/pkg/servo"
)

// StepCount returns how many whole steps of length step fit in total.
func StepCount(total, step time.Duration) (int, error) {
	if step <= 0 {
		return 0, fmt.Errorf("%w: step %v", ErrInvalidDuration, step)
	}
	if total <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDuration, total)
	}
	n := int(total / step)
	if n < 1 {
		return 0, fmt.Errorf("%w: %v is shorter than one %v step", ErrInvalidDuration, total, step)
	}
	return n, nil
}

// Plan returns the per-step delta that takes current to desired in steps steps.
func Plan(current, desired servo.Angle, steps int) (float64, error) {
	if steps <= 0 {
		return 0, fmt.Errorf("%w: %d steps", ErrInvalidDuration, steps)
	}
	return (desired.Degrees() - current.Degrees()) / float64(steps), nil
}
