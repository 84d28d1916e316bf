package motion

import "github.com/gwillem/allbot/pkg/servo"

// Move is one actuator's target within a single Animate call.
type Move struct {
	Actuator servo.Actuator
	Target   servo.Angle

	delta float64
}

// To builds a move from a strict degree value.
func To(a servo.Actuator, degrees float64) (Move, error) {
	target, err := servo.Degrees(degrees)
	if err != nil {
		return Move{}, err
	}
	return Move{Actuator: a, Target: target}, nil
}
