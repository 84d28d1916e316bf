package motion

import "errors"

var (
	// ErrInvalidDuration is returned when a duration yields no whole step.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrTooManyMoves is returned when an animation exceeds the actuator capacity.
	ErrTooManyMoves = errors.New("too many moves")

	// ErrDuplicateActuator is returned when one animation moves an actuator twice.
	ErrDuplicateActuator = errors.New("actuator moved twice")
)
