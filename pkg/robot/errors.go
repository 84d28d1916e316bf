package robot

import "errors"

var (
	// ErrGestureNotFound is returned when a gesture name is not registered.
	ErrGestureNotFound = errors.New("gesture not found")

	// ErrUnknownRole is returned when a gesture targets a role the body lacks.
	ErrUnknownRole = errors.New("unknown role")

	// ErrDuplicateRole is returned when a phase targets the same role twice.
	ErrDuplicateRole = errors.New("role targeted twice in one phase")

	// ErrNoActuators is returned when a body is built without actuators.
	ErrNoActuators = errors.New("body has no actuators")
)
