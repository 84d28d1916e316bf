package servo

import "errors"

var (
	// ErrInvalidAngle is returned by Degrees for values outside [0, 180].
	ErrInvalidAngle = errors.New("invalid angle")

	// ErrInvalidCalibration is returned when both calibration points are equal.
	ErrInvalidCalibration = errors.New("invalid calibration")

	// ErrChannelAlreadyBound is returned when a channel is bound a second time.
	ErrChannelAlreadyBound = errors.New("channel already bound")
)
