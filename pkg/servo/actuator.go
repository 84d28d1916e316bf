package servo

// Actuator is a position-controllable device.
type Actuator interface {
	// Read returns the last commanded position.
	Read() Angle

	// Write commands the device to a, issuing exactly one control write.
	Write(a Angle)
}

var _ Actuator = (*Binding)(nil)
