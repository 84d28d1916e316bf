package servo

import "fmt"

// Binding is an Actuator over one claimed channel and its calibration.
type Binding struct {
	channel *Channel
	cal     Calibration

	// last commanded angle; reads would otherwise drift by the duty truncation
	angle   Angle
	written bool
}

// Bind claims ch, configures its output and returns an actuator for it.
// Binding a channel twice fails with ErrChannelAlreadyBound.
func Bind(ch *Channel, cal Calibration) (*Binding, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	if err := ch.claim(); err != nil {
		return nil, err
	}
	if err := ch.driver.Configure(RefreshPeriod); err != nil {
		ch.release()
		return nil, fmt.Errorf("configure %s: %w", ch.name, err)
	}
	return &Binding{channel: ch, cal: cal}, nil
}

// Read returns the last written angle, or the angle derived from the
// channel's current control value before the first write.
func (b *Binding) Read() Angle {
	if b.written {
		return b.angle
	}
	return b.cal.DutyToAngle(b.channel.driver.Get())
}

// Write converts a to a control value and writes it to the channel.
func (b *Binding) Write(a Angle) {
	b.channel.driver.Set(b.cal.AngleToDuty(a))
	b.angle = a
	b.written = true
}

// Calibration returns the binding's calibration.
func (b *Binding) Calibration() Calibration {
	return b.cal
}

// Channel returns the name of the bound channel.
func (b *Binding) Channel() string {
	return b.channel.name
}
