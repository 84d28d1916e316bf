//go:build tinygo

// Package tinypwm drives hobby servos from TinyGo PWM peripherals.
// Control values are pulse widths in microseconds.
package tinypwm

import (
	"fmt"
	"machine"
	"time"

	tservo "tinygo.org/x/drivers/servo"

	"github.com/gwillem/allbot/pkg/servo"
)

// Output is one servo pin on a PWM peripheral.
type Output struct {
	PWM tservo.PWM
	Pin machine.Pin
}

// Board hands out one channel per configured output.
type Board struct {
	outputs  map[int]Output
	channels map[int]*servo.Channel
}

// NewBoard returns a board over the given outputs, keyed by servo ID.
func NewBoard(outputs map[int]Output) *Board {
	return &Board{
		outputs:  outputs,
		channels: make(map[int]*servo.Channel),
	}
}

// Channel returns the channel for servo id.
func (b *Board) Channel(id int) (*servo.Channel, error) {
	if ch, ok := b.channels[id]; ok {
		return ch, nil
	}
	out, ok := b.outputs[id]
	if !ok {
		return nil, fmt.Errorf("no output for servo %d", id)
	}
	ch := servo.NewChannel(fmt.Sprintf("pwm%d", id), &driver{out: out})
	b.channels[id] = ch
	return ch, nil
}

type driver struct {
	out   Output
	dev   tservo.Servo
	value uint16
}

func (d *driver) Configure(period time.Duration) error {
	if period != servo.RefreshPeriod {
		return fmt.Errorf("unsupported servo period %v", period)
	}
	dev, err := tservo.New(d.out.PWM, d.out.Pin)
	if err != nil {
		return err
	}
	d.dev = dev
	return nil
}

func (d *driver) Set(value uint16) {
	d.dev.SetMicroseconds(pulse(value))
	d.value = value
}

func (d *driver) Get() uint16 {
	return d.value
}
