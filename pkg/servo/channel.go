package servo

import (
	"fmt"
	"sync/atomic"
	"time"
)

// RefreshPeriod is the standard hobby-servo signal period.
const RefreshPeriod = 20 * time.Millisecond

// Driver is the raw register access a platform supplies for one PWM-capable
// output. Implementations live with the board bring-up code.
type Driver interface {
	// Configure enables the output and sets its refresh period.
	Configure(period time.Duration) error

	// Set writes a raw control value.
	Set(value uint16)

	// Get reads back the raw control value.
	Get() uint16
}

// Channel is the handle for one hardware output. A channel can be bound to at
// most one Binding; the board code hands out exactly one Channel per output.
type Channel struct {
	name    string
	driver  Driver
	claimed atomic.Bool
}

// NewChannel wraps a driver in a channel handle.
func NewChannel(name string, d Driver) *Channel {
	return &Channel{name: name, driver: d}
}

// Name returns the channel's board-level name.
func (c *Channel) Name() string {
	return c.name
}

// Claimed reports whether the channel is already owned by a binding.
func (c *Channel) Claimed() bool {
	return c.claimed.Load()
}

func (c *Channel) claim() error {
	if !c.claimed.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: %s", ErrChannelAlreadyBound, c.name)
	}
	return nil
}

func (c *Channel) release() {
	c.claimed.Store(false)
}
