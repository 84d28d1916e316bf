package servo

import (
	"strconv"
	"sync"
	"time"
)

// SimDriver is an in-memory Driver. It records every write and is used for
// dry runs and tests.
type SimDriver struct {
	mu         sync.Mutex
	value      uint16
	period     time.Duration
	configured bool
	writes     []uint16
}

// NewSimDriver returns a driver whose register initially holds value.
func NewSimDriver(value uint16) *SimDriver {
	return &SimDriver{value: value}
}

func (d *SimDriver) Configure(period time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.period = period
	d.configured = true
	return nil
}

func (d *SimDriver) Set(value uint16) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.value = value
	d.writes = append(d.writes, value)
}

func (d *SimDriver) Get() uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Configured reports whether Configure was called and with which period.
func (d *SimDriver) Configured() (bool, time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.configured, d.period
}

// Writes returns a copy of every value written so far.
func (d *SimDriver) Writes() []uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]uint16, len(d.writes))
	copy(out, d.writes)
	return out
}

// SimBoard hands out simulated channels by number, one handle per output.
type SimBoard struct {
	mu       sync.Mutex
	initial  uint16
	channels map[int]*Channel
	drivers  map[int]*SimDriver
}

// NewSimBoard returns a board whose outputs start at the given control value.
func NewSimBoard(initial uint16) *SimBoard {
	return &SimBoard{
		initial:  initial,
		channels: make(map[int]*Channel),
		drivers:  make(map[int]*SimDriver),
	}
}

// Channel returns the handle for output id, creating it on first use.
func (b *SimBoard) Channel(id int) (*Channel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.channels[id]; ok {
		return ch, nil
	}
	d := NewSimDriver(b.initial)
	ch := NewChannel(simName(id), d)
	b.channels[id] = ch
	b.drivers[id] = d
	return ch, nil
}

// Driver returns the simulated driver behind output id, if created.
func (b *SimBoard) Driver(id int) (*SimDriver, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.drivers[id]
	return d, ok
}

func simName(id int) string {
	return "sim" + strconv.Itoa(id)
}
