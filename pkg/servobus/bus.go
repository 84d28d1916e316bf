// Package servobus exposes the servos on a Feetech serial bus as servo
// channels, so a body can be assembled over serial bus servos.
package servobus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"

	"github.com/gwillem/allbot/pkg/servo"
)

// DefaultBaudRate is the STS series factory baud rate.
const DefaultBaudRate = 1_000_000

// Config describes how to open a bus.
type Config struct {
	Port     string
	BaudRate int
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Bus is an open Feetech bus handing out one channel per servo ID.
type Bus struct {
	bus     *feetech.Bus
	timeout time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	channels map[int]*servo.Channel
	ids      []int
}

// Open opens the serial port and returns a bus.
func Open(cfg Config) (*Bus, error) {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 100 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     cfg.Port,
		BaudRate: cfg.BaudRate,
		Protocol: feetech.ProtocolSTS,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	return &Bus{
		bus:      bus,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger.With("port", cfg.Port),
		channels: make(map[int]*servo.Channel),
	}, nil
}

// Scan returns the IDs of servos answering in [1, maxID].
func (b *Bus) Scan(ctx context.Context, maxID int) ([]int, error) {
	found, err := b.bus.Scan(ctx, 1, maxID)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	ids := make([]int, 0, len(found))
	for _, s := range found {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

// Channel returns the channel for servo id. Repeated calls return the same
// handle, so a servo can only be bound once.
func (b *Bus) Channel(id int) (*servo.Channel, error) {
	if id < 0 || id > 253 {
		return nil, fmt.Errorf("servo id %d out of range", id)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.channels[id]; ok {
		return ch, nil
	}
	d := &driver{
		id:      id,
		group:   feetech.NewServoGroupByIDs(b.bus, id),
		timeout: b.timeout,
		logger:  b.logger.With("servo", id),
	}
	ch := servo.NewChannel(fmt.Sprintf("sts%d", id), d)
	b.channels[id] = ch
	b.ids = append(b.ids, id)
	return ch, nil
}

// Close disables torque on every handed-out servo and closes the port.
func (b *Bus) Close() error {
	b.mu.Lock()
	ids := append([]int(nil), b.ids...)
	b.mu.Unlock()

	if len(ids) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout*time.Duration(len(ids)+1))
		if err := feetech.NewServoGroupByIDs(b.bus, ids...).DisableAll(ctx); err != nil {
			b.logger.Warn("disable torque", "err", err)
		}
		cancel()
	}
	return b.bus.Close()
}

// driver adapts one bus servo to servo.Driver. Control values are raw
// STS positions.
type driver struct {
	id      int
	group   *feetech.ServoGroup
	timeout time.Duration
	logger  *slog.Logger

	value uint16
}

func (d *driver) Configure(period time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 4*d.timeout)
	defer cancel()

	positions, err := d.group.Positions(ctx)
	if err != nil {
		return fmt.Errorf("read position: %w", err)
	}
	if pos, ok := positions[d.id]; ok && pos >= 0 {
		d.value = uint16(pos)
	}

	if err := d.group.EnableAll(ctx); err != nil {
		return fmt.Errorf("enable torque: %w", err)
	}
	// bus servos run their own position loop; the period only paces our writes
	d.logger.Debug("servo configured", "position", d.value, "period", period)
	return nil
}

// Set writes the goal position. The bus is assumed reliable; a failed write
// is logged and the commanded value is kept.
func (d *driver) Set(value uint16) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	d.value = value
	if err := d.group.SetPositions(ctx, feetech.PositionMap{d.id: int(value)}); err != nil {
		d.logger.Warn("write position", "value", value, "err", err)
	}
}

func (d *driver) Get() uint16 {
	return d.value
}
