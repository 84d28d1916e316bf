// Package show runs a body's gestures in the background and publishes its
// progress for a live view.
package show

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gwillem/allbot/pkg/motion"
	"github.com/gwillem/allbot/pkg/robot"
)

// State is a snapshot of the running show.
type State struct {
	Gesture   string
	Phase     int
	Step      int
	Steps     int
	Positions map[robot.RoleName]float64
	Timestamp time.Time
	Done      bool
	Error     error
}

// Config holds configuration for the controller.
type Config struct {
	Calibration robot.Calibration
	Source      robot.ChannelSource
	Animator    *motion.Animator

	Gesture  string         // play only this gesture; empty picks from the repertoire
	Count    int            // gestures to play, 0 plays until cancelled
	Selector robot.Selector // defaults to sequential
	Logger   *slog.Logger
}

// Controller plays gestures on one body.
type Controller struct {
	body   *robot.Body
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	stateCh chan State
	logCh   chan string
}

// NewController assembles the body and returns a controller for it.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Source == nil {
		return nil, errors.New("no channel source")
	}
	if cfg.Animator == nil {
		cfg.Animator = motion.NewAnimator()
	}
	if cfg.Selector == nil {
		cfg.Selector = robot.SequentialSelector()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &Controller{
		cfg:     cfg,
		logger:  cfg.Logger,
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 10),
	}

	if cfg.Animator.Logger == nil {
		cfg.Animator.Logger = cfg.Logger
	}
	body, err := robot.Assemble(cfg.Calibration, cfg.Source,
		robot.WithAnimator(cfg.Animator),
		robot.WithLogger(cfg.Logger),
		robot.WithObserver(c.observe),
	)
	if err != nil {
		return nil, fmt.Errorf("assemble body: %w", err)
	}
	if cfg.Gesture != "" {
		if _, err := body.Gesture(cfg.Gesture); err != nil {
			return nil, err
		}
	}
	c.body = body
	return c, nil
}

// Body returns the controlled body.
func (c *Controller) Body() *robot.Body {
	return c.body
}

// States returns a channel that receives state updates.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

func (c *Controller) log(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	c.logger.Info(text)
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), text)
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start initializes the body and plays gestures until done or ctx is
// cancelled. A gesture in progress always completes.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	c.body.Init()
	c.log("Body at neutral pose (%d servos)", len(c.body.Roles()))

	err := c.play(ctx)
	switch {
	case err == nil:
		c.log("Show finished")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.log("Show stopped")
	default:
		c.log("Error: %v", err)
	}
	c.sendState(State{Done: true, Error: err, Timestamp: time.Now()})
	return err
}

func (c *Controller) play(ctx context.Context) error {
	if c.cfg.Gesture == "" {
		c.log("Dancing %s", countText(c.cfg.Count))
		return c.body.Dance(ctx, c.cfg.Count, c.cfg.Selector)
	}

	c.log("Playing %s %s", c.cfg.Gesture, countText(c.cfg.Count))
	for i := 0; c.cfg.Count <= 0 || i < c.cfg.Count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.body.Perform(c.cfg.Gesture); err != nil {
			return err
		}
	}
	return nil
}

// observe runs on the animating goroutine after every step.
func (c *Controller) observe(s robot.Snapshot) {
	c.sendState(State{
		Gesture:   s.Gesture,
		Phase:     s.Phase,
		Step:      s.Step,
		Steps:     s.Steps,
		Positions: s.Positions,
		Timestamp: time.Now(),
	})
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}

func countText(n int) string {
	switch {
	case n <= 0:
		return "until stopped"
	case n == 1:
		return "once"
	default:
		return fmt.Sprintf("%d times", n)
	}
}
