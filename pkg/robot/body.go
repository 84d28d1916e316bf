package robot

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/gwillem/allbot/pkg/motion"
	"github.com/gwillem/allbot/pkg/servo"
)

// ChannelSource hands out the hardware channel for a servo ID.
type ChannelSource interface {
	Channel(id int) (*servo.Channel, error)
}

// Snapshot is the body state after one animation step.
type Snapshot struct {
	Gesture   string
	Phase     int
	Step      int
	Steps     int
	Positions map[RoleName]float64
}

// Body owns a fixed set of role actuators and plays gestures through them.
// Gestures run one at a time; the body is the only writer to its actuators.
type Body struct {
	mu         sync.Mutex
	actuators  map[RoleName]servo.Actuator
	roles      []RoleName
	animator   *motion.Animator
	gestures   map[string]Gesture
	repertoire Repertoire
	neutral    servo.Angle
	observer   func(Snapshot)
	logger     *slog.Logger

	// set while a gesture plays, read by the step hook
	current string
	phase   int
}

// BodyOption configures a Body.
type BodyOption func(*Body) error

// WithAnimator sets the animator used for every phase. With an observer set,
// the body adds its step hook after the animator's existing OnStep.
func WithAnimator(an *motion.Animator) BodyOption {
	return func(b *Body) error {
		b.animator = an
		return nil
	}
}

// WithGestures replaces the built-in gestures. Order defines the repertoire.
func WithGestures(gs ...Gesture) BodyOption {
	return func(b *Body) error {
		b.gestures = make(map[string]Gesture, len(gs))
		b.repertoire = nil
		for _, g := range gs {
			if _, dup := b.gestures[g.Name]; dup {
				return fmt.Errorf("gesture %q registered twice", g.Name)
			}
			b.gestures[g.Name] = g.clone()
			b.repertoire = append(b.repertoire, g.Name)
		}
		return nil
	}
}

// WithNeutral sets the pose written by Init.
func WithNeutral(deg float64) BodyOption {
	return func(b *Body) error {
		a, err := servo.Degrees(deg)
		if err != nil {
			return fmt.Errorf("neutral pose: %w", err)
		}
		b.neutral = a
		return nil
	}
}

// WithObserver registers fn to receive a snapshot after every animation step.
// fn runs on the animating goroutine and must not call back into the body.
func WithObserver(fn func(Snapshot)) BodyOption {
	return func(b *Body) error {
		b.observer = fn
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) BodyOption {
	return func(b *Body) error {
		b.logger = l
		return nil
	}
}

// NewBody creates a body over the given actuators.
func NewBody(actuators map[RoleName]servo.Actuator, opts ...BodyOption) (*Body, error) {
	if len(actuators) == 0 {
		return nil, ErrNoActuators
	}

	b := &Body{
		actuators: make(map[RoleName]servo.Actuator, len(actuators)),
		animator:  motion.NewAnimator(),
		neutral:   servo.MustDegrees(Neutral),
		logger:    slog.Default(),
	}
	for name, a := range actuators {
		if a == nil {
			return nil, fmt.Errorf("%s: nil actuator", name)
		}
		b.actuators[name] = a
	}
	var extra []RoleName
	for _, name := range AllRoles() {
		if _, ok := actuators[name]; ok {
			b.roles = append(b.roles, name)
		}
	}
	for name := range actuators {
		if !slices.Contains(AllRoles(), name) {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	b.roles = append(b.roles, extra...)

	if err := WithGestures(BuiltinGestures()...)(b); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	for _, name := range b.repertoire {
		if err := b.check(b.gestures[name]); err != nil {
			return nil, err
		}
	}

	if b.observer != nil {
		b.hookAnimator()
	}
	return b, nil
}

// check verifies every target of g names a role of b, at most once per phase.
func (b *Body) check(g Gesture) error {
	for i, p := range g.Phases {
		seen := make(map[RoleName]bool, len(p.Targets))
		for _, t := range p.Targets {
			if _, ok := b.actuators[t.Role]; !ok {
				return fmt.Errorf("gesture %q phase %d: %w: %s", g.Name, i, ErrUnknownRole, t.Role)
			}
			if seen[t.Role] {
				return fmt.Errorf("gesture %q phase %d: %w: %s", g.Name, i, ErrDuplicateRole, t.Role)
			}
			seen[t.Role] = true
		}
	}
	return nil
}

// hookAnimator reports steps to the observer, after any hook already set on
// the animator.
func (b *Body) hookAnimator() {
	prev := b.animator.OnStep
	b.animator.OnStep = func(step, steps int) {
		if prev != nil {
			prev(step, steps)
		}
		b.onStep(step, steps)
	}
}

// Assemble binds one actuator per calibrated role using channels from src.
func Assemble(cal Calibration, src ChannelSource, opts ...BodyOption) (*Body, error) {
	if err := cal.Validate(); err != nil {
		return nil, fmt.Errorf("calibration: %w", err)
	}

	actuators := make(map[RoleName]servo.Actuator, len(cal))
	for _, name := range cal.Roles() {
		rc := cal[name]
		sc, err := rc.Servo()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ch, err := src.Channel(rc.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: channel %d: %w", name, rc.ID, err)
		}
		b, err := servo.Bind(ch, sc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		actuators[name] = b
	}

	return NewBody(actuators, opts...)
}

// Init writes the neutral pose to every actuator.
func (b *Body) Init() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, name := range b.roles {
		b.actuators[name].Write(b.neutral)
	}
	b.logger.Debug("body initialized", "neutral", b.neutral.Degrees(), "roles", len(b.roles))
}

// Perform plays the named gesture to completion. Every target angle is
// validated before the first phase starts.
func (b *Body) Perform(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	g, ok := b.gestures[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGestureNotFound, name)
	}

	phases, err := b.compile(g)
	if err != nil {
		return err
	}

	b.logger.Info("gesture", "name", g.Name, "phases", len(phases), "duration", g.Duration())
	b.current = g.Name
	defer func() { b.current, b.phase = "", 0 }()

	for i, moves := range phases {
		b.phase = i
		if err := b.animator.Animate(moves, g.Phases[i].Duration); err != nil {
			return fmt.Errorf("gesture %q phase %d: %w", g.Name, i, err)
		}
	}
	return nil
}

// compile turns every phase of g into moves, failing on the first invalid target.
func (b *Body) compile(g Gesture) ([][]motion.Move, error) {
	phases := make([][]motion.Move, len(g.Phases))
	for i, p := range g.Phases {
		moves := make([]motion.Move, 0, len(p.Targets))
		seen := make(map[RoleName]bool, len(p.Targets))
		for _, t := range p.Targets {
			a, ok := b.actuators[t.Role]
			if !ok {
				return nil, fmt.Errorf("gesture %q phase %d: %w: %s", g.Name, i, ErrUnknownRole, t.Role)
			}
			if seen[t.Role] {
				return nil, fmt.Errorf("gesture %q phase %d: %w: %s", g.Name, i, ErrDuplicateRole, t.Role)
			}
			seen[t.Role] = true
			m, err := motion.To(a, t.Degrees)
			if err != nil {
				return nil, fmt.Errorf("gesture %q phase %d %s: %w", g.Name, i, t.Role, err)
			}
			moves = append(moves, m)
		}
		phases[i] = moves
	}
	return phases, nil
}

// Dance plays n gestures back to back, chosen by next from the repertoire.
// n <= 0 plays until ctx is done. ctx is only checked between gestures; a
// gesture in progress always completes.
func (b *Body) Dance(ctx context.Context, n int, next Selector) error {
	if len(b.repertoire) == 0 {
		return fmt.Errorf("%w: empty repertoire", ErrGestureNotFound)
	}
	for i := 0; n <= 0 || i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.Perform(b.repertoire.Select(next())); err != nil {
			return err
		}
	}
	return nil
}

// Repertoire returns the gesture names in playback order.
func (b *Body) Repertoire() Repertoire {
	out := make(Repertoire, len(b.repertoire))
	copy(out, b.repertoire)
	return out
}

// Gesture returns a registered gesture by name.
func (b *Body) Gesture(name string) (Gesture, error) {
	g, ok := b.gestures[name]
	if !ok {
		return Gesture{}, fmt.Errorf("%w: %s", ErrGestureNotFound, name)
	}
	return g.clone(), nil
}

// Roles returns the body's roles in servo order.
func (b *Body) Roles() []RoleName {
	out := make([]RoleName, len(b.roles))
	copy(out, b.roles)
	return out
}

// Positions reads the commanded angle of every actuator.
func (b *Body) Positions() map[RoleName]float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.positions()
}

func (b *Body) positions() map[RoleName]float64 {
	out := make(map[RoleName]float64, len(b.actuators))
	for name, a := range b.actuators {
		out[name] = a.Read().Degrees()
	}
	return out
}

// onStep runs on the animating goroutine with b.mu held.
func (b *Body) onStep(step, steps int) {
	b.observer(Snapshot{
		Gesture:   b.current,
		Phase:     b.phase,
		Step:      step,
		Steps:     steps,
		Positions: b.positions(),
	})
}
