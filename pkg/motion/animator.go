package motion

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gwillem/allbot/pkg/servo"
)

// DefaultCapacity is the number of actuators one animation may drive.
const DefaultCapacity = 8

// Animator moves sets of actuators in lockstep. Each Animate call runs its
// full step count; it cannot be interrupted once started.
type Animator struct {
	// Step is the time between writes, normally servo.RefreshPeriod.
	Step time.Duration

	// Capacity caps the number of moves per call.
	Capacity int

	// Delay blocks for one step. Defaults to time.Sleep.
	Delay func(time.Duration)

	// OnStep, when set, runs after every step's writes.
	OnStep func(step, steps int)

	Logger *slog.Logger
}

// NewAnimator returns an animator paced at the servo refresh period.
func NewAnimator() *Animator {
	return &Animator{
		Step:     servo.RefreshPeriod,
		Capacity: DefaultCapacity,
		Delay:    time.Sleep,
	}
}

// animation is the state of one Animate call.
type animation struct {
	moves []Move
	steps int
	step  int
}

// Animate moves every actuator in moves to its target over total, writing
// each one once per step so that all of them start and finish together.
// Actuators not in moves are not touched. Errors are returned before any
// write happens.
func (an *Animator) Animate(moves []Move, total time.Duration) error {
	capacity := an.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if len(moves) > capacity {
		return fmt.Errorf("%w: %d moves, capacity %d", ErrTooManyMoves, len(moves), capacity)
	}

	step := an.Step
	if step <= 0 {
		step = servo.RefreshPeriod
	}
	a, err := prepare(moves, total, step)
	if err != nil {
		return err
	}

	an.logger().Debug("animate", "moves", len(a.moves), "steps", a.steps, "duration", total)

	delay := an.Delay
	if delay == nil {
		delay = time.Sleep
	}
	for a.step < a.steps {
		a.advance()
		if an.OnStep != nil {
			an.OnStep(a.step, a.steps)
		}
		delay(step)
	}
	return nil
}

func prepare(moves []Move, total, step time.Duration) (*animation, error) {
	steps, err := StepCount(total, step)
	if err != nil {
		return nil, err
	}

	a := &animation{
		moves: make([]Move, len(moves)),
		steps: steps,
	}
	for i, m := range moves {
		if m.Actuator == nil {
			return nil, fmt.Errorf("move %d has no actuator", i)
		}
		for j := range i {
			if moves[j].Actuator == m.Actuator {
				return nil, fmt.Errorf("%w: moves %d and %d", ErrDuplicateActuator, j, i)
			}
		}
		delta, err := Plan(m.Actuator.Read(), m.Target, steps)
		if err != nil {
			return nil, err
		}
		m.delta = delta
		a.moves[i] = m
	}
	return a, nil
}

// advance writes one step for every move.
func (a *animation) advance() {
	a.step++
	last := a.step == a.steps
	for _, m := range a.moves {
		if last {
			// land exactly on the target rather than on accumulated float error
			m.Actuator.Write(m.Target)
			continue
		}
		m.Actuator.Write(servo.DegreesClamped(m.Actuator.Read().Degrees() + m.delta))
	}
}

func (an *Animator) logger() *slog.Logger {
	if an.Logger != nil {
		return an.Logger
	}
	return slog.Default()
}
