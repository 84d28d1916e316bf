package motion

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gwillem/allbot/pkg/servo"
)

const epsilon = 1e-9

// fakeActuator records every write.
type fakeActuator struct {
	angle  servo.Angle
	writes []float64
}

func newFake(deg float64) *fakeActuator {
	return &fakeActuator{angle: servo.MustDegrees(deg)}
}

func (f *fakeActuator) Read() servo.Angle { return f.angle }

func (f *fakeActuator) Write(a servo.Angle) {
	f.angle = a
	f.writes = append(f.writes, a.Degrees())
}

// countingDelay replaces time.Sleep and counts steps.
type countingDelay struct {
	calls int
	total time.Duration
}

func (c *countingDelay) delay(d time.Duration) {
	c.calls++
	c.total += d
}

func newTestAnimator(c *countingDelay) *Animator {
	an := NewAnimator()
	an.Delay = c.delay
	return an
}

func TestAnimate_Synchronized(t *testing.T) {
	a, b := newFake(90), newFake(60)
	untouched := newFake(120)
	clock := &countingDelay{}
	an := newTestAnimator(clock)

	moves := []Move{
		{Actuator: a, Target: servo.MustDegrees(45)},
		{Actuator: b, Target: servo.MustDegrees(45)},
	}
	if err := an.Animate(moves, 2000*time.Millisecond); err != nil {
		t.Fatalf("Animate failed: %v", err)
	}

	if clock.calls != 100 {
		t.Errorf("delay called %d times, want 100", clock.calls)
	}
	if clock.total != 2*time.Second {
		t.Errorf("total delay = %v, want 2s", clock.total)
	}

	for name, f := range map[string]*fakeActuator{"A": a, "B": b} {
		if len(f.writes) != 100 {
			t.Fatalf("%s: %d writes, want 100", name, len(f.writes))
		}
		if got := f.Read().Degrees(); math.Abs(got-45) > epsilon {
			t.Errorf("%s: final angle %g, want 45", name, got)
		}
		// the target is reached on the last step and not before
		for i, w := range f.writes[:99] {
			if math.Abs(w-45) <= epsilon {
				t.Errorf("%s: reached target early at step %d", name, i+1)
				break
			}
		}
	}

	if len(untouched.writes) != 0 {
		t.Errorf("actuator outside the animation got %d writes", len(untouched.writes))
	}
}

func TestAnimate_ProportionalSpeed(t *testing.T) {
	a, b := newFake(90), newFake(60)
	an := newTestAnimator(&countingDelay{})

	moves := []Move{
		{Actuator: a, Target: servo.MustDegrees(45)},
		{Actuator: b, Target: servo.MustDegrees(45)},
	}
	if err := an.Animate(moves, 2*time.Second); err != nil {
		t.Fatal(err)
	}

	if math.Abs(a.writes[0]-89.55) > epsilon {
		t.Errorf("A first step = %g, want 89.55", a.writes[0])
	}
	if math.Abs(b.writes[0]-59.85) > epsilon {
		t.Errorf("B first step = %g, want 59.85", b.writes[0])
	}
	if math.Abs(a.writes[49]-67.5) > 1e-6 {
		t.Errorf("A halfway = %g, want 67.5", a.writes[49])
	}
}

func TestAnimate_TooManyMoves(t *testing.T) {
	clock := &countingDelay{}
	an := newTestAnimator(clock)

	var fakes []*fakeActuator
	var moves []Move
	for i := 0; i < 9; i++ {
		f := newFake(90)
		fakes = append(fakes, f)
		moves = append(moves, Move{Actuator: f, Target: servo.MustDegrees(0)})
	}

	err := an.Animate(moves, time.Second)
	if !errors.Is(err, ErrTooManyMoves) {
		t.Fatalf("Animate error = %v, want ErrTooManyMoves", err)
	}
	for i, f := range fakes {
		if len(f.writes) != 0 {
			t.Errorf("actuator %d got %d writes", i, len(f.writes))
		}
	}
	if clock.calls != 0 {
		t.Errorf("delay called %d times, want 0", clock.calls)
	}
}

func TestAnimate_DuplicateActuator(t *testing.T) {
	f, other := newFake(90), newFake(90)
	clock := &countingDelay{}
	an := newTestAnimator(clock)
	moves := []Move{
		{Actuator: f, Target: servo.MustDegrees(180)},
		{Actuator: other, Target: servo.MustDegrees(0)},
		{Actuator: f, Target: servo.MustDegrees(0)},
	}

	err := an.Animate(moves, 100*time.Millisecond)
	if !errors.Is(err, ErrDuplicateActuator) {
		t.Fatalf("Animate error = %v, want ErrDuplicateActuator", err)
	}
	if len(f.writes) != 0 || len(other.writes) != 0 || clock.calls != 0 {
		t.Errorf("writes=%d,%d delays=%d, want none", len(f.writes), len(other.writes), clock.calls)
	}
}

func TestAnimate_AtCapacity(t *testing.T) {
	an := newTestAnimator(&countingDelay{})
	var moves []Move
	for i := 0; i < DefaultCapacity; i++ {
		moves = append(moves, Move{Actuator: newFake(0), Target: servo.MustDegrees(180)})
	}
	if err := an.Animate(moves, 100*time.Millisecond); err != nil {
		t.Fatalf("Animate with %d moves failed: %v", DefaultCapacity, err)
	}
}

func TestAnimate_InvalidDuration(t *testing.T) {
	f := newFake(10)
	clock := &countingDelay{}
	an := newTestAnimator(clock)

	err := an.Animate([]Move{{Actuator: f, Target: servo.MustDegrees(20)}}, 10*time.Millisecond)
	if !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("Animate error = %v, want ErrInvalidDuration", err)
	}
	if len(f.writes) != 0 || clock.calls != 0 {
		t.Errorf("writes=%d delays=%d, want none", len(f.writes), clock.calls)
	}
}

func TestAnimate_ReadsCurrentPosition(t *testing.T) {
	f := newFake(0)
	an := newTestAnimator(&countingDelay{})

	// a write between planning calls must be honoured by the next plan
	f.Write(servo.MustDegrees(100))
	f.writes = nil

	if err := an.Animate([]Move{{Actuator: f, Target: servo.MustDegrees(110)}}, 200*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if math.Abs(f.writes[0]-101) > epsilon {
		t.Errorf("first step = %g, want 101", f.writes[0])
	}
}

func TestAnimate_OnStep(t *testing.T) {
	an := newTestAnimator(&countingDelay{})
	var seen []int
	an.OnStep = func(step, steps int) {
		if steps != 5 {
			t.Errorf("steps = %d, want 5", steps)
		}
		seen = append(seen, step)
	}

	if err := an.Animate([]Move{{Actuator: newFake(0), Target: servo.MustDegrees(50)}}, 100*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 5 || seen[0] != 1 || seen[4] != 5 {
		t.Errorf("OnStep saw %v, want [1 2 3 4 5]", seen)
	}
}

func TestAnimate_WithBinding(t *testing.T) {
	board := servo.NewSimBoard(1500)
	ch, _ := board.Channel(1)
	b, err := servo.Bind(ch, servo.Calibration{Min: 500, Max: 2500})
	if err != nil {
		t.Fatal(err)
	}

	an := newTestAnimator(&countingDelay{})
	if err := an.Animate([]Move{{Actuator: b, Target: servo.MustDegrees(180)}}, 400*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	d, _ := board.Driver(1)
	writes := d.Writes()
	if len(writes) != 20 {
		t.Fatalf("%d control writes, want 20", len(writes))
	}
	if writes[len(writes)-1] != 2500 {
		t.Errorf("last control value = %d, want 2500", writes[len(writes)-1])
	}
}

func TestTo(t *testing.T) {
	if _, err := To(newFake(0), 181); !errors.Is(err, servo.ErrInvalidAngle) {
		t.Errorf("To(181) error = %v, want ErrInvalidAngle", err)
	}
	m, err := To(newFake(0), 30)
	if err != nil || m.Target.Degrees() != 30 {
		t.Errorf("To(30) = %v, %v", m.Target, err)
	}
}
