package robot

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gwillem/allbot/pkg/motion"
	"github.com/gwillem/allbot/pkg/servo"
)

// fakeActuator records every write.
type fakeActuator struct {
	angle  servo.Angle
	writes int
}

func (f *fakeActuator) Read() servo.Angle { return f.angle }

func (f *fakeActuator) Write(a servo.Angle) {
	f.angle = a
	f.writes++
}

func instantAnimator() *motion.Animator {
	an := motion.NewAnimator()
	an.Delay = func(time.Duration) {}
	return an
}

func simBody(t *testing.T, opts ...BodyOption) (*Body, *servo.SimBoard) {
	t.Helper()
	board := servo.NewSimBoard(1500)
	opts = append([]BodyOption{WithAnimator(instantAnimator())}, opts...)
	b, err := Assemble(DefaultCalibration(DefaultPulseMin, DefaultPulseMax), board, opts...)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	return b, board
}

func TestBody_Init(t *testing.T) {
	b, board := simBody(t)
	b.Init()

	for name, pos := range b.Positions() {
		if pos != Neutral {
			t.Errorf("%s at %g after Init, want %g", name, pos, Neutral)
		}
	}
	for id := 1; id <= 8; id++ {
		d, _ := board.Driver(id)
		writes := d.Writes()
		if len(writes) != 1 || writes[0] != 1500 {
			t.Errorf("servo %d writes = %v, want [1500]", id, writes)
		}
	}
}

func TestBody_PerformMirrorsRightSide(t *testing.T) {
	b, board := simBody(t)
	b.Init()

	if err := b.Perform("walk_forward"); err != nil {
		t.Fatalf("Perform failed: %v", err)
	}

	pos := b.Positions()
	want := map[RoleName]float64{
		HipFrontLeft:   Back,
		HipRearRight:   Back,
		HipFrontRight:  Forward,
		HipRearLeft:    Forward,
		KneeFrontLeft:  Neutral,
		KneeFrontRight: Neutral,
		KneeRearLeft:   Neutral,
		KneeRearRight:  Neutral,
	}
	for name, w := range want {
		if math.Abs(pos[name]-w) > 1e-9 {
			t.Errorf("%s = %g, want %g", name, pos[name], w)
		}
	}

	// logical 60 on the left and logical 120 on the mirrored right are the
	// same physical pulse
	left, _ := board.Driver(1)
	right, _ := board.Driver(2)
	if l, r := left.Get(), right.Get(); l != r {
		t.Errorf("hip_front_left pulse %d != hip_front_right pulse %d", l, r)
	}
}

func TestBody_PerformUnknownGesture(t *testing.T) {
	b, _ := simBody(t)
	if err := b.Perform("moonwalk"); !errors.Is(err, ErrGestureNotFound) {
		t.Errorf("Perform(moonwalk) error = %v, want ErrGestureNotFound", err)
	}
}

func TestBody_InvalidAngleWritesNothing(t *testing.T) {
	hip := &fakeActuator{angle: servo.MustDegrees(90)}
	bad := Gesture{
		Name: "bad",
		Phases: []Phase{
			phase(100, Target{Role: HipFrontLeft, Degrees: 45}),
			phase(100, Target{Role: HipFrontLeft, Degrees: 200}),
		},
	}

	b, err := NewBody(map[RoleName]servo.Actuator{HipFrontLeft: hip},
		WithAnimator(instantAnimator()), WithGestures(bad))
	if err != nil {
		t.Fatal(err)
	}

	err = b.Perform("bad")
	if !errors.Is(err, servo.ErrInvalidAngle) {
		t.Fatalf("Perform error = %v, want ErrInvalidAngle", err)
	}
	if hip.writes != 0 {
		t.Errorf("actuator got %d writes, want 0", hip.writes)
	}
}

func TestBody_TooManyMovesPropagates(t *testing.T) {
	actuators := make(map[RoleName]servo.Actuator)
	var targets []Target
	for i := 0; i < 9; i++ {
		role := RoleName("leg" + string(rune('a'+i)))
		actuators[role] = &fakeActuator{}
		targets = append(targets, Target{Role: role, Degrees: 10})
	}
	g := Gesture{Name: "all", Phases: []Phase{phase(100, targets...)}}

	b, err := NewBody(actuators, WithAnimator(instantAnimator()), WithGestures(g))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Perform("all"); !errors.Is(err, motion.ErrTooManyMoves) {
		t.Errorf("Perform error = %v, want ErrTooManyMoves", err)
	}
	for role, a := range actuators {
		if n := a.(*fakeActuator).writes; n != 0 {
			t.Errorf("%s got %d writes", role, n)
		}
	}
}

func TestNewBody_UnknownRole(t *testing.T) {
	_, err := NewBody(map[RoleName]servo.Actuator{HipFrontLeft: &fakeActuator{}})
	if !errors.Is(err, ErrUnknownRole) {
		t.Errorf("NewBody with builtin gestures and one role: error = %v, want ErrUnknownRole", err)
	}
}

func TestNewBody_DuplicateRoleInPhase(t *testing.T) {
	hip := &fakeActuator{angle: servo.MustDegrees(90)}
	g := Gesture{
		Name: "twitch",
		Phases: []Phase{
			phase(100, Target{Role: HipFrontLeft, Degrees: 180}, Target{Role: HipFrontLeft, Degrees: 0}),
		},
	}

	_, err := NewBody(map[RoleName]servo.Actuator{HipFrontLeft: hip},
		WithAnimator(instantAnimator()), WithGestures(g))
	if !errors.Is(err, ErrDuplicateRole) {
		t.Fatalf("NewBody error = %v, want ErrDuplicateRole", err)
	}
	if hip.writes != 0 {
		t.Errorf("actuator got %d writes, want 0", hip.writes)
	}
}

func TestBody_CompileRejectsDuplicateRole(t *testing.T) {
	hip := &fakeActuator{angle: servo.MustDegrees(90)}
	b, err := NewBody(map[RoleName]servo.Actuator{HipFrontLeft: hip}, WithGestures())
	if err != nil {
		t.Fatal(err)
	}

	g := Gesture{
		Name: "twitch",
		Phases: []Phase{
			phase(100, Target{Role: HipFrontLeft, Degrees: 45}),
			phase(100, set(0, HipFrontLeft, HipFrontLeft)...),
		},
	}
	if _, err := b.compile(g); !errors.Is(err, ErrDuplicateRole) {
		t.Errorf("compile error = %v, want ErrDuplicateRole", err)
	}
}

func TestBody_GesturesAreCopied(t *testing.T) {
	hip := &fakeActuator{angle: servo.MustDegrees(90)}
	g := Gesture{
		Name:   "nod",
		Phases: []Phase{phase(100, Target{Role: HipFrontLeft, Degrees: 45})},
	}
	b, err := NewBody(map[RoleName]servo.Actuator{HipFrontLeft: hip},
		WithAnimator(instantAnimator()), WithGestures(g))
	if err != nil {
		t.Fatal(err)
	}

	// neither the registered value nor a returned copy may reach the body
	g.Phases[0].Targets[0].Role = KneeRearRight
	got, err := b.Gesture("nod")
	if err != nil {
		t.Fatal(err)
	}
	if got.Phases[0].Targets[0].Role != HipFrontLeft {
		t.Fatalf("registered gesture changed to %s", got.Phases[0].Targets[0].Role)
	}
	got.Phases[0].Targets[0].Degrees = 200

	if err := b.Perform("nod"); err != nil {
		t.Fatalf("Perform failed: %v", err)
	}
	if deg := hip.Read().Degrees(); deg != 45 {
		t.Errorf("hip at %g, want 45", deg)
	}
}

func TestNewBody_ChainsAnimatorHook(t *testing.T) {
	an := instantAnimator()
	var hooked, observed int
	an.OnStep = func(step, steps int) { hooked++ }

	hip := &fakeActuator{angle: servo.MustDegrees(90)}
	g := Gesture{Name: "nod", Phases: []Phase{phase(100, Target{Role: HipFrontLeft, Degrees: 45})}}
	b, err := NewBody(map[RoleName]servo.Actuator{HipFrontLeft: hip},
		WithAnimator(an), WithGestures(g), WithObserver(func(Snapshot) { observed++ }))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Perform("nod"); err != nil {
		t.Fatal(err)
	}
	if hooked != 5 || observed != 5 {
		t.Errorf("hook ran %d times, observer %d, want 5 each", hooked, observed)
	}
}

func TestNewBody_Empty(t *testing.T) {
	if _, err := NewBody(nil); !errors.Is(err, ErrNoActuators) {
		t.Errorf("NewBody(nil) error = %v, want ErrNoActuators", err)
	}
}

func TestNewBody_InvalidNeutral(t *testing.T) {
	_, err := NewBody(map[RoleName]servo.Actuator{HipFrontLeft: &fakeActuator{}},
		WithGestures(), WithNeutral(-5))
	if !errors.Is(err, servo.ErrInvalidAngle) {
		t.Errorf("WithNeutral(-5) error = %v, want ErrInvalidAngle", err)
	}
}

func TestAssemble_BoardReuse(t *testing.T) {
	board := servo.NewSimBoard(1500)
	cal := DefaultCalibration(DefaultPulseMin, DefaultPulseMax)
	if _, err := Assemble(cal, board); err != nil {
		t.Fatal(err)
	}
	_, err := Assemble(cal, board)
	if !errors.Is(err, servo.ErrChannelAlreadyBound) {
		t.Errorf("second Assemble error = %v, want ErrChannelAlreadyBound", err)
	}
}

func TestBuiltinGestures_Playable(t *testing.T) {
	var steps int
	b, _ := simBody(t, WithObserver(func(Snapshot) { steps++ }))
	b.Init()

	for _, g := range BuiltinGestures() {
		for i, p := range g.Phases {
			if len(p.Targets) > motion.DefaultCapacity {
				t.Errorf("%s phase %d moves %d servos", g.Name, i, len(p.Targets))
			}
		}
		if err := b.Perform(g.Name); err != nil {
			t.Errorf("Perform(%s) failed: %v", g.Name, err)
		}
	}
	if steps == 0 {
		t.Error("observer never called")
	}
}

func TestBody_ObserverSnapshot(t *testing.T) {
	var snaps []Snapshot
	b, _ := simBody(t, WithObserver(func(s Snapshot) { snaps = append(snaps, s) }))
	b.Init()

	if err := b.Perform("lean_left"); err != nil {
		t.Fatal(err)
	}

	// 300ms + 300ms at 20ms per step
	if len(snaps) != 30 {
		t.Fatalf("got %d snapshots, want 30", len(snaps))
	}
	first, last := snaps[0], snaps[len(snaps)-1]
	if first.Gesture != "lean_left" || first.Phase != 0 || first.Step != 1 || first.Steps != 15 {
		t.Errorf("first snapshot = %+v", first)
	}
	if last.Phase != 1 || last.Step != 15 {
		t.Errorf("last snapshot = %+v", last)
	}
	if math.Abs(last.Positions[KneeFrontLeft]-Neutral) > 1e-9 {
		t.Errorf("knee_front_left = %g at the end, want %g", last.Positions[KneeFrontLeft], Neutral)
	}
}

func TestBody_DanceSequential(t *testing.T) {
	var played []string
	b, _ := simBody(t, WithObserver(func(s Snapshot) {
		if len(played) == 0 || played[len(played)-1] != s.Gesture {
			played = append(played, s.Gesture)
		}
	}))

	if err := b.Dance(context.Background(), 3, SequentialSelector()); err != nil {
		t.Fatal(err)
	}

	rep := b.Repertoire()
	want := []string{rep[0], rep[1], rep[2]}
	if len(played) != len(want) {
		t.Fatalf("played %v, want %v", played, want)
	}
	for i := range want {
		if played[i] != want[i] {
			t.Errorf("played[%d] = %s, want %s", i, played[i], want[i])
		}
	}
}

func TestBody_DanceCancelled(t *testing.T) {
	b, board := simBody(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := b.Dance(ctx, 0, SequentialSelector()); !errors.Is(err, context.Canceled) {
		t.Errorf("Dance error = %v, want context.Canceled", err)
	}
	d, _ := board.Driver(1)
	if len(d.Writes()) != 0 {
		t.Error("cancelled dance wrote to a servo")
	}
}
