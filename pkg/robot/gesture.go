package robot

import (
	"slices"
	"time"
)

// Target is one role's logical angle within a phase.
// Mirrored roles take the same logical angle as their left-side twin.
type Target struct {
	Role    RoleName
	Degrees float64
}

// Phase is one synchronized move: every target is reached at the same time.
type Phase struct {
	Duration time.Duration
	Targets  []Target
}

// Gesture is a named, ordered list of phases.
type Gesture struct {
	Name        string
	Description string
	Phases      []Phase
}

// Duration returns the total playback time of g.
func (g Gesture) Duration() time.Duration {
	var d time.Duration
	for _, p := range g.Phases {
		d += p.Duration
	}
	return d
}

// Roles returns every role g moves, in first-use order.
func (g Gesture) Roles() []RoleName {
	var roles []RoleName
	seen := make(map[RoleName]bool)
	for _, p := range g.Phases {
		for _, t := range p.Targets {
			if !seen[t.Role] {
				seen[t.Role] = true
				roles = append(roles, t.Role)
			}
		}
	}
	return roles
}

// clone returns a copy of g sharing no slices with it.
func (g Gesture) clone() Gesture {
	phases := make([]Phase, len(g.Phases))
	for i, p := range g.Phases {
		phases[i] = Phase{Duration: p.Duration, Targets: slices.Clone(p.Targets)}
	}
	g.Phases = phases
	return g
}

func phase(ms int, targets ...Target) Phase {
	return Phase{Duration: time.Duration(ms) * time.Millisecond, Targets: targets}
}

func set(deg float64, roles ...RoleName) []Target {
	ts := make([]Target, len(roles))
	for i, r := range roles {
		ts[i] = Target{Role: r, Degrees: deg}
	}
	return ts
}

func join(groups ...[]Target) []Target {
	var out []Target
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Logical angles for the VR408. Hips swing forward above Neutral; knees lift
// the foot above Neutral, which lowers that corner of the body.
const (
	Neutral = 90.0
	Lift    = 130.0
	Forward = 120.0
	Back    = 60.0
	Crouch  = 40.0
	Dip     = 120.0
	Rise    = 60.0
)

var (
	frontLeftRearRight = []RoleName{HipFrontLeft, HipRearRight}
	frontRightRearLeft = []RoleName{HipFrontRight, HipRearLeft}
	kneesFLRR          = []RoleName{KneeFrontLeft, KneeRearRight}
	kneesFRRL          = []RoleName{KneeFrontRight, KneeRearLeft}
	leftHips           = []RoleName{HipFrontLeft, HipRearLeft}
	rightHips          = []RoleName{HipFrontRight, HipRearRight}
	allHips            = []RoleName{HipFrontLeft, HipFrontRight, HipRearLeft, HipRearRight}
	allKnees           = []RoleName{KneeFrontLeft, KneeFrontRight, KneeRearLeft, KneeRearRight}
	frontKnees         = []RoleName{KneeFrontLeft, KneeFrontRight}
	rearKnees          = []RoleName{KneeRearLeft, KneeRearRight}
	leftKnees          = []RoleName{KneeFrontLeft, KneeRearLeft}
	rightKnees         = []RoleName{KneeFrontRight, KneeRearRight}
)

// trot returns a diagonal-gait cycle swinging hips to swing and pushing the
// other pair to push.
func trot(swing, push float64) []Phase {
	return []Phase{
		phase(150, set(Lift, kneesFLRR...)...),
		phase(200, join(set(swing, frontLeftRearRight...), set(push, frontRightRearLeft...))...),
		phase(150, set(Neutral, kneesFLRR...)...),
		phase(150, set(Lift, kneesFRRL...)...),
		phase(200, join(set(swing, frontRightRearLeft...), set(push, frontLeftRearRight...))...),
		phase(150, set(Neutral, kneesFRRL...)...),
	}
}

// turn steps diagonal pairs with left and right hips driven apart.
func turn(left, right float64) []Phase {
	return []Phase{
		phase(150, set(Lift, kneesFLRR...)...),
		phase(200, join(set(left, HipFrontLeft), set(right, HipRearRight))...),
		phase(150, set(Neutral, kneesFLRR...)...),
		phase(150, set(Lift, kneesFRRL...)...),
		phase(200, join(set(right, HipFrontRight), set(left, HipRearLeft))...),
		phase(150, set(Neutral, kneesFRRL...)...),
		phase(200, set(Neutral, allHips...)...),
	}
}

func lean(down, up []RoleName) []Phase {
	return []Phase{
		phase(300, join(set(Dip, down...), set(Rise, up...))...),
		phase(300, join(set(Neutral, down...), set(Neutral, up...))...),
	}
}

func look(left, right float64) []Phase {
	return []Phase{
		phase(300, join(set(left, leftHips...), set(right, rightHips...))...),
		phase(200),
		phase(300, set(Neutral, allHips...)...),
	}
}

func wave(hip, knee RoleName) []Phase {
	return []Phase{
		phase(200, set(160, knee)...),
		phase(200, set(Back, hip)...),
		phase(200, set(Forward, hip)...),
		phase(200, set(Back, hip)...),
		phase(200, set(Forward, hip)...),
		phase(200, set(Neutral, hip)...),
		phase(200, set(Neutral, knee)...),
	}
}

// BuiltinGestures returns the stock VR408 repertoire in its canonical order.
func BuiltinGestures() []Gesture {
	scared := []Phase{
		phase(100, set(Crouch, allKnees...)...),
		phase(100, set(80, allHips...)...),
		phase(100, set(100, allHips...)...),
		phase(100, set(80, allHips...)...),
		phase(100, set(100, allHips...)...),
		phase(400, join(set(Neutral, allHips...), set(Neutral, allKnees...))...),
	}

	return []Gesture{
		{Name: "walk_forward", Description: "One diagonal-gait stride forward", Phases: trot(Forward, Back)},
		{Name: "walk_backward", Description: "One diagonal-gait stride backward", Phases: trot(Back, Forward)},
		{Name: "turn_left", Description: "Rotate counter-clockwise in place", Phases: turn(Back, Forward)},
		{Name: "turn_right", Description: "Rotate clockwise in place", Phases: turn(Forward, Back)},
		{Name: "lean_forward", Description: "Dip the front, raise the rear", Phases: lean(frontKnees, rearKnees)},
		{Name: "lean_backward", Description: "Dip the rear, raise the front", Phases: lean(rearKnees, frontKnees)},
		{Name: "lean_left", Description: "Dip the left side", Phases: lean(leftKnees, rightKnees)},
		{Name: "lean_right", Description: "Dip the right side", Phases: lean(rightKnees, leftKnees)},
		{Name: "look_left", Description: "Twist the body left without stepping", Phases: look(Forward, Back)},
		{Name: "look_right", Description: "Twist the body right without stepping", Phases: look(Back, Forward)},
		{Name: "wave_front_left", Description: "Raise and wave the front left leg", Phases: wave(HipFrontLeft, KneeFrontLeft)},
		{Name: "wave_front_right", Description: "Raise and wave the front right leg", Phases: wave(HipFrontRight, KneeFrontRight)},
		{Name: "scared", Description: "Crouch and tremble", Phases: scared},
	}
}
