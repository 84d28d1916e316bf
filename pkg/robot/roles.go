// Package robot models an ALLBOT-style articulated body: named servo roles,
// their calibration, and a repertoire of gestures played through them.
package robot

// RoleName identifies a servo by its place in the body.
type RoleName string

// Roles of the VR408 quadruped.
const (
	HipFrontLeft   RoleName = "hip_front_left"
	HipFrontRight  RoleName = "hip_front_right"
	HipRearLeft    RoleName = "hip_rear_left"
	HipRearRight   RoleName = "hip_rear_right"
	KneeFrontLeft  RoleName = "knee_front_left"
	KneeFrontRight RoleName = "knee_front_right"
	KneeRearLeft   RoleName = "knee_rear_left"
	KneeRearRight  RoleName = "knee_rear_right"
)

// AllRoles returns all role names in order (matching servo IDs 1-8).
func AllRoles() []RoleName {
	return []RoleName{
		HipFrontLeft,
		HipFrontRight,
		HipRearLeft,
		HipRearRight,
		KneeFrontLeft,
		KneeFrontRight,
		KneeRearLeft,
		KneeRearRight,
	}
}

// Mirrored reports whether the role sits on the right side of the body.
// Right-side servos are mounted mirrored, so their calibration is inverted
// and gestures can use the same logical angle on both sides.
func (r RoleName) Mirrored() bool {
	switch r {
	case HipFrontRight, HipRearRight, KneeFrontRight, KneeRearRight:
		return true
	}
	return false
}
