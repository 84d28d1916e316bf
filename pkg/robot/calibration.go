package robot

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/gwillem/allbot/pkg/servo"
)

// Control range of a hobby servo pulse in microseconds covering 0..180°.
const (
	DefaultPulseMin = 500
	DefaultPulseMax = 2500
)

// RoleCalibration holds calibration data for a single servo.
type RoleCalibration struct {
	ID       int    `json:"id"`
	Min      uint16 `json:"min"`
	Max      uint16 `json:"max"`
	Inverted bool   `json:"inverted,omitempty"`
}

// Servo returns the validated servo calibration.
func (c RoleCalibration) Servo() (servo.Calibration, error) {
	return servo.NewCalibration(c.Min, c.Max, c.Inverted)
}

// Calibration holds calibration data for all servos, keyed by role.
type Calibration map[RoleName]RoleCalibration

// DefaultCalibration returns the stock VR408 layout: IDs 1-8 in AllRoles
// order, the given control range, right-side servos inverted.
func DefaultCalibration(min, max uint16) Calibration {
	cal := make(Calibration, len(AllRoles()))
	for i, role := range AllRoles() {
		cal[role] = RoleCalibration{
			ID:       i + 1,
			Min:      min,
			Max:      max,
			Inverted: role.Mirrored(),
		}
	}
	return cal
}

// LoadCalibration loads calibration data from a JSON file.
func LoadCalibration(path string) (Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration file: %w", err)
	}

	var raw map[string]RoleCalibration
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse calibration JSON: %w", err)
	}

	cal := make(Calibration, len(raw))
	for name, rc := range raw {
		cal[RoleName(name)] = rc
	}

	return cal, nil
}

// Validate checks every role has a usable range and a unique servo ID.
func (c Calibration) Validate() error {
	seen := make(map[int]RoleName, len(c))
	for _, name := range c.Roles() {
		rc := c[name]
		if _, err := rc.Servo(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if other, dup := seen[rc.ID]; dup {
			return fmt.Errorf("%s and %s: %w: id %d", other, name, servo.ErrChannelAlreadyBound, rc.ID)
		}
		seen[rc.ID] = name
	}
	return nil
}

// Roles returns the calibrated roles, known roles first in AllRoles order.
func (c Calibration) Roles() []RoleName {
	roles := make([]RoleName, 0, len(c))
	known := make(map[RoleName]bool)
	for _, name := range AllRoles() {
		known[name] = true
		if _, ok := c[name]; ok {
			roles = append(roles, name)
		}
	}
	var extra []RoleName
	for name := range c {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(roles, extra...)
}

// IDs returns the servo IDs for all roles in the calibration.
func (c Calibration) IDs() []int {
	roles := c.Roles()
	ids := make([]int, 0, len(roles))
	for _, name := range roles {
		ids = append(ids, c[name].ID)
	}
	return ids
}

// ByID returns role name and calibration for a given servo ID.
func (c Calibration) ByID(id int) (RoleName, RoleCalibration, bool) {
	for name, rc := range c {
		if rc.ID == id {
			return name, rc, true
		}
	}
	return "", RoleCalibration{}, false
}
