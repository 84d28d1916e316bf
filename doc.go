// Package allbot plays gestures on ALLBOT-style servo robots.
//
// A gesture is a list of timed phases. Every servo named in a phase starts
// and finishes its move together, whatever the distance it travels.
//
// # Installation
//
//	go install github.com/gwillem/allbot/cmd/allbot@latest
//
// # Usage
//
// First, run setup to find the servo bus and write allbot.json:
//
//	allbot setup
//
// Then start the show:
//
//	allbot play --tui
//
// Without a robot attached, simulated servos work too:
//
//	allbot play --sim --tui --random
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/allbot: CLI with setup, play and gestures commands
//   - cmd/allbot-firmware: TinyGo firmware for a Pico driving PWM servos
//   - pkg/servo: angles, calibration and channel bindings
//   - pkg/motion: step planning and the synchronized animator
//   - pkg/robot: body roles, gestures, repertoire and configuration
//   - pkg/servobus: Feetech serial bus servos as servo channels
//   - pkg/tinypwm: PWM pin servos as servo channels (TinyGo only)
//   - pkg/show: background gesture player for live views
package allbot
