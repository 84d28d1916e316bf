//go:build tinygo

// Command allbot-firmware runs the VR408 gesture repertoire on a Raspberry
// Pi Pico with the eight servos on GP2-GP9.
package main

import (
	"context"
	"machine"
	"time"

	"github.com/gwillem/allbot/pkg/robot"
	"github.com/gwillem/allbot/pkg/tinypwm"
)

func main() {
	board := tinypwm.NewBoard(map[int]tinypwm.Output{
		1: {PWM: machine.PWM1, Pin: machine.GP2},
		2: {PWM: machine.PWM1, Pin: machine.GP3},
		3: {PWM: machine.PWM2, Pin: machine.GP4},
		4: {PWM: machine.PWM2, Pin: machine.GP5},
		5: {PWM: machine.PWM3, Pin: machine.GP6},
		6: {PWM: machine.PWM3, Pin: machine.GP7},
		7: {PWM: machine.PWM4, Pin: machine.GP8},
		8: {PWM: machine.PWM4, Pin: machine.GP9},
	})

	cal := robot.DefaultCalibration(robot.DefaultPulseMin, robot.DefaultPulseMax)
	body, err := robot.Assemble(cal, board)
	if err != nil {
		halt(err)
	}

	body.Init()
	time.Sleep(time.Second)

	// seeded from uptime
	next := robot.RandomSelector(uint64(time.Now().UnixNano()))
	if err := body.Dance(context.Background(), 0, next); err != nil {
		halt(err)
	}
}

// halt reports err over the serial console forever.
func halt(err error) {
	for {
		println("allbot:", err.Error())
		time.Sleep(2 * time.Second)
	}
}
