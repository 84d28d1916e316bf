package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.bug.st/serial"

	"github.com/gwillem/allbot/internal/log"
	"github.com/gwillem/allbot/pkg/robot"
	"github.com/gwillem/allbot/pkg/servobus"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// STS servos cover 360° in 4096 steps, so the defaults map 0..180° onto
// the middle half of the range.
type SetupCommand struct {
	Min uint16 `long:"min" default:"1024" description:"Control value at 0 degrees"`
	Max uint16 `long:"max" default:"3072" description:"Control value at 180 degrees"`
}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("allbot setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━"))
	fmt.Println()

	fmt.Println("Scanning serial ports for a VR408 servo bus...")
	buses := findBuses()
	if len(buses) == 0 {
		fmt.Println("No servo bus with IDs 1-8 found.")
		fmt.Println("Make sure the robot is connected and powered on.")
		os.Exit(1)
	}

	port := buses[0]
	if len(buses) > 1 {
		var options []huh.Option[string]
		for _, p := range buses {
			options = append(options, huh.NewOption(p, p))
		}
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which port is the robot on?").
				Options(options...).
				Value(&port),
		))
		if err := form.Run(); err != nil {
			fmt.Println()
			os.Exit(0)
		}
	}

	mirror := true
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Are the right-side servos mounted mirrored?").
			Description("The stock VR408 build mounts them mirrored").
			Affirmative("Yes").
			Negative("No").
			Value(&mirror),
	))
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}

	cal := robot.DefaultCalibration(c.Min, c.Max)
	if !mirror {
		for name, rc := range cal {
			rc.Inverted = false
			cal[name] = rc
		}
	}
	if err := cal.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid calibration: %v\n", err)
		os.Exit(1)
	}

	cfg := &robot.Config{Port: port, Calibration: cal}
	if err := cfg.SaveTo(opts.Config); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", opts.Config)
	fmt.Println()
	fmt.Println("Start the show with: " + headerStyle.Render("allbot play --tui"))
	return nil
}

// findBuses returns the serial ports with servos 1-8 answering.
func findBuses() []string {
	ports, err := serial.GetPortsList()
	if err != nil {
		log.Error("list ports", "err", err)
		return nil
	}

	var found []string
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}

		bus, err := servobus.Open(servobus.Config{Port: port, Logger: log.L()})
		if err != nil {
			log.Debug("skip port", "port", port, "err", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		ids, err := bus.Scan(ctx, len(robot.AllRoles()))
		cancel()
		bus.Close()

		if err != nil {
			log.Debug("scan failed", "port", port, "err", err)
			continue
		}
		if isVR408(ids) {
			fmt.Printf("  Found servos 1-8 on %s\n", port)
			found = append(found, port)
		}
	}
	return found
}

func isVR408(ids []int) bool {
	if len(ids) != len(robot.AllRoles()) {
		return false
	}
	for i := 1; i <= len(robot.AllRoles()); i++ {
		if !slices.Contains(ids, i) {
			return false
		}
	}
	return true
}
