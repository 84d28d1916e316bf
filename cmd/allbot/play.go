package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/allbot/internal/log"
	"github.com/gwillem/allbot/pkg/robot"
	"github.com/gwillem/allbot/pkg/servo"
	"github.com/gwillem/allbot/pkg/servobus"
	"github.com/gwillem/allbot/pkg/show"
)

type PlayCommand struct {
	Gesture string `long:"gesture" short:"g" description:"Play only this gesture"`
	Count   int    `long:"count" short:"n" default:"0" description:"Number of gestures to play (0 = until stopped)"`
	Random  bool   `long:"random" description:"Pick gestures at random instead of in order"`
	Seed    uint64 `long:"seed" default:"408" description:"Seed for --random"`
	Sim     bool   `long:"sim" description:"Drive simulated servos instead of the serial bus"`
	TUI     bool   `long:"tui" description:"Show a live chart of servo angles"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Role colors - left side warm, right side cool
var roleColors = map[robot.RoleName]string{
	robot.HipFrontLeft:   "196", // red
	robot.HipFrontRight:  "51",  // cyan
	robot.HipRearLeft:    "208", // orange
	robot.HipRearRight:   "33",  // blue
	robot.KneeFrontLeft:  "226", // yellow
	robot.KneeFrontRight: "46",  // green
	robot.KneeRearLeft:   "201", // magenta
	robot.KneeRearRight:  "141", // purple
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type playModel struct {
	ctrl     *show.Controller
	chart    *streamlinechart.Model
	width    int // terminal width
	height   int // terminal height
	logs     []string
	state    show.State
	source   string
	quitting bool
}

func (m *playModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the controller
type stateMsg show.State
type logMsg string

func waitForState(ctrl *show.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *show.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *playModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20
	}
	width = max(m.width-borderSize-2, 40)
	height = max(m.height-headerHeight-legendHeight-footerHeight-borderSize, 10)
	return width, height
}

func initialPlayModel(ctrl *show.Controller, source string) playModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(servo.MinAngle, servo.MaxAngle),
	)

	for _, name := range ctrl.Body().Roles() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(roleColor(name)))
		chart.SetDataSetStyles(string(name), runes.ThinLineStyle, style)
	}

	return playModel{
		ctrl:   ctrl,
		chart:  &chart,
		source: source,
	}
}

func roleColor(name robot.RoleName) string {
	if c, ok := roleColors[name]; ok {
		return c
	}
	return "250"
}

func (m playModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.chartSize()
		m.chart.Resize(w, h)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case stateMsg:
		state := show.State(msg)
		if state.Done {
			m.quitting = true
			return m, tea.Quit
		}
		for name, pos := range state.Positions {
			m.chart.PushDataSet(string(name), pos)
		}
		m.chart.DrawAll()
		m.state = state
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m playModel) View() string {
	if m.quitting {
		return "Show stopped.\n"
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("allbot"))
	sb.WriteString(" - " + m.source)
	if m.state.Gesture != "" {
		sb.WriteString(fmt.Sprintf(" - %s phase %d step %d/%d",
			m.state.Gesture, m.state.Phase+1, m.state.Step, m.state.Steps))
	}
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	sb.WriteString(renderLegend(m.ctrl.Body().Roles()))
	sb.WriteString("\n")

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(max(m.width-4, 20))

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend(roles []robot.RoleName) string {
	var items []string
	for _, name := range roles {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(roleColor(name))).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+string(name))
	}
	return strings.Join(items, "  ")
}

func (c *PlayCommand) Execute(args []string) error {
	cfg, err := loadPlayConfig(opts.Config, c.Sim)
	if err != nil {
		fmt.Fprintln(os.Stderr, "No configuration found. Run 'allbot setup' first, or use --sim.")
		os.Exit(1)
	}
	if !cfg.IsCalibrated() {
		fmt.Fprintln(os.Stderr, "Robot not calibrated. Run 'allbot setup' first.")
		os.Exit(1)
	}

	logger := log.L()
	if c.TUI {
		// slog output would tear the alt screen
		logger = log.Discard()
	}

	src, name, err := c.openSource(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return c.run(cfg, src, name, logger)
}

// showSource is a channel source that must be released after the show.
type showSource interface {
	robot.ChannelSource
	Close() error
}

type simSource struct {
	*servo.SimBoard
}

func (simSource) Close() error { return nil }

func (c *PlayCommand) openSource(cfg *robot.Config, logger *slog.Logger) (showSource, string, error) {
	if c.Sim {
		return simSource{servo.NewSimBoard(1500)}, "simulated", nil
	}
	if cfg.Port == "" {
		return nil, "", errors.New("no serial port configured, run 'allbot setup' first")
	}
	bus, err := servobus.Open(servobus.Config{Port: cfg.Port, Logger: logger})
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", cfg.Port, err)
	}
	return bus, cfg.Port, nil
}

// run plays the show on src and closes src on every return path, so servos
// bound before a failure are released too.
func (c *PlayCommand) run(cfg *robot.Config, src showSource, name string, logger *slog.Logger) error {
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warn("close servos", "err", err)
		}
	}()

	selector := robot.SequentialSelector()
	if c.Random {
		selector = robot.RandomSelector(c.Seed)
	}

	ctrl, err := show.NewController(show.Config{
		Calibration: cfg.Calibration,
		Source:      src,
		Animator:    cfg.Animator(),
		Gesture:     c.Gesture,
		Count:       c.Count,
		Selector:    selector,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("create controller: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if !c.TUI {
		// The controller logs through slog, so the channels are only drained
		go drain(ctrl.States())
		go drain(ctrl.Logs())
		if err := ctrl.Start(ctx); err != nil && !isStop(err) {
			return err
		}
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- ctrl.Start(ctx)
	}()

	p := tea.NewProgram(initialPlayModel(ctrl, name), tea.WithAltScreen())
	_, tuiErr := p.Run()
	// Let the gesture in progress finish before the servos are released
	cancel()
	if err := <-done; err != nil && !isStop(err) {
		return err
	}
	if tuiErr != nil {
		return fmt.Errorf("run tui: %w", tuiErr)
	}
	return nil
}

func drain[T any](ch <-chan T) {
	for range ch {
	}
}

// loadPlayConfig reads the config file. Simulated runs fall back to the stock
// calibration when no file exists.
func loadPlayConfig(path string, sim bool) (*robot.Config, error) {
	cfg, err := robot.LoadConfigFrom(path)
	if err == nil {
		return cfg, nil
	}
	if sim && errors.Is(err, os.ErrNotExist) {
		return &robot.Config{Calibration: robot.DefaultCalibration(robot.DefaultPulseMin, robot.DefaultPulseMax)}, nil
	}
	return nil, err
}

func isStop(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
