package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/allbot/pkg/robot"
)

type GesturesCommand struct{}

func (c *GesturesCommand) Execute(args []string) error {
	headerCell := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	nameCell := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	gestures := robot.BuiltinGestures()
	rows := make([][]string, 0, len(gestures))
	for i, g := range gestures {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			g.Name,
			fmt.Sprintf("%d", len(g.Phases)),
			g.Duration().String(),
			g.Description,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("#", "Gesture", "Phases", "Duration", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCell
			case col == 1:
				return nameCell
			default:
				return cell
			}
		})

	fmt.Println(t.Render())
	return nil
}
