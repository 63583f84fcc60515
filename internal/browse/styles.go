package browse

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/epdwave/internal/ui"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ui.PrimaryColor).
			Bold(true).
			PaddingLeft(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(ui.MutedColor).
			Italic(true).
			PaddingLeft(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(ui.ErrorColor).
			Bold(true).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ErrorColor)

	helpStyle = lipgloss.NewStyle().
			Padding(1, 0, 0, 1)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.MutedColor).
		BorderBottom(true).
		Bold(true).
		Foreground(ui.PrimaryColor)
	s.Selected = s.Selected.
		Foreground(ui.TextColor).
		Background(ui.PrimaryColor).
		Bold(true)
	return s
}
