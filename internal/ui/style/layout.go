package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Screens narrower than this stack their panels.
const narrowWidth = 100

var palette = DefaultPalette()

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			MarginTop(1)

	SubHeaderStyle = lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			MarginBottom(1)

	// MenuPanelStyle frames the flow menu, ActivityPanelStyle the launch feed.
	MenuPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary).
			Padding(1, 2)

	ActivityPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.TextMuted).
				Padding(1, 2)
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(palette.Success).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(palette.Error).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(palette.Warning).Bold(true)
	InfoStyle    = lipgloss.NewStyle().Foreground(palette.Info)
	MutedStyle   = lipgloss.NewStyle().Foreground(palette.TextMuted)
)

// Launch states shown in the activity feed.
const (
	StatusStarted   = "started"
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)

// StatusIcon renders the marker of a launch state.
func StatusIcon(status string) string {
	switch status {
	case StatusConfirmed:
		return SuccessStyle.Render("✔")
	case StatusFailed:
		return ErrorStyle.Render("✖")
	default:
		return WarningStyle.Render("…")
	}
}

// FlowTitle renders a form title in the accent of flow.
func FlowTitle(flow string) lipgloss.Style {
	return TitleStyle.Foreground(palette.FlowAccent(flow))
}

// ResultPanel frames the addresses and signatures of a confirmed launch.
func ResultPanel(flow string) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(palette.FlowAccent(flow)).
		Padding(0, 1)
}

// Columns puts the blocks side by side, or stacks them on narrow screens.
func Columns(width int, blocks ...string) string {
	if width < narrowWidth {
		return lipgloss.JoinVertical(lipgloss.Left, blocks...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// FormWidth is the input width of a launch form on a screen of width.
func FormWidth(width int) int {
	if width < narrowWidth {
		return width - 4
	}
	return width * 60 / 100
}
