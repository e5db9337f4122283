package component

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

// HelpBar shows the keyboard shortcuts of the current screen
type HelpBar struct {
	model       help.Model
	keyBindings []key.Binding
	width       int

	containerStyle lipgloss.Style
}

// NewHelpBar creates a new help bar component
func NewHelpBar(bindings []key.Binding) *HelpBar {
	palette := style.DefaultPalette()

	model := help.New()
	model.ShortSeparator = " • "
	model.Styles.ShortKey = lipgloss.NewStyle().Foreground(palette.Primary).Bold(true)
	model.Styles.ShortDesc = lipgloss.NewStyle().Foreground(palette.TextMuted)
	model.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(palette.TextMuted)

	return &HelpBar{
		model:       model,
		keyBindings: bindings,
		width:       80,
		containerStyle: lipgloss.NewStyle().
			Padding(0, 1).
			Margin(1, 0, 0, 0),
	}
}

// SetWidth sets the help bar width
func (h *HelpBar) SetWidth(width int) *HelpBar {
	h.width = width
	// Account for padding
	h.model.Width = width - 2
	return h
}

// View renders the help bar
func (h *HelpBar) View() string {
	if len(h.keyBindings) == 0 {
		return ""
	}
	return h.containerStyle.Render(h.model.ShortHelpView(h.keyBindings))
}
