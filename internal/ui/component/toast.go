package component

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

// ToastLevel selects the toast color.
type ToastLevel int

const (
	ToastSuccess ToastLevel = iota
	ToastError
)

const defaultToastTTL = 8 * time.Second

// toastExpiredMsg hides the toast with the given sequence number
type toastExpiredMsg struct{ seq int }

// Toast is a transient one-line notice. Each Show supersedes the previous one.
type Toast struct {
	level   ToastLevel
	title   string
	message string
	visible bool
	seq     int
	ttl     time.Duration

	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
}

func NewToast() *Toast {
	palette := style.DefaultPalette()
	base := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	return &Toast{
		ttl:          defaultToastTTL,
		successStyle: base.BorderForeground(palette.Success).Foreground(palette.Success),
		errorStyle:   base.BorderForeground(palette.Error).Foreground(palette.Error),
	}
}

// Show displays a toast and returns the command that hides it later.
func (t *Toast) Show(level ToastLevel, title, message string) tea.Cmd {
	t.seq++
	t.level = level
	t.title = title
	t.message = message
	t.visible = true

	seq := t.seq
	return tea.Tick(t.ttl, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// Update hides the toast once its timer fires.
func (t *Toast) Update(msg tea.Msg) {
	if expired, ok := msg.(toastExpiredMsg); ok && expired.seq == t.seq {
		t.visible = false
	}
}

func (t *Toast) Visible() bool {
	return t.visible
}

func (t *Toast) Level() ToastLevel {
	return t.level
}

func (t *Toast) View() string {
	if !t.visible {
		return ""
	}
	s := t.successStyle
	icon := "✔"
	if t.level == ToastError {
		s = t.errorStyle
		icon = "✖"
	}
	text := icon + " " + lipgloss.NewStyle().Bold(true).Render(t.title)
	if t.message != "" {
		text += "\n" + t.message
	}
	return s.Render(text)
}
