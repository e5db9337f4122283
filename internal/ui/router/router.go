package router

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
)

// Screen represents a screen that can be navigated to
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Factory builds the screen for a route. A nil screen ignores the route.
type Factory func(route ui.Route) Screen

// Router manages navigation between screens using a stack-based approach
type Router struct {
	stack   []Screen
	factory Factory
	width   int
	height  int
}

// New creates a router with the initial screen on the stack
func New(initial Screen, factory Factory) *Router {
	return &Router{
		stack:   []Screen{initial},
		factory: factory,
	}
}

func (r *Router) Init() tea.Cmd {
	return tea.Batch(r.Current().Init(), ui.ListenBus())
}

// Update processes messages and updates the current screen
func (r *Router) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.RouterMsg:
		if msg.To == ui.RouteMainMenu {
			return r, r.Clear()
		}
		if r.factory == nil {
			return r, nil
		}
		if screen := r.factory(msg.To); screen != nil {
			return r, r.Push(screen)
		}
		return r, nil

	case tea.WindowSizeMsg:
		r.SetSize(msg.Width, msg.Height)
		return r, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return r, tea.Quit
		case "esc":
			if r.CanGoBack() {
				return r, r.Pop()
			}
		}

	case ui.ActivityMsg:
		// Bus messages reach every screen on the stack, then the bus is re-armed.
		var cmds []tea.Cmd
		for i, screen := range r.stack {
			updated, cmd := screen.Update(msg)
			r.stack[i] = updated
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, ui.ListenBus())
		return r, tea.Batch(cmds...)
	}

	current := len(r.stack) - 1
	updated, cmd := r.stack[current].Update(msg)
	r.stack[current] = updated
	return r, cmd
}

// View renders the current screen
func (r *Router) View() string {
	return r.Current().View()
}

// SetSize sets the size for the router and current screen
func (r *Router) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.Current().SetSize(width, height)
}

// Push adds a new screen to the navigation stack
func (r *Router) Push(screen Screen) tea.Cmd {
	screen.SetSize(r.width, r.height)
	r.stack = append(r.stack, screen)
	return screen.Init()
}

// Pop removes the current screen from the stack
func (r *Router) Pop() tea.Cmd {
	if !r.CanGoBack() {
		return nil
	}
	r.stack = r.stack[:len(r.stack)-1]
	r.Current().SetSize(r.width, r.height)
	return nil
}

// Clear removes all screens except the first one
func (r *Router) Clear() tea.Cmd {
	r.stack = r.stack[:1]
	r.Current().SetSize(r.width, r.height)
	return nil
}

// Current returns the current screen
func (r *Router) Current() Screen {
	return r.stack[len(r.stack)-1]
}

// Depth returns the current navigation depth
func (r *Router) Depth() int {
	return len(r.stack)
}

// CanGoBack returns true if there are screens to go back to
func (r *Router) CanGoBack() bool {
	return len(r.stack) > 1
}
