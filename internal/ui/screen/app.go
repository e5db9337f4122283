package screen

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/solana-launchpad/internal/events"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/router"
)

// NewApp builds the root model with the main menu at the bottom of the stack.
func NewApp(svc *ui.Services) *router.Router {
	return router.New(NewMainMenuScreen(svc), func(route ui.Route) router.Screen {
		switch route {
		case ui.RouteCreateToken:
			return NewTokenScreen(svc)
		case ui.RouteCreateMarket:
			return NewMarketScreen(svc)
		case ui.RouteCreatePool:
			return NewPoolScreen(svc)
		default:
			return nil
		}
	})
}

// Run starts the terminal UI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, svc *ui.Services, bus *events.Bus) error {
	if bus != nil {
		unsubscribe := ui.BridgeEvents(bus)
		defer unsubscribe()
	}

	program := tea.NewProgram(NewApp(svc), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
