package screen

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/solana-launchpad/internal/events"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage/memory"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage/models"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

func TestMainMenuNavigation(t *testing.T) {
	svc, _ := newServices(t)
	m := NewMainMenuScreen(svc)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, ui.RouteCreateMarket, m.SelectedRoute())
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, ui.RouteCreatePool, m.SelectedRoute(), "selection wraps")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ui.RouterMsg{To: ui.RouteCreatePool}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	require.NotNil(t, cmd)
	assert.Equal(t, ui.RouterMsg{To: ui.RouteCreateToken}, cmd())
}

func TestMainMenuActivity(t *testing.T) {
	svc, _ := newServices(t)
	store := memory.NewStorage()
	require.NoError(t, store.SaveReceipt(context.Background(), &models.Receipt{
		Flow: models.FlowToken, Status: models.StatusConfirmed, Payer: "payer",
		Address: "So11111111111111111111111111111111111111112",
	}))
	svc.Receipts = store

	m := NewMainMenuScreen(svc)
	m.SetSize(140, 40)
	assert.Contains(t, m.View(), "Nothing launched yet")

	m.Update(m.Init()())
	assert.Contains(t, m.View(), "token So11…1112")

	m.Update(ui.ActivityMsg{Event: events.NotificationEvent{
		BaseEvent: events.NewBase(events.NotificationRaised),
		Level:     "error",
		Title:     "Market creation failed",
	}})
	m.Update(ui.ActivityMsg{Event: events.LaunchCompletedEvent{BaseEvent: events.NewBase(events.LaunchCompleted)}})

	require.Len(t, m.activity, 2)
	assert.Equal(t, "Market creation failed", m.activity[0].text)
	assert.Equal(t, style.StatusFailed, m.activity[0].status)
	assert.Contains(t, m.View(), "devnet")
}

func TestMainMenuShowsLaunchProgress(t *testing.T) {
	svc, _ := newServices(t)
	m := NewMainMenuScreen(svc)
	m.SetSize(140, 40)

	m.Update(ui.ActivityMsg{Event: events.AssetUploadedEvent{
		BaseEvent: events.NewBase(events.AssetUploaded),
		Flow:      models.FlowToken,
		Stage:     "image",
	}})
	m.Update(ui.ActivityMsg{Event: events.BatchSubmittedEvent{
		BaseEvent: events.NewBase(events.BatchSubmitted),
		Flow:      models.FlowMarket,
		Batch:     "vaults",
		Signature: "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW",
	}})

	require.Len(t, m.activity, 2)
	assert.Equal(t, "market vaults batch 5VER…kQUW", m.activity[0].text)
	assert.Equal(t, style.StatusConfirmed, m.activity[0].status)
	assert.Equal(t, "token image uploaded", m.activity[1].text)
	assert.Equal(t, style.StatusStarted, m.activity[1].status)
}

func TestNewAppRoutes(t *testing.T) {
	svc, _ := newServices(t)
	app := NewApp(svc)
	for _, route := range []ui.Route{ui.RouteCreateToken, ui.RouteCreateMarket, ui.RouteCreatePool} {
		app.Update(ui.RouterMsg{To: route})
		assert.IsType(t, &LaunchScreen{}, app.Current())
		app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	}
	assert.IsType(t, &MainMenuScreen{}, app.Current())
}
