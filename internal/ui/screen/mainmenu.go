package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-launchpad/internal/events"
	"github.com/rovshanmuradov/solana-launchpad/internal/notify"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage/models"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/component"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/router"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

const activityLimit = 8

// MenuItem represents a menu item
type MenuItem struct {
	Label       string
	Description string
	Route       ui.Route
	Flow        string
}

// activityEntry is one line of the launch feed. status is one of the
// style.Status* values.
type activityEntry struct {
	at     time.Time
	status string
	text   string
}

// receiptsLoadedMsg seeds the activity list from storage
type receiptsLoadedMsg struct {
	receipts []*models.Receipt
}

// MainMenuScreen represents the main menu screen
type MainMenuScreen struct {
	svc    *ui.Services
	keyMap ui.KeyMap

	helpBar *component.HelpBar

	selectedIndex int
	menuItems     []MenuItem
	activity      []activityEntry

	width  int
	height int

	menuItemStyle    lipgloss.Style
	selectedStyle    lipgloss.Style
	descriptionStyle lipgloss.Style
	headerStyle      lipgloss.Style
}

// NewMainMenuScreen creates a new main menu screen
func NewMainMenuScreen(svc *ui.Services) *MainMenuScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	return &MainMenuScreen{
		svc:    svc,
		keyMap: keyMap,
		menuItems: []MenuItem{
			{Label: "🪙 Create Token", Description: "Mint an SPL token with metadata and socials", Route: ui.RouteCreateToken, Flow: models.FlowToken},
			{Label: "📖 Create Market", Description: "List an OpenBook market for the token", Route: ui.RouteCreateMarket, Flow: models.FlowMarket},
			{Label: "💧 Create Pool", Description: "Seed a Raydium AMM pool on the market", Route: ui.RouteCreatePool, Flow: models.FlowPool},
		},
		helpBar: component.NewHelpBar(keyMap.ContextualHelp(ui.RouteMainMenu)),

		menuItemStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 2),

		selectedStyle: lipgloss.NewStyle().
			Foreground(palette.Background).
			Padding(0, 2).
			Bold(true),

		descriptionStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Padding(0, 4).
			Italic(true),

		headerStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true),
	}
}

// Init loads the latest receipts when a store is available
func (m *MainMenuScreen) Init() tea.Cmd {
	if m.svc.Receipts == nil {
		return nil
	}
	store, ctx := m.svc.Receipts, m.svc.Context()
	return func() tea.Msg {
		receipts, err := store.ListReceipts(ctx, "", activityLimit)
		if err != nil {
			return nil
		}
		return receiptsLoadedMsg{receipts: receipts}
	}
}

// Update handles screen updates
func (m *MainMenuScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Up):
			m.selectedIndex = (m.selectedIndex - 1 + len(m.menuItems)) % len(m.menuItems)
		case key.Matches(msg, m.keyMap.Down):
			m.selectedIndex = (m.selectedIndex + 1) % len(m.menuItems)
		case key.Matches(msg, m.keyMap.Enter):
			return m, navigate(m.menuItems[m.selectedIndex].Route)
		case key.Matches(msg, m.keyMap.Token):
			return m, navigate(ui.RouteCreateToken)
		case key.Matches(msg, m.keyMap.Market):
			return m, navigate(ui.RouteCreateMarket)
		case key.Matches(msg, m.keyMap.Pool):
			return m, navigate(ui.RouteCreatePool)
		}

	case receiptsLoadedMsg:
		// Старые записи идут после уже полученных событий
		for _, r := range msg.receipts {
			m.activity = append(m.activity, receiptEntry(r))
		}
		m.trimActivity()

	case ui.ActivityMsg:
		if entry, ok := eventEntry(msg.Event); ok {
			m.activity = append([]activityEntry{entry}, m.activity...)
			m.trimActivity()
		}
	}
	return m, nil
}

func navigate(route ui.Route) tea.Cmd {
	return func() tea.Msg {
		return ui.RouterMsg{To: route}
	}
}

func (m *MainMenuScreen) trimActivity() {
	if len(m.activity) > activityLimit {
		m.activity = m.activity[:activityLimit]
	}
}

// View renders the main menu screen
func (m *MainMenuScreen) View() string {
	menu := style.MenuPanelStyle.Render(m.renderMenu())
	activity := style.ActivityPanelStyle.Render(m.renderActivity())

	var content strings.Builder
	content.WriteString(style.TitleStyle.Render("🚀 Solana Launchpad"))
	content.WriteString("\n")
	content.WriteString(m.renderStatus())
	content.WriteString("\n\n")
	content.WriteString(style.Columns(m.width, menu, activity))
	content.WriteString("\n")
	content.WriteString(m.helpBar.View())
	return content.String()
}

// SetSize sets the screen dimensions
func (m *MainMenuScreen) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.helpBar.SetWidth(width)
}

// SelectedRoute returns the currently selected route
func (m *MainMenuScreen) SelectedRoute() ui.Route {
	return m.menuItems[m.selectedIndex].Route
}

func (m *MainMenuScreen) renderStatus() string {
	wallet := "No wallet loaded"
	if m.svc.Signer != nil {
		if pk := m.svc.Signer.PublicKey(); pk != (solana.PublicKey{}) {
			wallet = "Wallet " + pk.String()
		}
	}
	network := m.svc.Network
	if network == "" {
		network = "mainnet"
	}
	return m.headerStyle.Render(fmt.Sprintf("%s • %s", network, wallet))
}

func (m *MainMenuScreen) renderMenu() string {
	lines := make([]string, 0, len(m.menuItems)*2)
	for i, item := range m.menuItems {
		if i == m.selectedIndex {
			accent := style.DefaultPalette().FlowAccent(item.Flow)
			lines = append(lines, m.selectedStyle.Background(accent).Render(item.Label))
			lines = append(lines, m.descriptionStyle.Render(item.Description))
			continue
		}
		lines = append(lines, m.menuItemStyle.Render(item.Label))
	}
	return strings.Join(lines, "\n")
}

func (m *MainMenuScreen) renderActivity() string {
	lines := []string{style.SubHeaderStyle.Render("Recent activity")}
	if len(m.activity) == 0 {
		lines = append(lines, style.MutedStyle.Render("Nothing launched yet"))
	}
	for _, e := range m.activity {
		lines = append(lines, style.MutedStyle.Render(e.at.Format("15:04:05"))+" "+style.StatusIcon(e.status)+" "+e.text)
	}
	return strings.Join(lines, "\n")
}

func receiptEntry(r *models.Receipt) activityEntry {
	entry := activityEntry{at: r.CreatedAt.Local()}
	if r.Status == models.StatusConfirmed {
		entry.status = style.StatusConfirmed
		entry.text = fmt.Sprintf("%s %s", r.Flow, shorten(r.Address))
	} else {
		entry.status = style.StatusFailed
		entry.text = fmt.Sprintf("%s failed", r.Flow)
	}
	return entry
}

func eventEntry(e events.Event) (activityEntry, bool) {
	entry := activityEntry{at: e.Timestamp().Local()}
	switch ev := e.(type) {
	case events.LaunchStartedEvent:
		entry.status = style.StatusStarted
		entry.text = fmt.Sprintf("%s started", ev.Flow)
	case events.AssetUploadedEvent:
		entry.status = style.StatusStarted
		entry.text = fmt.Sprintf("%s %s uploaded", ev.Flow, ev.Stage)
	case events.BatchSubmittedEvent:
		entry.status = style.StatusConfirmed
		entry.text = fmt.Sprintf("%s %s batch %s", ev.Flow, ev.Batch, shorten(ev.Signature))
	case events.NotificationEvent:
		entry.status = style.StatusConfirmed
		if ev.Level == string(notify.LevelError) {
			entry.status = style.StatusFailed
		}
		entry.text = ev.Title
	default:
		// Completed and failed launches arrive as notifications.
		return activityEntry{}, false
	}
	return entry, true
}

func shorten(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:4] + "…" + addr[len(addr)-4:]
}
