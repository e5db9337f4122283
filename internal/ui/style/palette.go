package style

import "github.com/charmbracelet/lipgloss"

// Launchpad colors. Each flow has its own accent.
var (
	SolGreen  = lipgloss.Color("#14F195") // token flow, confirmed launches
	SolPurple = lipgloss.Color("#9945FF") // market flow
	Azure     = lipgloss.Color("#00C2FF") // pool flow, links
	Amber     = lipgloss.Color("#FFB020") // submission in flight
	Coral     = lipgloss.Color("#FF5C5C") // failed launches

	Ink   = lipgloss.Color("#12131A")
	Slate = lipgloss.Color("#6B7280")
	Snow  = lipgloss.Color("#E8EAF0")
)

// Flow names as stored on receipts.
const (
	FlowToken  = "token"
	FlowMarket = "market"
	FlowPool   = "pool"
)

type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color

	Token  lipgloss.Color
	Market lipgloss.Color
	Pool   lipgloss.Color

	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
	Info    lipgloss.Color

	Background lipgloss.Color
	Text       lipgloss.Color
	TextMuted  lipgloss.Color
}

func DefaultPalette() Palette {
	return Palette{
		Primary:   SolPurple,
		Secondary: SolGreen,

		Token:  SolGreen,
		Market: SolPurple,
		Pool:   Azure,

		Success: SolGreen,
		Error:   Coral,
		Warning: Amber,
		Info:    Azure,

		Background: Ink,
		Text:       Snow,
		TextMuted:  Slate,
	}
}

// FlowAccent returns the accent of flow. Unknown flows get the primary color.
func (p Palette) FlowAccent(flow string) lipgloss.Color {
	switch flow {
	case FlowToken:
		return p.Token
	case FlowMarket:
		return p.Market
	case FlowPool:
		return p.Pool
	default:
		return p.Primary
	}
}
