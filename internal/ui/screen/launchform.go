package screen

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/launch"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/component"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/router"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

// logLinesShown limits program log lines in an error toast
const logLinesShown = 3

// LaunchScreen is the form for one creation flow. It runs at most one
// submission at a time and reports the outcome in a toast.
type LaunchScreen struct {
	def    flowDef
	svc    *ui.Services
	keyMap ui.KeyMap
	logger *zap.Logger

	form    *component.Form
	helpBar *component.HelpBar
	spinner spinner.Model
	toast   *component.Toast

	inFlight bool
	result   []string

	width  int
	height int

	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	resultStyle   lipgloss.Style
}

func NewTokenScreen(svc *ui.Services) *LaunchScreen  { return newLaunchScreen(tokenFlow, svc) }
func NewMarketScreen(svc *ui.Services) *LaunchScreen { return newLaunchScreen(marketFlow, svc) }
func NewPoolScreen(svc *ui.Services) *LaunchScreen   { return newLaunchScreen(poolFlow, svc) }

func newLaunchScreen(def flowDef, svc *ui.Services) *LaunchScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	form := component.NewForm()
	def.fields(form)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(palette.Warning)

	logger := zap.NewNop()
	if svc.Logger != nil {
		logger = svc.Logger.Named("ui").With(zap.String("screen", def.route.String()))
	}

	return &LaunchScreen{
		def:     def,
		svc:     svc,
		keyMap:  keyMap,
		logger:  logger,
		form:    form,
		helpBar: component.NewHelpBar(keyMap.ContextualHelp(def.route)),
		spinner: sp,
		toast:   component.NewToast(),

		titleStyle: style.FlowTitle(def.flow),
		subtitleStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Italic(true),
		resultStyle: style.ResultPanel(def.flow),
	}
}

func (s *LaunchScreen) Init() tea.Cmd {
	return nil
}

// Update handles screen updates
func (s *LaunchScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, s.keyMap.Submit) {
			return s, s.submit()
		}
		var cmd tea.Cmd
		s.form, cmd = s.form.Update(msg)
		return s, cmd

	case spinner.TickMsg:
		if !s.inFlight {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case ui.FlowDoneMsg:
		if msg.Route != s.def.route {
			return s, nil
		}
		return s, s.done(msg)

	case ui.ActivityMsg:
		return s, nil
	}

	s.toast.Update(msg)
	return s, nil
}

// submit validates the form and starts the flow. It is a no-op while a
// previous submission is still running.
func (s *LaunchScreen) submit() tea.Cmd {
	if s.inFlight {
		return nil
	}
	if !s.form.Validate() {
		return nil
	}

	s.inFlight = true
	s.form.SetDisabled(true)
	s.result = nil
	s.logger.Info("Submitting flow")

	values := s.form.GetValues()
	def, svc := s.def, s.svc
	run := func() tea.Msg {
		res, err := def.run(svc.Context(), svc, values)
		return ui.FlowDoneMsg{Route: def.route, Result: res, Err: err}
	}
	return tea.Batch(s.spinner.Tick, run)
}

func (s *LaunchScreen) done(msg ui.FlowDoneMsg) tea.Cmd {
	s.inFlight = false
	s.form.SetDisabled(false)

	if msg.Err == nil {
		s.result = s.def.summary(msg.Result)
		s.logger.Info("Flow completed")
		headline := ""
		if len(s.result) > 0 {
			headline = strings.TrimSpace(s.result[0])
		}
		return s.toast.Show(component.ToastSuccess, s.def.title+" succeeded", headline)
	}

	kind := launch.Kind(msg.Err)
	s.logger.Warn("Flow failed", zap.String("kind", kind), zap.Error(msg.Err))

	var verr *launch.ValidationError
	if errors.As(msg.Err, &verr) {
		s.form.SetFieldError(verr.Field, verr.Reason)
	}

	message := msg.Err.Error()
	if logs := launch.Logs(msg.Err); len(logs) > 0 {
		if len(logs) > logLinesShown {
			logs = logs[len(logs)-logLinesShown:]
		}
		message += "\n" + strings.Join(logs, "\n")
	}
	return s.toast.Show(component.ToastError, s.def.title+" failed ("+kind+")", message)
}

// InFlight reports whether a submission is running.
func (s *LaunchScreen) InFlight() bool {
	return s.inFlight
}

// View renders the form, the running state and the last outcome
func (s *LaunchScreen) View() string {
	var content strings.Builder

	content.WriteString(s.titleStyle.Render(s.def.title))
	content.WriteString("\n")
	content.WriteString(s.subtitleStyle.Render(s.def.subtitle))
	content.WriteString("\n\n")
	content.WriteString(s.form.View())

	if s.inFlight {
		content.WriteString("\n")
		content.WriteString(s.spinner.View() + style.WarningStyle.Render(" Submitting... waiting for confirmation"))
		content.WriteString("\n")
	}
	if len(s.result) > 0 {
		content.WriteString("\n")
		content.WriteString(s.resultStyle.Render(strings.Join(s.result, "\n")))
		content.WriteString("\n")
	}
	if toast := s.toast.View(); toast != "" {
		content.WriteString("\n")
		content.WriteString(toast)
		content.WriteString("\n")
	}

	content.WriteString(s.helpBar.View())
	return content.String()
}

// SetSize sets the screen dimensions
func (s *LaunchScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.form.SetSize(style.FormWidth(width), height)
	s.helpBar.SetWidth(width)
}
