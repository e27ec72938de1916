// Package tui provides the interactive Bubble Tea dashboard for fcast.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/pipeline"
	"github.com/theirongolddev/fcast/internal/scenario"
	"github.com/theirongolddev/fcast/internal/store"
	"github.com/theirongolddev/fcast/internal/tui/components"
	"github.com/theirongolddev/fcast/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Options configures the dashboard.
type Options struct {
	Baseline model.FinancialModel
	Saved    []model.ScenarioDeltas // extra delta sets compared alongside the presets
	Workers  int
	Store    *store.Store // optional; enables saving delta sets as scenarios
}

// ComputedMsg is sent when a comparison finishes.
type ComputedMsg struct {
	Models     []model.FinancialModel
	Comparison scenario.Comparison
	Elapsed    time.Duration
}

// SavedMsg reports the result of saving a delta set to the store.
type SavedMsg struct {
	Name string
	Err  error
}

// App is the root Bubble Tea model.
type App struct {
	opts     Options
	baseline model.FinancialModel
	custom   []model.ScenarioDeltas // added from the delta form this session

	// Computed
	models    []model.FinancialModel
	cmp       scenario.Comparison
	loaded    bool
	computing bool
	elapsed   time.Duration

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	selected  int // scenario shown on the forecast and breakdown tabs
	notice    string

	// Delta form (huh)
	deltaForm *huh.Form
	deltaVals *deltaValues // shared across App copies while the form writes to it

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5

	tabForecast  = 0
	tabScenarios = 1
	tabBreakdown = 2
	tabDeltas    = 3
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:     opts,
		baseline: model.Resolve(opts.Baseline),
		spinner:  sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		computeCmd(a.baseline, a.deltaSets(), a.opts.Workers),
	)
}

// deltaSets returns every non-preset delta set: saved ones, then those added
// in this session.
func (a App) deltaSets() []model.ScenarioDeltas {
	out := make([]model.ScenarioDeltas, 0, len(a.opts.Saved)+len(a.custom))
	out = append(out, a.opts.Saved...)
	return append(out, a.custom...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.deltaForm != nil {
			a.deltaForm = a.deltaForm.WithWidth(a.contentWidth())
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.deltaForm != nil {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveSelection(-1)
		case tea.MouseButtonWheelDown:
			a.moveSelection(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case ComputedMsg:
		a.computing = false
		a.loaded = true
		a.models = msg.Models
		a.cmp = msg.Comparison
		a.elapsed = msg.Elapsed
		a.selected = primaryIndex(a.cmp)
		if len(a.custom) > 0 {
			a.selected = len(a.cmp.Scenarios) - 1
		}
		return a, nil

	case SavedMsg:
		if msg.Err != nil {
			a.notice = fmt.Sprintf("Could not save %q: %v", msg.Name, msg.Err)
		} else {
			a.notice = fmt.Sprintf("Saved scenario %q", msg.Name)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the delta form (cursor blinks, etc.)
	if a.deltaForm != nil {
		return a.updateDeltaForm(msg)
	}

	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.loaded {
		return a, nil
	}

	// The delta form intercepts all keys while open
	if a.deltaForm != nil {
		return a.updateDeltaForm(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "j", "down", "]":
		a.moveSelection(1)
		return a, nil
	case "k", "up", "[":
		a.moveSelection(-1)
		return a, nil
	case "p":
		a.selected = primaryIndex(a.cmp)
		return a, nil
	case "n":
		if a.activeTab == tabDeltas {
			return a.openDeltaForm()
		}
	case "w":
		if a.activeTab == tabDeltas {
			return a, a.saveLatestCmd()
		}
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a *App) moveSelection(delta int) {
	n := len(a.cmp.Scenarios)
	if n == 0 {
		return
	}
	a.selected = max(0, min(a.selected+delta, n-1))
}

// selectedOutcome returns the outcome and model shown on the detail tabs.
func (a App) selectedOutcome() (scenario.Outcome, model.FinancialModel, bool) {
	if a.selected < 0 || a.selected >= len(a.cmp.Scenarios) || a.selected >= len(a.models) {
		return scenario.Outcome{}, model.FinancialModel{}, false
	}
	return a.cmp.Scenarios[a.selected], a.models[a.selected], true
}

func primaryIndex(cmp scenario.Comparison) int {
	for i, o := range cmp.Scenarios {
		if o.Primary {
			return i
		}
	}
	return 0
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  fcast needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ fcast"))
	b.WriteString(subtitleStyle.Render(" · " + a.baseline.DisplayName()))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Forecasting scenarios..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"f s b d", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Select scenario"},
			{"p", "Select primary scenario"},
		}},
		{"Deltas", []struct{ key, desc string }{
			{"n", "New delta set"},
			{"w", "Save latest delta set"},
		}},
		{"General", []struct{ key, desc string }{
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	unit := "months"
	if a.baseline.Duration.Unit == model.UnitWeekly {
		unit = "weeks"
	}
	info := fmt.Sprintf("%s · %d %s · %s",
		a.baseline.DisplayName(),
		a.baseline.Duration.Length,
		unit,
		a.elapsed.Round(time.Millisecond))
	statusBar := components.RenderStatusBar(w, info, a.computing)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabForecast:
		content = a.renderForecastTab(cw, contentH)
	case tabScenarios:
		content = a.renderScenariosTab(cw)
	case tabBreakdown:
		content = a.renderBreakdownTab(cw)
	case tabDeltas:
		content = a.renderDeltasTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

// computeCmd forecasts the presets plus extra delta sets in the background.
func computeCmd(baseline model.FinancialModel, extra []model.ScenarioDeltas, workers int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		deltas := append(scenario.Presets(), extra...)
		models := scenario.ApplyAll(baseline, deltas...)
		return ComputedMsg{
			Models:     models,
			Comparison: pipeline.Compare(models, workers),
			Elapsed:    time.Since(start),
		}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
