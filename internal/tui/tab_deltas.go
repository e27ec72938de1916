package tui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/store"
	"github.com/theirongolddev/fcast/internal/tui/components"
	"github.com/theirongolddev/fcast/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// deltaValues holds the raw delta form inputs.
type deltaValues struct {
	name       string
	marketing  string
	pricing    string
	attendance string
	cogs       string
}

func newDeltaForm(vals *deltaValues, width int) *huh.Form {
	pct := func(title, desc string, v *string) *huh.Input {
		return huh.NewInput().
			Title(title).
			Description(desc).
			Placeholder("0").
			Validate(validatePercent).
			Value(v)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Scenario name").
				Placeholder("Custom").
				Value(&vals.name),
			pct("Marketing spend %", "Scales every marketing budget", &vals.marketing),
			pct("Pricing %", "Scales ticket, food & beverage, and merchandise prices", &vals.pricing),
			pct("Attendance growth (points)", "Added to the attendance growth rate", &vals.attendance),
			pct("COGS %", "Scales attributed costs and staff cost", &vals.cogs),
		),
	).WithTheme(huh.ThemeBase16()).WithWidth(width).WithShowHelp(true)
}

func validatePercent(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := parsePercent(s); err != nil {
		return errors.New("enter a number such as 10 or -5.5")
	}
	return nil
}

func parsePercent(s string) (model.Percent, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return model.Percent(v), nil
}

// deltas converts validated form values into a delta set.
func (v deltaValues) deltas(fallbackName string) model.ScenarioDeltas {
	d := model.ScenarioDeltas{Name: strings.TrimSpace(v.name)}
	if d.Name == "" {
		d.Name = fallbackName
	}
	d.MarketingSpend, _ = parsePercent(v.marketing)
	d.Pricing, _ = parsePercent(v.pricing)
	d.AttendanceGrowth, _ = parsePercent(v.attendance)
	d.COGS, _ = parsePercent(v.cogs)
	return d
}

func (a App) openDeltaForm() (tea.Model, tea.Cmd) {
	a.deltaVals = &deltaValues{}
	a.notice = ""
	a.deltaForm = newDeltaForm(a.deltaVals, components.CardInnerWidth(a.contentWidth()))
	return a, a.deltaForm.Init()
}

func (a App) updateDeltaForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.deltaForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.deltaForm = f
	}

	switch a.deltaForm.State {
	case huh.StateCompleted:
		d := a.deltaVals.deltas(fmt.Sprintf("Custom %d", len(a.custom)+1))
		a.custom = append(a.custom, d)
		a.deltaForm = nil
		a.deltaVals = nil
		a.computing = true
		return a, computeCmd(a.baseline, a.deltaSets(), a.opts.Workers)
	case huh.StateAborted:
		a.deltaForm = nil
		a.deltaVals = nil
		return a, nil
	}

	return a, cmd
}

// saveLatestCmd stores the most recent custom delta set as a scenario of the
// baseline.
func (a App) saveLatestCmd() tea.Cmd {
	if len(a.custom) == 0 {
		return nil
	}
	d := a.custom[len(a.custom)-1]
	st := a.opts.Store
	baseline := a.baseline
	return func() tea.Msg {
		if st == nil || baseline.ID == "" {
			return SavedMsg{Name: d.Name, Err: errors.New("baseline is not a stored model")}
		}
		_, err := st.SaveScenario(store.Scenario{
			BaselineID: baseline.ID,
			Name:       d.Name,
			Deltas:     d,
		})
		return SavedMsg{Name: d.Name, Err: err}
	}
}

func (a App) renderDeltasTab(cw int) string {
	t := theme.Active

	if a.deltaForm != nil {
		return components.ContentCard("New delta set", a.deltaForm.View(), cw)
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	noticeStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)

	innerW := components.CardInnerWidth(cw)
	colW := 12
	nameW := max(innerW-4*(colW+1), 12)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %*s %*s %*s",
		nameW, "Delta set", colW, "Marketing", colW, "Pricing", colW, "Attendance", colW, "COGS")))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	b.WriteString("\n")

	sets := a.deltaSets()
	if len(sets) == 0 {
		b.WriteString(mutedStyle.Render("No custom delta sets yet."))
		b.WriteString("\n")
	}
	for _, d := range sets {
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-*s %*s %*s %*s %*s",
			nameW, truncStr(d.Name, nameW),
			colW, cli.FormatSignedPercent(float64(d.MarketingSpend)),
			colW, cli.FormatSignedPercent(float64(d.Pricing)),
			colW, fmt.Sprintf("%+gpt", float64(d.AttendanceGrowth)),
			colW, cli.FormatSignedPercent(float64(d.COGS)))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("[n] new delta set"))
	if a.opts.Store != nil && a.baseline.ID != "" && len(a.custom) > 0 {
		b.WriteString(mutedStyle.Render("  [w] save latest as scenario"))
	}
	if a.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(a.notice))
	}

	return components.ContentCard("Delta sets", b.String(), cw)
}
