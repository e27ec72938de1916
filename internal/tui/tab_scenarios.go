package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/scenario"
	"github.com/theirongolddev/fcast/internal/tui/components"
	"github.com/theirongolddev/fcast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderScenariosTab(cw int) string {
	t := theme.Active
	cmp := a.cmp

	innerW := components.CardInnerWidth(cw)
	moneyW := 12
	nameW := max(innerW-4*(moneyW+1)-2, 12)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("  %-*s %*s %*s %*s %*s",
		nameW, "Scenario", moneyW, "Revenue", moneyW, "Costs", moneyW, "Profit", moneyW, "Margin")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")

	for i, o := range cmp.Scenarios {
		marker := "  "
		if o.Primary {
			marker = "★ "
		}
		name := truncStr(o.Name, nameW)
		if i == a.selected {
			body.WriteString(selectedStyle.Render(fmt.Sprintf("%s%-*s %*s %*s %*s %*s",
				marker, nameW, name,
				moneyW, cli.FormatMoney(o.Totals.Revenue),
				moneyW, cli.FormatMoney(o.Totals.Cost),
				moneyW, cli.FormatMoney(o.Totals.Profit),
				moneyW, cli.FormatPercent(o.Totals.Margin))))
		} else {
			profitStyle := lipgloss.NewStyle().Foreground(t.Signed(o.Totals.Profit)).Background(t.Surface)
			body.WriteString(rowStyle.Render(fmt.Sprintf("%s%-*s %*s %*s ",
				marker, nameW, name,
				moneyW, cli.FormatMoney(o.Totals.Revenue),
				moneyW, cli.FormatMoney(o.Totals.Cost))))
			body.WriteString(profitStyle.Render(fmt.Sprintf("%*s", moneyW, cli.FormatMoney(o.Totals.Profit))))
			body.WriteString(rowStyle.Render(fmt.Sprintf(" %*s", moneyW, cli.FormatPercent(o.Totals.Margin))))
		}
		body.WriteString("\n")
	}

	var out []string
	out = append(out, components.ContentCard("Scenarios", strings.TrimRight(body.String(), "\n"), cw))

	halves := components.LayoutRow(cw, 2)
	statsCard := components.ContentCard("Metrics", renderMetricStats(cmp.Metrics, components.CardInnerWidth(halves[0])), halves[0])
	varianceCard := components.ContentCard("Variance", a.renderVariance(), halves[1])
	if a.isCompactLayout() {
		out = append(out, statsCard, varianceCard)
	} else {
		out = append(out, components.CardRow([]string{statsCard, varianceCard}))
	}

	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func renderMetricStats(ms model.ScenarioMetrics, width int) string {
	t := theme.Active
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	colW := max((width-8)/4, 8)
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-8s%*s%*s%*s%*s", "", colW, "Min", colW, "Median", colW, "Max", colW, "Primary")))
	b.WriteString("\n")

	rows := []struct {
		label string
		s     model.MetricStats
		pct   bool
	}{
		{"Revenue", ms.Revenue, false},
		{"Costs", ms.Cost, false},
		{"Profit", ms.Profit, false},
		{"Margin", ms.Margin, true},
	}
	for _, r := range rows {
		f := cli.FormatCompactMoney
		if r.pct {
			f = cli.FormatPercent
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-8s", r.label)))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%*s%*s%*s%*s",
			colW, f(r.s.Min), colW, f(r.s.Median), colW, f(r.s.Max), colW, f(r.s.Primary))))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a App) renderVariance() string {
	t := theme.Active
	cmp := a.cmp

	levelColor := t.Green
	switch cmp.Variance {
	case scenario.VarianceMedium:
		levelColor = t.Yellow
	case scenario.VarianceHigh:
		levelColor = t.Red
	}
	levelStyle := lipgloss.NewStyle().Foreground(levelColor).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	itemStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	var b strings.Builder
	b.WriteString(levelStyle.Render(string(cmp.Variance)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf(" · %.1f%% revenue spread", cmp.VariancePercent)))
	for _, d := range cmp.KeyDifferences {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("• "))
		b.WriteString(itemStyle.Render(d))
	}
	for _, r := range cmp.RiskFactors {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("! "))
		b.WriteString(itemStyle.Render(r))
	}
	return b.String()
}
