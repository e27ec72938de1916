package tui

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/tui/components"
	"github.com/theirongolddev/fcast/internal/tui/theme"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

func (a App) renderForecastTab(cw, h int) string {
	t := theme.Active
	o, m, ok := a.selectedOutcome()
	if !ok {
		return ""
	}
	tot := o.Totals

	revDelta, costDelta := "", ""
	if !o.Primary {
		revDelta = "vs primary " + cli.FormatDelta(tot.Revenue, a.cmp.Metrics.Revenue.Primary)
		costDelta = "vs primary " + cli.FormatDelta(tot.Cost, a.cmp.Metrics.Cost.Primary)
	}

	breakEven := "never"
	if tot.BreakEven > 0 {
		breakEven = m.PeriodLabel(tot.BreakEven)
	}
	attendance := ""
	if tot.PeakAttendance > 0 {
		attendance = "peak " + cli.FormatNumber(tot.PeakAttendance) + " attendees"
	}

	cards := []components.Metric{
		{Label: "Revenue", Value: cli.FormatMoney(tot.Revenue), Delta: revDelta},
		{Label: "Costs", Value: cli.FormatMoney(tot.Cost), Delta: costDelta},
		{Label: "Profit", Value: cli.FormatMoney(tot.Profit), Delta: "margin " + cli.FormatPercent(tot.Margin), Loss: tot.Profit < 0},
		{Label: "Break-even", Value: breakEven, Delta: attendance},
	}
	if a.isCompactLayout() {
		cards = cards[:3]
	}

	title := o.Name
	if o.Primary {
		title += " (primary)"
	}

	var out []string
	out = append(out, components.MetricCardRow(cards, cw))

	profits := make([]float64, len(o.Records))
	labels := make([]string, len(o.Records))
	for i, r := range o.Records {
		profits[i] = r.Profit
		labels[i] = strconv.Itoa(r.Period)
	}
	chartH := 8
	if a.isCompactLayout() {
		chartH = 6
	}
	out = append(out, components.ContentCard(
		fmt.Sprintf("%s · Profit per %s", title, unitNoun(m)),
		components.BarChart(profits, labels, t.Green, components.CardInnerWidth(cw), chartH),
		cw,
	))

	used := 0
	for _, s := range out {
		used += lipgloss.Height(s)
	}
	tableH := max(h-used-3, 3)
	out = append(out, components.ContentCard("Periods", renderRecordTable(o.Records, components.CardInnerWidth(cw), tableH), cw))

	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

// renderRecordTable renders forecast rows with a bubbles table.
func renderRecordTable(records []model.PeriodRecord, width, height int) string {
	t := theme.Active

	moneyW := 12
	labelW := max(width-5*(moneyW+2)-2, 8)
	columns := []table.Column{
		{Title: "Period", Width: labelW},
		{Title: "Revenue", Width: moneyW},
		{Title: "Cost", Width: moneyW},
		{Title: "Profit", Width: moneyW},
		{Title: "Cumulative", Width: moneyW},
		{Title: "Attendance", Width: moneyW},
	}

	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		att := "-"
		if r.Attendance != nil {
			att = cli.FormatNumber(*r.Attendance)
		}
		rows = append(rows, table.Row{
			r.Label,
			cli.FormatMoney(r.Revenue),
			cli.FormatMoney(r.Cost),
			cli.FormatMoney(r.Profit),
			cli.FormatMoney(r.CumulativeProfit),
			att,
		})
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(false),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(t.Accent).
		Background(t.Surface).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Bold(true)
	styles.Cell = styles.Cell.Foreground(t.TextPrimary).Background(t.Surface)
	styles.Selected = styles.Cell
	tbl.SetStyles(styles)

	return tbl.View()
}

func unitNoun(m model.FinancialModel) string {
	if m.Duration.Unit == model.UnitWeekly {
		return "week"
	}
	return "month"
}
