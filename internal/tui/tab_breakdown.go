package tui

import (
	"strings"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/pipeline"
	"github.com/theirongolddev/fcast/internal/tui/components"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderBreakdownTab(cw int) string {
	o, m, ok := a.selectedOutcome()
	if !ok {
		return ""
	}
	bd := pipeline.BreakdownOf(m)

	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}

	revenue := components.ContentCard("Revenue by component · "+o.Name,
		renderShares(bd.Revenue, components.CardInnerWidth(halves[0])), halves[0])

	costRows := []pipeline.RevenueShare{
		{Label: "Attributed COGS", Revenue: bd.Costs.Attributed},
		{Label: "Categories", Revenue: bd.Costs.Categories},
		{Label: "Staff", Revenue: bd.Costs.Staff},
		{Label: "Marketing", Revenue: bd.Costs.Marketing},
	}
	for i := range costRows {
		if bd.Costs.Total != 0 {
			costRows[i].SharePercent = costRows[i].Revenue / bd.Costs.Total * 100
		}
	}
	costs := components.ContentCard("Costs by kind · "+cli.FormatMoney(bd.Costs.Total),
		renderShares(costRows, components.CardInnerWidth(halves[1])), halves[1])

	var out []string
	if a.isCompactLayout() {
		out = append(out, revenue, costs)
	} else {
		out = append(out, components.CardRow([]string{revenue, costs}))
	}

	if len(bd.Channels) > 0 {
		channels := make([]pipeline.RevenueShare, len(bd.Channels))
		for i, ch := range bd.Channels {
			channels[i] = pipeline.RevenueShare{Label: ch.Channel, Revenue: ch.Spend, SharePercent: ch.SharePercent}
		}
		out = append(out, components.ContentCard("Marketing channels",
			renderShares(channels, components.CardInnerWidth(cw)), cw))
	}

	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func renderShares(shares []pipeline.RevenueShare, width int) string {
	if len(shares) == 0 {
		return "none"
	}
	labelW := 0
	for _, s := range shares {
		labelW = max(labelW, lipgloss.Width(s.Label))
	}
	labelW = min(labelW, 18)
	barW := max(width-labelW-20, 6)

	lines := make([]string, 0, len(shares))
	for _, s := range shares {
		lines = append(lines, components.ShareBar(s.Label, s.SharePercent/100, cli.FormatMoney(s.Revenue), labelW, barW))
	}
	return strings.Join(lines, "\n")
}
