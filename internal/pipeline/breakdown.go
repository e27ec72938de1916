package pipeline

import (
	"sort"
	"strings"

	"github.com/theirongolddev/fcast/internal/marketing"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/projection"
)

// CostBreakdown holds a model's total cost split by component over the whole
// horizon.
type CostBreakdown struct {
	Attributed float64
	Categories float64
	Staff      float64
	Marketing  float64
	Total      float64
}

// RevenueShare is one revenue component's total and share of revenue.
type RevenueShare struct {
	Label        string
	Revenue      float64
	SharePercent float64
}

// ChannelShare is one marketing channel's spend inside the horizon.
type ChannelShare struct {
	Channel      string
	Spend        float64
	SharePercent float64
}

// Breakdown is the component view of a model's forecast.
type Breakdown struct {
	Costs    CostBreakdown
	Revenue  []RevenueShare
	Channels []ChannelShare
}

// BreakdownOf projects every period of m and totals revenue by component and
// cost by kind. Values are unrounded.
func BreakdownOf(m model.FinancialModel) Breakdown {
	m = model.Resolve(m)
	var b Breakdown
	byRole := make(map[model.RevenueRole]float64)
	var other, totalRevenue float64

	for period := 1; period <= m.Duration.Length; period++ {
		p := projection.Project(m, period)
		b.Costs.Attributed += p.AttributedCost
		b.Costs.Categories += p.CategoryCost
		b.Costs.Staff += p.StaffCost
		b.Costs.Marketing += p.MarketingCost
		b.Costs.Total += p.Cost

		var perAttendee float64
		for role, v := range p.RevenueByRole {
			byRole[role] += v
			perAttendee += v
		}
		other += p.Revenue - perAttendee
		totalRevenue += p.Revenue
	}

	share := func(v float64) float64 {
		if totalRevenue == 0 {
			return 0
		}
		return v / totalRevenue * 100
	}
	for _, role := range model.Roles {
		if v, ok := byRole[role]; ok {
			b.Revenue = append(b.Revenue, RevenueShare{Label: role.DisplayName(), Revenue: v, SharePercent: share(v)})
		}
	}
	if other != 0 {
		b.Revenue = append(b.Revenue, RevenueShare{Label: "Other streams", Revenue: other, SharePercent: share(other)})
	}
	sort.SliceStable(b.Revenue, func(i, j int) bool { return b.Revenue[i].Revenue > b.Revenue[j].Revenue })

	spend := marketing.ChannelSpend(m.Marketing, m.Duration.Length)
	for name, v := range spend {
		pct := 0.0
		if b.Costs.Marketing != 0 {
			pct = v / b.Costs.Marketing * 100
		}
		b.Channels = append(b.Channels, ChannelShare{Channel: name, Spend: v, SharePercent: pct})
	}
	sort.Slice(b.Channels, func(i, j int) bool {
		if b.Channels[i].Spend != b.Channels[j].Spend {
			return b.Channels[i].Spend > b.Channels[j].Spend
		}
		return b.Channels[i].Channel < b.Channels[j].Channel
	})
	return b
}

// FilterByName returns the models whose name or ID contains substr,
// case-insensitively.
func FilterByName(models []model.FinancialModel, substr string) []model.FinancialModel {
	if substr == "" {
		return models
	}
	needle := strings.ToLower(substr)
	var out []model.FinancialModel
	for _, m := range models {
		if strings.Contains(strings.ToLower(m.DisplayName()), needle) ||
			strings.Contains(strings.ToLower(m.ID), needle) {
			out = append(out, m)
		}
	}
	return out
}
