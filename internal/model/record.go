package model

// PeriodRecord is one row of a forecast.
type PeriodRecord struct {
	Period            int      `json:"period" yaml:"period"`
	Label             string   `json:"label" yaml:"label"`
	Revenue           float64  `json:"revenue" yaml:"revenue"`
	Cost              float64  `json:"cost" yaml:"cost"`
	Profit            float64  `json:"profit" yaml:"profit"`
	CumulativeRevenue float64  `json:"cumulative_revenue" yaml:"cumulative_revenue"`
	CumulativeCost    float64  `json:"cumulative_cost" yaml:"cumulative_cost"`
	CumulativeProfit  float64  `json:"cumulative_profit" yaml:"cumulative_profit"`
	Attendance        *float64 `json:"attendance,omitempty" yaml:"attendance,omitempty"`
	MarketingCost     float64  `json:"marketing_cost" yaml:"marketing_cost"`
}

// ScenarioDeltas are relative adjustments applied to a baseline model.
// Percentages are in human form. AttendanceGrowth is in percentage points.
type ScenarioDeltas struct {
	Name             string             `json:"name" mapstructure:"name" yaml:"name"`
	MarketingSpend   Percent            `json:"marketing_spend" mapstructure:"marketing_spend" yaml:"marketing_spend"`
	ChannelSpend     map[string]Percent `json:"channel_spend,omitempty" mapstructure:"channel_spend" yaml:"channel_spend,omitempty"`
	Pricing          Percent            `json:"pricing" mapstructure:"pricing" yaml:"pricing"`
	AttendanceGrowth Percent            `json:"attendance_growth" mapstructure:"attendance_growth" yaml:"attendance_growth"`
	COGS             Percent            `json:"cogs" mapstructure:"cogs" yaml:"cogs"`
}

// IsZero reports whether the deltas change nothing.
func (d ScenarioDeltas) IsZero() bool {
	if !d.MarketingSpend.Sanitize().IsZero() || !d.Pricing.Sanitize().IsZero() ||
		!d.AttendanceGrowth.Sanitize().IsZero() || !d.COGS.Sanitize().IsZero() {
		return false
	}
	for _, p := range d.ChannelSpend {
		if !p.Sanitize().IsZero() {
			return false
		}
	}
	return true
}

// MetricStats summarizes one metric across a scenario set.
type MetricStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
	Primary float64 `json:"primary"`
}

// ScenarioMetrics holds statistics for each headline metric.
type ScenarioMetrics struct {
	Revenue MetricStats `json:"revenue"`
	Cost    MetricStats `json:"cost"`
	Profit  MetricStats `json:"profit"`
	Margin  MetricStats `json:"margin"`
}
