package scenario

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
)

// VarianceLevel classifies how far apart scenario revenues are.
type VarianceLevel string

const (
	VarianceLow    VarianceLevel = "Low"
	VarianceMedium VarianceLevel = "Medium"
	VarianceHigh   VarianceLevel = "High"
)

// Classification thresholds in percent.
const (
	lowVarianceBelow    = 20.0
	mediumVarianceBelow = 50.0

	// materialSpread is the relative spread above which a dimension is
	// reported as a key difference.
	materialSpread = 0.10
	// materialGrowthPoints is the same threshold for growth rates, in
	// percentage points.
	materialGrowthPoints = 1.0
	// marketingRiskShare is the share of revenue above which marketing spend
	// is flagged.
	marketingRiskShare = 0.5
)

// Outcome is one scenario's forecast and headline numbers.
type Outcome struct {
	ID              string               `json:"id,omitempty"`
	Name            string               `json:"name"`
	Primary         bool                 `json:"primary"`
	Totals          forecast.Totals      `json:"totals"`
	GrowthRate      float64              `json:"growth_rate"`
	MarketingBudget float64              `json:"marketing_budget"`
	Records         []model.PeriodRecord `json:"records"`
}

// Comparison is the aggregate view of a scenario set.
type Comparison struct {
	Scenarios       []Outcome             `json:"scenarios"`
	Primary         string                `json:"primary"`
	Metrics         model.ScenarioMetrics `json:"metrics"`
	Variance        VarianceLevel         `json:"variance"`
	VariancePercent float64               `json:"variance_percent"`
	KeyDifferences  []string              `json:"key_differences"`
	RiskFactors     []string              `json:"risk_factors"`
}

// Aggregate forecasts every model and compares the results.
func Aggregate(models []model.FinancialModel) Comparison {
	series := make([][]model.PeriodRecord, len(models))
	for i, m := range models {
		series[i] = forecast.Generate(m)
	}
	return AggregateSeries(models, series)
}

// AggregateSeries compares models whose forecasts were already generated.
// series[i] must be the forecast of models[i].
func AggregateSeries(models []model.FinancialModel, series [][]model.PeriodRecord) Comparison {
	c := Comparison{
		Variance:       VarianceLow,
		KeyDifferences: []string{},
		RiskFactors:    []string{},
		Scenarios:      make([]Outcome, 0, len(models)),
	}
	if len(models) == 0 {
		return c
	}

	for i, raw := range models {
		m := model.Resolve(raw)
		var recs []model.PeriodRecord
		if i < len(series) {
			recs = series[i]
		}
		c.Scenarios = append(c.Scenarios, Outcome{
			ID:              m.ID,
			Name:            m.DisplayName(),
			Totals:          forecast.Summarize(recs),
			GrowthRate:      float64(headlineGrowthRate(m)),
			MarketingBudget: configuredBudget(m.Marketing),
			Records:         recs,
		})
	}

	primary := PrimaryIndex(models)
	c.Scenarios[primary].Primary = true
	c.Primary = c.Scenarios[primary].Name

	pick := func(f func(Outcome) float64) []float64 {
		vs := make([]float64, len(c.Scenarios))
		for i, o := range c.Scenarios {
			vs[i] = f(o)
		}
		return vs
	}
	revenues := pick(func(o Outcome) float64 { return o.Totals.Revenue })
	costs := pick(func(o Outcome) float64 { return o.Totals.Cost })
	growthRates := pick(func(o Outcome) float64 { return o.GrowthRate })
	budgets := pick(func(o Outcome) float64 { return o.MarketingBudget })

	c.Metrics = model.ScenarioMetrics{
		Revenue: stats(revenues, primary),
		Cost:    stats(costs, primary),
		Profit:  stats(pick(func(o Outcome) float64 { return o.Totals.Profit }), primary),
		Margin:  stats(pick(func(o Outcome) float64 { return o.Totals.Margin }), primary),
	}

	c.VariancePercent = relativeSpread(c.Metrics.Revenue.Min, c.Metrics.Revenue.Max) * 100
	c.Variance = Classify(c.VariancePercent)
	if c.Metrics.Revenue.Min == 0 && c.Metrics.Revenue.Max != 0 {
		// No ratio exists against a zero minimum, but any revenue above it
		// is an unbounded spread.
		c.Variance = VarianceHigh
	}

	c.KeyDifferences = keyDifferences(revenues, costs, growthRates, budgets)
	c.RiskFactors = riskFactors(c)
	return c
}

// Classify maps a variance percentage to a level.
func Classify(pct float64) VarianceLevel {
	switch {
	case pct < lowVarianceBelow:
		return VarianceLow
	case pct < mediumVarianceBelow:
		return VarianceMedium
	default:
		return VarianceHigh
	}
}

// PrimaryIndex picks the scenario that represents the set: the first one
// named Realistic, otherwise the most recently updated, otherwise the first.
func PrimaryIndex(models []model.FinancialModel) int {
	for i, m := range models {
		if isRealistic(m.Name) {
			return i
		}
	}
	best := 0
	for i, m := range models {
		if m.UpdatedAt.After(models[best].UpdatedAt) {
			best = i
		}
	}
	return best
}

func isRealistic(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "realistic" {
		return true
	}
	for _, w := range strings.FieldsFunc(n, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '(' || r == ')'
	}) {
		if w == "realistic" {
			return true
		}
	}
	return false
}

func stats(vs []float64, primary int) model.MetricStats {
	if len(vs) == 0 {
		return model.MetricStats{}
	}
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range vs {
		sum += v
	}
	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return model.MetricStats{
		Min:     sorted[0],
		Max:     sorted[n-1],
		Average: sum / float64(n),
		Median:  median,
		Primary: vs[primary],
	}
}

// relativeSpread returns (max-min)/|min|, or 0 when min is 0.
func relativeSpread(lo, hi float64) float64 {
	if lo == 0 {
		return 0
	}
	return (hi - lo) / math.Abs(lo)
}

func bounds(vs []float64) (lo, hi float64) {
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func material(vs []float64) bool {
	lo, hi := bounds(vs)
	if lo == hi {
		return false
	}
	if lo == 0 {
		return true
	}
	return relativeSpread(lo, hi) > materialSpread
}

func keyDifferences(revenues, costs, growthRates, budgets []float64) []string {
	out := []string{}
	if material(revenues) {
		lo, hi := bounds(revenues)
		out = append(out, fmt.Sprintf("Revenue ranges from %.0f to %.0f", lo, hi))
	}
	if material(costs) {
		lo, hi := bounds(costs)
		out = append(out, fmt.Sprintf("Costs range from %.0f to %.0f", lo, hi))
	}
	if lo, hi := bounds(growthRates); hi-lo > materialGrowthPoints {
		out = append(out, fmt.Sprintf("Growth rate ranges from %.1f%% to %.1f%%", lo, hi))
	}
	if material(budgets) {
		lo, hi := bounds(budgets)
		out = append(out, fmt.Sprintf("Marketing budget ranges from %.0f to %.0f", lo, hi))
	}
	return out
}

func riskFactors(c Comparison) []string {
	out := []string{}
	if c.Variance == VarianceHigh {
		if c.VariancePercent == 0 {
			out = append(out, fmt.Sprintf("High variance between scenarios (revenue ranges from 0 to %.0f)", c.Metrics.Revenue.Max))
		} else {
			out = append(out, fmt.Sprintf("High variance between scenarios (%.0f%% revenue spread)", c.VariancePercent))
		}
	}
	for _, o := range c.Scenarios {
		if o.Totals.Profit < 0 {
			out = append(out, fmt.Sprintf("%s projects a loss of %.0f", o.Name, -o.Totals.Profit))
		}
	}
	for _, o := range c.Scenarios {
		if o.Totals.Marketing > marketingRiskShare*o.Totals.Revenue && o.Totals.Marketing > 0 {
			share := 0.0
			if o.Totals.Revenue != 0 {
				share = o.Totals.Marketing / o.Totals.Revenue * 100
			}
			out = append(out, fmt.Sprintf("%s spends %.0f%% of projected revenue on marketing", o.Name, share))
		}
	}
	return out
}

// headlineGrowthRate is the attendance rate for attendance-driven models and
// the overall rate otherwise.
func headlineGrowthRate(m model.FinancialModel) model.Percent {
	if m.AttendanceDriven() {
		return m.Event.Growth.AttendanceRate
	}
	return m.Event.Growth.Rate
}

func configuredBudget(mk model.MarketingConfig) float64 {
	switch mk.Mode {
	case model.ModeAggregate:
		return mk.Budget
	case model.ModePerChannel:
		var total float64
		for _, ch := range mk.Channels {
			total += ch.Budget
		}
		return total
	}
	return 0
}
