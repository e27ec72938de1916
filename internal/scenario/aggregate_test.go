package scenario

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
)

func flatModel(name string, revenue, cost float64) model.FinancialModel {
	return model.FinancialModel{
		Name:           name,
		Duration:       model.Duration{Length: 2},
		RevenueStreams: []model.RevenueStream{{Name: "Sales", BaseValue: revenue}},
		CostCategories: []model.CostCategory{{Name: "Ops", BaseValue: cost}},
	}
}

func TestAggregateIdenticalScenariosAreLowVariance(t *testing.T) {
	a := flatModel("A", 1000, 400)
	b := flatModel("B", 1000, 400)

	c := Aggregate([]model.FinancialModel{a, b})
	assert.Equal(t, VarianceLow, c.Variance)
	assert.Zero(t, c.VariancePercent)
	assert.Empty(t, c.KeyDifferences)
	assert.Empty(t, c.RiskFactors)
}

func TestAggregateStats(t *testing.T) {
	models := []model.FinancialModel{
		flatModel("Low", 500, 100),
		flatModel("Realistic", 1000, 200),
		flatModel("High", 1500, 300),
		flatModel("Very High", 3000, 600),
	}

	c := Aggregate(models)
	require.Len(t, c.Scenarios, 4)
	assert.Equal(t, "Realistic", c.Primary)
	assert.True(t, c.Scenarios[1].Primary)

	rev := c.Metrics.Revenue
	assert.Equal(t, 1000.0, rev.Min)
	assert.Equal(t, 6000.0, rev.Max)
	assert.Equal(t, 2500.0, rev.Median)
	assert.Equal(t, 3000.0, rev.Average)
	assert.Equal(t, 2000.0, rev.Primary)

	assert.InDelta(t, 0.8, c.Metrics.Margin.Primary, 1e-12)
	assert.Equal(t, VarianceHigh, c.Variance)
	assert.InDelta(t, 500.0, c.VariancePercent, 1e-9)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, VarianceLow, Classify(0))
	assert.Equal(t, VarianceLow, Classify(19.99))
	assert.Equal(t, VarianceMedium, Classify(20))
	assert.Equal(t, VarianceMedium, Classify(49.9))
	assert.Equal(t, VarianceHigh, Classify(50))
}

func TestPrimaryIndex(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	older := flatModel("Draft", 1, 0)
	older.UpdatedAt = now.Add(-time.Hour)
	newer := flatModel("Latest", 1, 0)
	newer.UpdatedAt = now

	assert.Equal(t, 1, PrimaryIndex([]model.FinancialModel{older, newer}))

	realistic := flatModel(" realistic ", 1, 0)
	realistic.UpdatedAt = now.Add(-48 * time.Hour)
	assert.Equal(t, 2, PrimaryIndex([]model.FinancialModel{older, newer, realistic}))

	suffixed := flatModel("Harbour Festival (Realistic)", 1, 0)
	assert.Equal(t, 0, PrimaryIndex([]model.FinancialModel{suffixed, newer}))

	assert.Equal(t, 0, PrimaryIndex([]model.FinancialModel{flatModel("x", 1, 0), flatModel("y", 1, 0)}))
}

func TestAggregateRiskFactors(t *testing.T) {
	loss := flatModel("Bust", 100, 400)
	heavy := flatModel("Loud", 1000, 0)
	heavy.Marketing = model.MarketingConfig{Budget: 1500}

	c := Aggregate([]model.FinancialModel{loss, heavy})

	joined := strings.Join(c.RiskFactors, "\n")
	assert.Contains(t, joined, "Bust projects a loss")
	assert.Contains(t, joined, "Loud spends 75% of projected revenue on marketing")
	assert.Contains(t, joined, "High variance")
}

func TestAggregateKeyDifferences(t *testing.T) {
	a := flatModel("A", 1000, 100)
	b := flatModel("B", 1050, 300)
	b.Event.Growth.Rate = 5
	b.Marketing = model.MarketingConfig{Budget: 200}

	c := Aggregate([]model.FinancialModel{a, b})
	require.Len(t, c.KeyDifferences, 3)
	assert.True(t, strings.HasPrefix(c.KeyDifferences[0], "Costs"))
	assert.True(t, strings.HasPrefix(c.KeyDifferences[1], "Growth rate"))
	assert.True(t, strings.HasPrefix(c.KeyDifferences[2], "Marketing budget"))
}

func TestAggregateEmpty(t *testing.T) {
	c := Aggregate(nil)
	assert.Equal(t, VarianceLow, c.Variance)
	assert.Empty(t, c.Scenarios)
}

func TestAggregateSeriesMatchesAggregate(t *testing.T) {
	models := ApplyAll(baseline(), Presets()...)
	series := make([][]model.PeriodRecord, len(models))
	for i, m := range models {
		series[i] = forecast.Generate(m)
	}
	assert.Equal(t, Aggregate(models), AggregateSeries(models, series))
}

func TestAggregateZeroMinimumRevenueIsHighVariance(t *testing.T) {
	idle := flatModel("Idle", 0, 100)
	busy := flatModel("Busy", 1000000, 100)

	c := Aggregate([]model.FinancialModel{idle, busy})
	assert.Equal(t, VarianceHigh, c.Variance)
	assert.Zero(t, c.VariancePercent)
	require.NotEmpty(t, c.RiskFactors)
	assert.Contains(t, c.RiskFactors[0], "High variance")
	assert.True(t, strings.HasPrefix(c.KeyDifferences[0], "Revenue"))
}

func TestAggregateAllZeroRevenueIsLowVariance(t *testing.T) {
	c := Aggregate([]model.FinancialModel{flatModel("A", 0, 100), flatModel("B", 0, 200)})
	assert.Equal(t, VarianceLow, c.Variance)
}
