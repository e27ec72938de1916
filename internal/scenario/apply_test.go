package scenario

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
)

func baseline() model.FinancialModel {
	return model.FinancialModel{
		ID:       "base",
		Name:     "Harbour Festival",
		Duration: model.Duration{Unit: model.UnitMonthly, Length: 6},
		RevenueStreams: []model.RevenueStream{
			{Name: "Tickets", BaseValue: 20, Role: model.RoleTicket},
			{Name: "F&B Sales", BaseValue: 8},
			{Name: "Streaming", BaseValue: 2, Role: model.RoleOnline},
			{Name: "Sponsorship", BaseValue: 3000, Kind: model.KindFixed},
		},
		CostCategories: []model.CostCategory{
			{Name: "Venue", BaseValue: 4000, Kind: model.KindRecurring},
			{Name: "Bar stock", Attribution: &model.Attribution{Role: model.RoleFoodBeverage, Percent: 30}},
		},
		Event: model.EventMetadata{
			InitialAttendance: 400,
			StaffCount:        10,
			CostPerStaff:      120,
			Growth: model.GrowthConfig{
				Law:            model.LawExponential,
				AttendanceRate: 4,
				SpendRates:     model.SpendRates{Ticket: 2, FoodBeverage: 1},
			},
		},
		Marketing: model.MarketingConfig{
			Mode: model.ModePerChannel,
			Channels: []model.MarketingChannel{
				{Name: "Social", Budget: 1000, Policy: model.PolicySpreadEvenly},
				{Name: "Radio", Budget: 2000, Policy: model.PolicyUpfront},
			},
		},
	}
}

func TestApplyZeroDeltasIsNoOp(t *testing.T) {
	b := baseline()
	got := Apply(b, model.ScenarioDeltas{})

	assert.Equal(t, model.Resolve(b), got)
	assert.Equal(t, forecast.Generate(b), forecast.Generate(got))
}

func TestApplyNeverMutatesBaseline(t *testing.T) {
	b := baseline()
	before := b.Clone()

	_ = Apply(b, model.ScenarioDeltas{
		MarketingSpend:   50,
		ChannelSpend:     map[string]model.Percent{"Social": 20},
		Pricing:          15,
		AttendanceGrowth: 3,
		COGS:             -10,
	})
	assert.Equal(t, before, b)
}

func TestApplyMarketingComposesMultiplicatively(t *testing.T) {
	got := Apply(baseline(), model.ScenarioDeltas{
		MarketingSpend: 10,
		ChannelSpend:   map[string]model.Percent{"social": 20},
	})

	require.Len(t, got.Marketing.Channels, 2)
	assert.InDelta(t, 1000*1.1*1.2, got.Marketing.Channels[0].Budget, 1e-9)
	assert.InDelta(t, 2000*1.1, got.Marketing.Channels[1].Budget, 1e-9)
}

func TestApplyMarketingAggregateBudget(t *testing.T) {
	b := baseline()
	b.Marketing = model.MarketingConfig{Mode: model.ModeAggregate, Budget: 5000}

	got := Apply(b, model.ScenarioDeltas{MarketingSpend: -20})
	assert.InDelta(t, 4000.0, got.Marketing.Budget, 1e-9)
}

func TestApplyPricingTouchesPricedRolesOnly(t *testing.T) {
	got := Apply(baseline(), model.ScenarioDeltas{Pricing: 10})

	assert.InDelta(t, 22.0, got.RevenueStreams[0].BaseValue, 1e-9)
	assert.InDelta(t, 8.8, got.RevenueStreams[1].BaseValue, 1e-9)
	assert.Equal(t, 2.0, got.RevenueStreams[2].BaseValue)
	assert.Equal(t, 3000.0, got.RevenueStreams[3].BaseValue)
}

func TestApplyAttendanceIsAdditiveAndEnablesSpendGrowth(t *testing.T) {
	b := baseline()
	require.False(t, b.Event.Growth.SpendGrowthEnabled)

	got := Apply(b, model.ScenarioDeltas{AttendanceGrowth: 3})
	assert.Equal(t, model.Percent(7), got.Event.Growth.AttendanceRate)
	assert.True(t, got.Event.Growth.SpendGrowthEnabled)

	got = Apply(b, model.ScenarioDeltas{AttendanceGrowth: -6})
	assert.Equal(t, model.Percent(-2), got.Event.Growth.AttendanceRate)
}

func TestApplyCostScalesAttributionAndStaff(t *testing.T) {
	got := Apply(baseline(), model.ScenarioDeltas{COGS: 10})

	assert.InDelta(t, 33.0, float64(got.CostCategories[1].Attribution.Percent), 1e-9)
	assert.InDelta(t, 132.0, got.Event.CostPerStaff, 1e-9)
	assert.Equal(t, 4000.0, got.CostCategories[0].BaseValue)
}

func TestApplyMalformedDeltasAreZero(t *testing.T) {
	b := baseline()
	got := Apply(b, model.ScenarioDeltas{
		MarketingSpend: model.Percent(math.NaN()),
		Pricing:        model.Percent(math.Inf(1)),
		ChannelSpend:   map[string]model.Percent{"Radio": model.Percent(math.NaN())},
	})
	assert.Equal(t, model.Resolve(b), got)
}

func TestApplyNamesVariant(t *testing.T) {
	got := Apply(baseline(), model.ScenarioDeltas{Name: "  Stretch  "})
	assert.Equal(t, "Stretch", got.Name)
	assert.Equal(t, "base", got.ID)
}

func TestApplyAllPresets(t *testing.T) {
	variants := ApplyAll(baseline(), Presets()...)
	require.Len(t, variants, 3)

	assert.Equal(t, Pessimistic, variants[0].Name)
	assert.Equal(t, Realistic, variants[1].Name)
	assert.Equal(t, Optimistic, variants[2].Name)

	pess := forecast.Summarize(forecast.Generate(variants[0]))
	realistic := forecast.Summarize(forecast.Generate(variants[1]))
	opt := forecast.Summarize(forecast.Generate(variants[2]))
	assert.Less(t, pess.Profit, realistic.Profit)
	assert.Less(t, realistic.Profit, opt.Profit)
}

func weeklyLinearEvent() model.FinancialModel {
	return model.FinancialModel{
		ID:       "fair",
		Name:     "Weekly Fair",
		Duration: model.Duration{Unit: model.UnitWeekly, Length: 52},
		RevenueStreams: []model.RevenueStream{
			{Name: "Tickets", BaseValue: 10, Role: model.RoleTicket},
		},
		CostCategories: []model.CostCategory{
			{Name: "Pitch hire", BaseValue: 50, Kind: model.KindRecurring},
			{Name: "Ticketing fees", Attribution: &model.Attribution{Role: model.RoleTicket, Percent: 5}},
		},
		Event: model.EventMetadata{
			InitialAttendance: 100,
			Growth:            model.GrowthConfig{Law: model.LawLinear},
		},
	}
}

func TestPessimisticPresetKeepsCumulativesNonDecreasing(t *testing.T) {
	pess := Apply(weeklyLinearEvent(), Presets()[0])
	records := forecast.Generate(pess)
	require.Len(t, records, 52)

	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		assert.GreaterOrEqual(t, cur.CumulativeRevenue, prev.CumulativeRevenue, "period %d", cur.Period)
		assert.GreaterOrEqual(t, cur.CumulativeCost, prev.CumulativeCost, "period %d", cur.Period)
		assert.GreaterOrEqual(t, cur.Revenue, 0.0, "period %d", cur.Period)
	}

	last := records[len(records)-1]
	require.NotNil(t, last.Attendance)
	assert.Zero(t, *last.Attendance)
	assert.Zero(t, last.Revenue)
}

func TestApplyCutsBeyondFullFloorAtZero(t *testing.T) {
	got := Apply(baseline(), model.ScenarioDeltas{
		MarketingSpend: -150,
		Pricing:        -200,
		COGS:           -300,
	})

	for _, s := range got.RevenueStreams {
		if s.Role.Priced() {
			assert.Zero(t, s.BaseValue, s.Name)
		}
	}
	for _, c := range got.CostCategories {
		if c.Attribution != nil {
			assert.Zero(t, float64(c.Attribution.Percent), c.Name)
		}
	}
	assert.Zero(t, got.Event.CostPerStaff)
	assert.Zero(t, got.Marketing.Budget)
	for _, ch := range got.Marketing.Channels {
		assert.Zero(t, ch.Budget, ch.Name)
	}

	for _, r := range forecast.Generate(got) {
		assert.GreaterOrEqual(t, r.Revenue, 0.0)
		assert.GreaterOrEqual(t, r.Cost, 0.0)
	}
}
