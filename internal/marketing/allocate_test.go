package marketing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theirongolddev/fcast/internal/model"
)

func TestAllocateUpfront(t *testing.T) {
	assert.Equal(t, 900.0, Allocate(900, model.PolicyUpfront, 0, 6, 1))
	for p := 2; p <= 6; p++ {
		assert.Zero(t, Allocate(900, model.PolicyUpfront, 0, 6, p))
	}
}

func TestAllocateSpreadEvenlySumsToBudget(t *testing.T) {
	var total float64
	for p := 1; p <= 7; p++ {
		total += Allocate(1000, model.PolicySpreadEvenly, 0, 7, p)
	}
	assert.InDelta(t, 1000.0, total, 1e-9)
}

func TestAllocateSpreadCustom(t *testing.T) {
	assert.Equal(t, 300.0, Allocate(900, model.PolicySpreadCustom, 3, 12, 1))
	assert.Equal(t, 300.0, Allocate(900, model.PolicySpreadCustom, 3, 12, 3))
	assert.Zero(t, Allocate(900, model.PolicySpreadCustom, 3, 12, 4))
}

func TestAllocateSpreadCustomWithoutLengthSpreadsEvenly(t *testing.T) {
	assert.Equal(t, 75.0, Allocate(900, model.PolicySpreadCustom, 0, 12, 5))
}

func TestAllocateUnknownPolicySpreadsEvenly(t *testing.T) {
	assert.Equal(t, 100.0, Allocate(600, "whenever", 0, 6, 4))
	assert.Equal(t, 100.0, Allocate(600, "", 0, 6, 4))
}

func TestPeriodSpendPerChannel(t *testing.T) {
	cfg := model.MarketingConfig{
		Mode: model.ModePerChannel,
		Channels: []model.MarketingChannel{
			{Name: "Social", Budget: 600, Policy: model.PolicySpreadEvenly},
			{Name: "Print", Budget: 300, Policy: model.PolicyUpfront},
		},
	}
	assert.Equal(t, 400.0, PeriodSpend(cfg, 6, 1))
	assert.Equal(t, 100.0, PeriodSpend(cfg, 6, 2))
	assert.InDelta(t, 900.0, TotalSpend(cfg, 6), 1e-9)

	spend := ChannelSpend(cfg, 6)
	assert.InDelta(t, 600.0, spend["Social"], 1e-9)
	assert.InDelta(t, 300.0, spend["Print"], 1e-9)
}

func TestPeriodSpendModes(t *testing.T) {
	agg := model.MarketingConfig{Mode: model.ModeAggregate, Budget: 1200, Policy: model.PolicySpreadEvenly}
	assert.Equal(t, 200.0, PeriodSpend(agg, 6, 3))

	none := agg
	none.Mode = model.ModeNone
	assert.Zero(t, PeriodSpend(none, 6, 3))
}

func TestAggregateBudgetSpreadEvenlyOverTwelveMonths(t *testing.T) {
	cfg := model.MarketingConfig{Mode: model.ModeAggregate, Budget: 1200, Policy: model.PolicySpreadEvenly}
	for period := 1; period <= 12; period++ {
		assert.Equal(t, 100.0, PeriodSpend(cfg, 12, period), "period %d", period)
	}
	assert.InDelta(t, 1200.0, TotalSpend(cfg, 12), 1e-9)
}
