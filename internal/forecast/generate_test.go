package forecast

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fcast/internal/model"
)

func attendanceModel() model.FinancialModel {
	return model.FinancialModel{
		Name:     "Night Market",
		Duration: model.Duration{Unit: model.UnitMonthly, Length: 3},
		RevenueStreams: []model.RevenueStream{
			{Name: "Tickets", BaseValue: 10, Role: model.RoleTicket},
		},
		Event: model.EventMetadata{
			InitialAttendance: 100,
			Growth:            model.GrowthConfig{AttendanceRate: 10},
		},
	}
}

func TestGenerateAttendanceExample(t *testing.T) {
	recs := Generate(attendanceModel())
	require.Len(t, recs, 3)

	wantRevenue := []float64{1000, 1100, 1210}
	wantAttendance := []float64{100, 110, 121}
	for i, r := range recs {
		assert.Equal(t, i+1, r.Period)
		assert.Equal(t, wantRevenue[i], r.Revenue)
		require.NotNil(t, r.Attendance)
		assert.Equal(t, wantAttendance[i], *r.Attendance)
	}
	assert.Equal(t, 3310.0, recs[2].CumulativeRevenue)
	assert.Equal(t, "Month 2", recs[1].Label)
}

func TestGenerateCumulativeInvariants(t *testing.T) {
	m := attendanceModel()
	m.Duration.Length = 12
	m.CostCategories = []model.CostCategory{
		{Name: "Venue", BaseValue: 333.33, Kind: model.KindRecurring},
		{Name: "Fit-out", BaseValue: 2500, Setup: true},
	}
	m.Marketing = model.MarketingConfig{Budget: 1000, Policy: model.PolicySpreadEvenly}

	recs := Generate(m)
	require.Len(t, recs, 12)

	var sumRevenue, sumCost float64
	for i, r := range recs {
		sumRevenue += r.Revenue
		sumCost += r.Cost
		assert.Equal(t, sumRevenue, r.CumulativeRevenue)
		assert.Equal(t, sumCost, r.CumulativeCost)
		if i > 0 {
			assert.GreaterOrEqual(t, r.CumulativeRevenue, recs[i-1].CumulativeRevenue)
			assert.GreaterOrEqual(t, r.CumulativeCost, recs[i-1].CumulativeCost)
		}
	}
}

func TestGenerateRoundsUp(t *testing.T) {
	m := model.FinancialModel{
		Duration:       model.Duration{Length: 2},
		RevenueStreams: []model.RevenueStream{{Name: "Fees", BaseValue: 100.2}},
		CostCategories: []model.CostCategory{{Name: "Hosting", BaseValue: 10.01}},
	}

	recs := Generate(m)
	require.Len(t, recs, 2)
	assert.Equal(t, 101.0, recs[0].Revenue)
	assert.Equal(t, 11.0, recs[0].Cost)
	assert.Equal(t, 91.0, recs[0].Profit)
	assert.Equal(t, 202.0, recs[1].CumulativeRevenue)
}

func TestGenerateIgnoresFloatNoise(t *testing.T) {
	assert.Equal(t, "1100", ceil(1100.0000000000002).String())
	assert.Equal(t, "1101", ceil(1100.01).String())
	assert.Equal(t, "-5", ceil(-5.5).String())
}

func TestGenerateInvalidModelLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	g := NewGenerator(zerolog.New(&buf))

	m := attendanceModel()
	m.Duration.Length = 0
	recs := g.Generate(m)

	assert.NotNil(t, recs)
	assert.Empty(t, recs)
	assert.Equal(t, 1, strings.Count(buf.String(), "forecast failed"))
	assert.Contains(t, buf.String(), "Night Market")
}

func TestTryReturnsInvalidModel(t *testing.T) {
	m := attendanceModel()
	m.Duration.Length = -2
	_, err := Try(m)
	assert.ErrorIs(t, err, model.ErrInvalidModel)
}

func TestGenerateWithoutAttendance(t *testing.T) {
	m := model.FinancialModel{
		Duration:       model.Duration{Unit: model.UnitWeekly, Length: 1},
		RevenueStreams: []model.RevenueStream{{Name: "Licensing", BaseValue: 50}},
	}
	recs := Generate(m)
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].Attendance)
	assert.Equal(t, "Week 1", recs[0].Label)
}

func TestSummarize(t *testing.T) {
	m := attendanceModel()
	m.CostCategories = []model.CostCategory{{Name: "Launch", BaseValue: 1500, Setup: true}}
	m.Marketing = model.MarketingConfig{Budget: 300, Policy: model.PolicyUpfront}

	tot := Summarize(Generate(m))
	assert.Equal(t, 3310.0, tot.Revenue)
	assert.Equal(t, 1800.0, tot.Cost)
	assert.Equal(t, 1510.0, tot.Profit)
	assert.InDelta(t, 1510.0/3310.0, tot.Margin, 1e-12)
	assert.Equal(t, 300.0, tot.Marketing)
	assert.Equal(t, 121.0, tot.PeakAttendance)
	assert.Equal(t, 2, tot.BreakEven)
}

func TestSummarizeEmpty(t *testing.T) {
	tot := Summarize(nil)
	assert.Zero(t, tot.Margin)
	assert.Zero(t, tot.Periods)
}
