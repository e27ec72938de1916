package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleModel() FinancialModel {
	return FinancialModel{
		Name:     "Summer Fest",
		Duration: Duration{Unit: UnitMonthly, Length: 6},
		RevenueStreams: []RevenueStream{
			{Name: "Ticket Sales", BaseValue: 25},
			{Name: "Sponsorship", BaseValue: 5000, Kind: KindFixed},
		},
		CostCategories: []CostCategory{
			{Name: "Venue", BaseValue: 2000, Kind: KindRecurring},
			{Name: "Bar stock", Attribution: &Attribution{Role: "F&B", Percent: 30}},
		},
		Event: EventMetadata{
			InitialAttendance: 500,
			Growth: GrowthConfig{
				SeasonalFactors: []float64{1, 1.2},
			},
		},
		Marketing: MarketingConfig{
			Channels: []MarketingChannel{{Name: "Social", Budget: 1200, Policy: "sometimes"}},
		},
	}
}

func TestResolveDefaults(t *testing.T) {
	m := Resolve(FinancialModel{Duration: Duration{Length: 3}})

	assert.Equal(t, CurrentSchemaVersion, m.SchemaVersion)
	assert.Equal(t, UnitMonthly, m.Duration.Unit)
	assert.Equal(t, LawExponential, m.Event.Growth.Law)
	assert.Equal(t, ModeNone, m.Marketing.Mode)
	assert.Equal(t, PolicySpreadEvenly, m.Marketing.Policy)
	assert.NotNil(t, m.RevenueStreams)
	assert.NotNil(t, m.CostCategories)
}

func TestResolveRolesAndModes(t *testing.T) {
	m := Resolve(sampleModel())

	require.Len(t, m.RevenueStreams, 2)
	assert.Equal(t, RoleTicket, m.RevenueStreams[0].Role)
	assert.Equal(t, KindRecurring, m.RevenueStreams[0].Kind)
	assert.Equal(t, RoleNone, m.RevenueStreams[1].Role)
	assert.Equal(t, RoleFoodBeverage, m.CostCategories[1].Attribution.Role)
	assert.Equal(t, ModePerChannel, m.Marketing.Mode)
	assert.Equal(t, PolicySpreadEvenly, m.Marketing.Channels[0].Policy)
}

func TestResolveUnknownLawFallsBackToLinear(t *testing.T) {
	m := sampleModel()
	m.Event.Growth.Law = "logistic"
	assert.Equal(t, LawLinear, Resolve(m).Event.Growth.Law)
}

func TestResolveUnknownExplicitRoleIsNotPerAttendee(t *testing.T) {
	m := sampleModel()
	m.RevenueStreams[0].Role = "parking"
	assert.Equal(t, RoleNone, Resolve(m).RevenueStreams[0].Role)
}

func TestResolveIsIdempotent(t *testing.T) {
	once := Resolve(sampleModel())
	assert.Equal(t, once, Resolve(once))
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	in := sampleModel()
	before := in.Clone()
	_ = Resolve(in)
	assert.Equal(t, before, in)
}

func TestResolveSanitizesNonFinite(t *testing.T) {
	m := sampleModel()
	m.Event.Growth.Rate = Percent(math.NaN())
	m.RevenueStreams[0].BaseValue = math.Inf(1)

	r := Resolve(m)
	assert.Zero(t, r.Event.Growth.Rate)
	assert.Zero(t, r.RevenueStreams[0].BaseValue)
}

func TestResolveUpgradesLegacyCOGS(t *testing.T) {
	m := FinancialModel{
		SchemaVersion: 1,
		Duration:      Duration{Length: 1},
		Event: EventMetadata{
			COGS: &LegacyCOGS{FoodBeverage: 30, Merchandise: 45},
		},
	}

	r := Resolve(m)
	assert.Nil(t, r.Event.COGS)
	require.Len(t, r.CostCategories, 2)
	assert.Equal(t, RoleFoodBeverage, r.CostCategories[0].Attribution.Role)
	assert.Equal(t, Percent(30), r.CostCategories[0].Attribution.Percent)
	assert.Equal(t, RoleMerchandise, r.CostCategories[1].Attribution.Role)
}

func TestResolveLegacyCOGSKeepsExistingAttribution(t *testing.T) {
	m := sampleModel()
	m.Event.COGS = &LegacyCOGS{FoodBeverage: 50}

	r := Resolve(m)
	assert.Len(t, r.CostCategories, 2)
	assert.Equal(t, Percent(30), r.CostCategories[1].Attribution.Percent)
}

func TestCloneIsIndependent(t *testing.T) {
	m := Resolve(sampleModel())
	c := m.Clone()

	c.RevenueStreams[0].BaseValue = 99
	c.CostCategories[1].Attribution.Percent = 99
	c.Event.Growth.SeasonalFactors[0] = 99
	c.Marketing.Channels[0].Budget = 99

	assert.Equal(t, 25.0, m.RevenueStreams[0].BaseValue)
	assert.Equal(t, Percent(30), m.CostCategories[1].Attribution.Percent)
	assert.Equal(t, 1.0, m.Event.Growth.SeasonalFactors[0])
	assert.Equal(t, 1200.0, m.Marketing.Channels[0].Budget)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(sampleModel()))

	m := sampleModel()
	m.Duration.Length = 0
	err := Validate(m)
	assert.True(t, errors.Is(err, ErrInvalidDuration))
	assert.True(t, errors.Is(err, ErrInvalidModel))

	m = sampleModel()
	m.Marketing.Channels[0].Budget = -1
	assert.ErrorIs(t, Validate(m), ErrNegativeBudget)
}

func TestLookupRole(t *testing.T) {
	tests := []struct {
		in   string
		want RevenueRole
		ok   bool
	}{
		{"Ticket Sales", RoleTicket, true},
		{"  f&b   sales ", RoleFoodBeverage, true},
		{"Merch", RoleMerchandise, true},
		{"food_beverage", RoleFoodBeverage, true},
		{"Sponsorship", RoleNone, false},
	}
	for _, tt := range tests {
		got, ok := LookupRole(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 0.1, Percent(10).Decimal(), 1e-12)
	assert.InDelta(t, 1.1, Percent(10).Factor(), 1e-12)
	assert.Zero(t, Percent(math.Inf(-1)).Sanitize())
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "Week 3", UnitWeekly.Label(3))
	assert.Equal(t, "Month 12", UnitMonthly.Label(12))
}
