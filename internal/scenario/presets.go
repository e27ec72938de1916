package scenario

import "github.com/theirongolddev/fcast/internal/model"

// Preset scenario names.
const (
	Pessimistic = "Pessimistic"
	Realistic   = "Realistic"
	Optimistic  = "Optimistic"
)

// Presets returns the standard pessimistic, realistic, and optimistic delta
// sets. Realistic leaves the baseline unchanged.
func Presets() []model.ScenarioDeltas {
	return []model.ScenarioDeltas{
		{
			Name:             Pessimistic,
			MarketingSpend:   10,
			Pricing:          -10,
			AttendanceGrowth: -5,
			COGS:             10,
		},
		{Name: Realistic},
		{
			Name:             Optimistic,
			MarketingSpend:   -5,
			Pricing:          10,
			AttendanceGrowth: 5,
			COGS:             -5,
		},
	}
}
