// Package growth evaluates growth laws over elapsed periods.
package growth

import (
	"math"

	"github.com/theirongolddev/fcast/internal/model"
)

// Descriptor selects a growth law and its parameters. Rate is a decimal
// (0.1 for 10%).
type Descriptor struct {
	Law             model.GrowthLaw
	Rate            float64
	SeasonalFactors []float64
}

// FromConfig builds the descriptor for the model's overall growth law using
// the given rate.
func FromConfig(cfg model.GrowthConfig, rate model.Percent) Descriptor {
	return Descriptor{
		Law:             cfg.Law,
		Rate:            rate.Decimal(),
		SeasonalFactors: cfg.SeasonalFactors,
	}
}

// Elapsed converts a 1-based period index to the number of elapsed periods.
func Elapsed(period int) int { return period - 1 }

// Resolve returns base grown over k elapsed periods. k must not be negative.
// Unknown laws are evaluated as linear.
func Resolve(base float64, k int, d Descriptor) float64 {
	if d.Rate == 0 || k == 0 {
		return base
	}
	switch d.Law {
	case model.LawExponential:
		return base * math.Pow(1+d.Rate, float64(k))
	case model.LawSeasonal:
		v := base * math.Pow(1+d.Rate, float64(k))
		if len(d.SeasonalFactors) == 0 {
			return v
		}
		return v * d.SeasonalFactors[k%len(d.SeasonalFactors)]
	default:
		return base * (1 + d.Rate*float64(k))
	}
}
