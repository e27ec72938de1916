package model

import "math"

// Percent is a percentage in human form: 10 means 10%.
type Percent float64

// Decimal converts the percentage to a fraction. Call it where the value
// enters a formula and nowhere else.
func (p Percent) Decimal() float64 { return float64(p) / 100 }

// Factor returns 1 + p as a multiplier.
func (p Percent) Factor() float64 { return 1 + p.Decimal() }

// IsZero reports whether p has no effect.
func (p Percent) IsZero() bool { return p == 0 }

// Sanitize returns 0 for NaN or infinite values.
func (p Percent) Sanitize() Percent {
	return Percent(finite(float64(p)))
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
