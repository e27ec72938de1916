// Package scenario derives scenario variants from a baseline model and
// compares their forecasts.
package scenario

import (
	"math"
	"strings"

	"github.com/theirongolddev/fcast/internal/model"
)

// Apply returns a new model built from baseline plus d. The baseline is never
// modified. Deltas that are zero, NaN, or infinite change nothing.
func Apply(baseline model.FinancialModel, d model.ScenarioDeltas) model.FinancialModel {
	return newBuilder(baseline).
		marketing(d.MarketingSpend.Sanitize(), d.ChannelSpend).
		pricing(d.Pricing.Sanitize()).
		attendance(d.AttendanceGrowth.Sanitize()).
		cost(d.COGS.Sanitize()).
		named(d.Name).
		build()
}

// ApplyAll applies each delta set to baseline and returns the variants in
// order.
func ApplyAll(baseline model.FinancialModel, deltas ...model.ScenarioDeltas) []model.FinancialModel {
	out := make([]model.FinancialModel, 0, len(deltas))
	for _, d := range deltas {
		out = append(out, Apply(baseline, d))
	}
	return out
}

// builder owns a resolved deep copy of the baseline. Every step writes only
// to that copy.
type builder struct {
	m model.FinancialModel
}

func newBuilder(baseline model.FinancialModel) *builder {
	return &builder{m: model.Resolve(baseline)}
}

func (b *builder) build() model.FinancialModel { return b.m }

// marketing scales the aggregate budget by the global delta and each channel
// budget by the global and per-channel deltas multiplied together.
func (b *builder) marketing(global model.Percent, perChannel map[string]model.Percent) *builder {
	mk := &b.m.Marketing
	if !global.IsZero() {
		mk.Budget *= factorOf(global)
	}
	for i := range mk.Channels {
		ch := &mk.Channels[i]
		factor := 1.0
		if !global.IsZero() {
			factor *= factorOf(global)
		}
		if p := channelDelta(perChannel, ch.Name); !p.IsZero() {
			factor *= factorOf(p)
		}
		if factor != 1 {
			ch.Budget *= factor
		}
	}
	return b
}

func channelDelta(perChannel map[string]model.Percent, name string) model.Percent {
	if p, ok := perChannel[name]; ok {
		return p.Sanitize()
	}
	for k, p := range perChannel {
		if strings.EqualFold(strings.TrimSpace(k), strings.TrimSpace(name)) {
			return p.Sanitize()
		}
	}
	return 0
}

func (b *builder) pricing(p model.Percent) *builder {
	if p.IsZero() {
		return b
	}
	for i := range b.m.RevenueStreams {
		s := &b.m.RevenueStreams[i]
		if s.Role.Priced() {
			s.BaseValue *= factorOf(p)
		}
	}
	return b
}

// attendance adds percentage points to the attendance growth rate and turns
// on per-attendee spend growth.
func (b *builder) attendance(points model.Percent) *builder {
	if points.IsZero() {
		return b
	}
	g := &b.m.Event.Growth
	g.AttendanceRate += points
	g.SpendGrowthEnabled = true
	return b
}

func (b *builder) cost(p model.Percent) *builder {
	if p.IsZero() {
		return b
	}
	for i := range b.m.CostCategories {
		if a := b.m.CostCategories[i].Attribution; a != nil {
			a.Percent = model.Percent(float64(a.Percent) * factorOf(p))
		}
	}
	b.m.Event.CostPerStaff *= factorOf(p)
	return b
}

// factorOf is the multiplier for a percent change. Cuts beyond -100% floor at
// zero rather than flipping the sign of a price, cost, or budget.
func factorOf(p model.Percent) float64 {
	return math.Max(0, p.Factor())
}

func (b *builder) named(name string) *builder {
	if n := strings.TrimSpace(name); n != "" {
		b.m.Name = n
	}
	return b
}
