// Package projection computes the revenue, cost, and attendance of a single
// period of a financial model.
package projection

import (
	"math"

	"github.com/theirongolddev/fcast/internal/growth"
	"github.com/theirongolddev/fcast/internal/marketing"
	"github.com/theirongolddev/fcast/internal/model"
)

// Projection is the unrounded result for one period.
type Projection struct {
	Period        int
	Revenue       float64
	Cost          float64
	Attendance    float64
	HasAttendance bool

	RevenueByRole  map[model.RevenueRole]float64
	AttributedCost float64
	CategoryCost   float64
	StaffCost      float64
	MarketingCost  float64
}

// Profit is revenue minus cost.
func (p Projection) Profit() float64 { return p.Revenue - p.Cost }

// Project computes one 1-based period of m. m must already be resolved with
// model.Resolve.
func Project(m model.FinancialModel, period int) Projection {
	k := growth.Elapsed(period)
	g := m.Event.Growth
	p := Projection{
		Period:        period,
		HasAttendance: m.AttendanceDriven(),
		RevenueByRole: make(map[model.RevenueRole]float64),
	}

	p.Attendance = Attendance(m, period)

	for _, s := range m.RevenueStreams {
		if s.PerAttendee() {
			unit := s.BaseValue
			if g.SpendGrowthEnabled {
				unit = math.Max(0, growth.Resolve(unit, k, growth.FromConfig(g, g.SpendRates.For(s.Role))))
			}
			v := unit * p.Attendance
			p.RevenueByRole[s.Role] += v
			p.Revenue += v
			continue
		}
		p.Revenue += streamValue(s.Kind, s.BaseValue, k, g)
	}

	for _, c := range m.CostCategories {
		if c.Attribution != nil {
			p.AttributedCost += p.RevenueByRole[c.Attribution.Role] * math.Max(0, c.Attribution.Percent.Decimal())
			continue
		}
		p.CategoryCost += categoryCost(c, k, m.Duration.Length, g)
	}

	if m.Event.StaffCount > 0 && m.Event.CostPerStaff > 0 {
		p.StaffCost = m.Event.StaffCount * m.Event.CostPerStaff
	}

	p.MarketingCost = marketing.PeriodSpend(m.Marketing, m.Duration.Length, period)

	p.Cost = p.AttributedCost + p.CategoryCost + p.StaffCost + p.MarketingCost
	return p
}

// Attendance returns the whole-number attendance of a 1-based period. A
// declining rate bottoms out at zero attendees.
func Attendance(m model.FinancialModel, period int) float64 {
	base := m.Event.InitialAttendance
	if period <= 1 {
		return base
	}
	g := m.Event.Growth
	return math.Max(0, math.Round(growth.Resolve(base, growth.Elapsed(period), growth.FromConfig(g, g.AttendanceRate))))
}

func streamValue(kind model.StreamKind, base float64, k int, g model.GrowthConfig) float64 {
	if kind == model.KindFixed {
		if k == 0 {
			return base
		}
		return 0
	}
	return math.Max(0, growth.Resolve(base, k, growth.FromConfig(g, g.Rate)))
}

func categoryCost(c model.CostCategory, k, duration int, g model.GrowthConfig) float64 {
	switch {
	case c.Setup && c.Amortize:
		return c.BaseValue / float64(duration)
	case c.Setup, c.Kind == model.KindFixed:
		if k == 0 {
			return c.BaseValue
		}
		return 0
	case c.Kind == model.KindVariable:
		return math.Max(0, growth.Resolve(c.BaseValue, k, growth.FromConfig(g, g.Rate)))
	default:
		return c.BaseValue
	}
}
