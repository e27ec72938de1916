package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidModel is the root of every model contract violation.
	ErrInvalidModel = errors.New("invalid model")

	ErrInvalidDuration = fmt.Errorf("%w: duration must be at least one period", ErrInvalidModel)
	ErrNegativeBudget  = fmt.Errorf("%w: marketing budget is negative", ErrInvalidModel)
	ErrNegativeValue   = fmt.Errorf("%w: negative base value", ErrInvalidModel)
)

// Clone returns a deep copy that shares no memory with m.
func (m FinancialModel) Clone() FinancialModel {
	out := m
	if m.RevenueStreams != nil {
		out.RevenueStreams = append([]RevenueStream(nil), m.RevenueStreams...)
	}
	if m.CostCategories != nil {
		out.CostCategories = make([]CostCategory, len(m.CostCategories))
		for i, c := range m.CostCategories {
			if c.Attribution != nil {
				a := *c.Attribution
				c.Attribution = &a
			}
			out.CostCategories[i] = c
		}
	}
	if m.Event.COGS != nil {
		cogs := *m.Event.COGS
		out.Event.COGS = &cogs
	}
	if m.Event.Growth.SeasonalFactors != nil {
		out.Event.Growth.SeasonalFactors = append([]float64(nil), m.Event.Growth.SeasonalFactors...)
	}
	if m.Marketing.Channels != nil {
		out.Marketing.Channels = append([]MarketingChannel(nil), m.Marketing.Channels...)
	}
	return out
}

// Resolve returns a deep copy of m with every optional field filled with its
// documented default, legacy fields upgraded, and stream roles resolved.
// Resolving an already resolved model returns an equal model.
func Resolve(m FinancialModel) FinancialModel {
	out := m.Clone()

	if out.SchemaVersion < CurrentSchemaVersion {
		upgradeLegacyCOGS(&out)
		out.SchemaVersion = CurrentSchemaVersion
	}

	switch out.Duration.Unit {
	case UnitWeekly, UnitMonthly:
	default:
		out.Duration.Unit = UnitMonthly
	}

	if out.RevenueStreams == nil {
		out.RevenueStreams = []RevenueStream{}
	}
	for i := range out.RevenueStreams {
		s := &out.RevenueStreams[i]
		s.BaseValue = finite(s.BaseValue)
		s.Kind = resolveKind(s.Kind)
		s.Role = resolveRole(s.Role, s.Name)
	}

	if out.CostCategories == nil {
		out.CostCategories = []CostCategory{}
	}
	for i := range out.CostCategories {
		c := &out.CostCategories[i]
		c.BaseValue = finite(c.BaseValue)
		c.Kind = resolveKind(c.Kind)
		if c.Attribution != nil {
			c.Attribution.Percent = c.Attribution.Percent.Sanitize()
			if r, ok := LookupRole(string(c.Attribution.Role)); ok {
				c.Attribution.Role = r
			}
		}
	}

	ev := &out.Event
	ev.InitialAttendance = finite(ev.InitialAttendance)
	ev.StaffCount = finite(ev.StaffCount)
	ev.CostPerStaff = finite(ev.CostPerStaff)
	resolveGrowth(&ev.Growth)

	resolveMarketing(&out.Marketing)
	return out
}

func resolveKind(k StreamKind) StreamKind {
	switch k {
	case KindFixed, KindRecurring, KindVariable:
		return k
	}
	return KindRecurring
}

// resolveRole keeps a valid explicit role, maps an alias, or infers the role
// from a legacy stream name. Unknown explicit roles mean "not per-attendee".
func resolveRole(r RevenueRole, name string) RevenueRole {
	if r != RoleNone {
		if resolved, ok := LookupRole(string(r)); ok {
			return resolved
		}
		return RoleNone
	}
	if resolved, ok := LookupRole(name); ok {
		return resolved
	}
	return RoleNone
}

func resolveGrowth(g *GrowthConfig) {
	switch g.Law {
	case LawLinear, LawExponential, LawSeasonal:
	case "":
		g.Law = LawExponential
	default:
		g.Law = LawLinear
	}
	g.Rate = g.Rate.Sanitize()
	g.AttendanceRate = g.AttendanceRate.Sanitize()
	g.SpendRates = SpendRates{
		Ticket:       g.SpendRates.Ticket.Sanitize(),
		FoodBeverage: g.SpendRates.FoodBeverage.Sanitize(),
		Merchandise:  g.SpendRates.Merchandise.Sanitize(),
		Online:       g.SpendRates.Online.Sanitize(),
		Misc:         g.SpendRates.Misc.Sanitize(),
	}
	for i, f := range g.SeasonalFactors {
		g.SeasonalFactors[i] = finite(f)
	}
}

func resolvePolicy(p DistributionPolicy) DistributionPolicy {
	switch p {
	case PolicyUpfront, PolicySpreadEvenly, PolicySpreadCustom:
		return p
	}
	return PolicySpreadEvenly
}

func resolveMarketing(mk *MarketingConfig) {
	mk.Budget = finite(mk.Budget)
	mk.Policy = resolvePolicy(mk.Policy)
	for i := range mk.Channels {
		ch := &mk.Channels[i]
		ch.Budget = finite(ch.Budget)
		ch.Policy = resolvePolicy(ch.Policy)
	}
	switch mk.Mode {
	case ModeNone, ModeAggregate, ModePerChannel:
		return
	}
	switch {
	case len(mk.Channels) > 0:
		mk.Mode = ModePerChannel
	case mk.Budget != 0:
		mk.Mode = ModeAggregate
	default:
		mk.Mode = ModeNone
	}
}

// upgradeLegacyCOGS turns schema v1 COGS percentages into attributed cost
// categories unless the model already attributes a cost to that role.
func upgradeLegacyCOGS(m *FinancialModel) {
	cogs := m.Event.COGS
	m.Event.COGS = nil
	if cogs == nil {
		return
	}
	attributed := make(map[RevenueRole]bool)
	for _, c := range m.CostCategories {
		if c.Attribution != nil {
			r, _ := LookupRole(string(c.Attribution.Role))
			attributed[r] = true
		}
	}
	add := func(name string, role RevenueRole, pct Percent) {
		if pct == 0 || attributed[role] {
			return
		}
		m.CostCategories = append(m.CostCategories, CostCategory{
			Name:        name,
			Kind:        KindVariable,
			Attribution: &Attribution{Role: role, Percent: pct},
		})
	}
	add("F&B COGS", RoleFoodBeverage, cogs.FoodBeverage)
	add("Merchandise COGS", RoleMerchandise, cogs.Merchandise)
}

// Validate reports the first contract violation in m.
func Validate(m FinancialModel) error {
	if m.Duration.Length <= 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidDuration, m.Duration.Length)
	}
	if m.Marketing.Budget < 0 {
		return ErrNegativeBudget
	}
	for _, ch := range m.Marketing.Channels {
		if ch.Budget < 0 {
			return fmt.Errorf("%w: channel %q", ErrNegativeBudget, ch.Name)
		}
	}
	for _, s := range m.RevenueStreams {
		if s.BaseValue < 0 {
			return fmt.Errorf("%w: revenue stream %q", ErrNegativeValue, s.Name)
		}
	}
	for _, c := range m.CostCategories {
		if c.BaseValue < 0 {
			return fmt.Errorf("%w: cost category %q", ErrNegativeValue, c.Name)
		}
	}
	return nil
}

// DisplayName returns the model name, falling back to its ID.
func (m FinancialModel) DisplayName() string {
	if n := strings.TrimSpace(m.Name); n != "" {
		return n
	}
	if m.ID != "" {
		return m.ID
	}
	return "untitled"
}
