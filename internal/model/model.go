// Package model defines the financial model, its parts, and the records the
// forecast engine produces.
package model

import (
	"strconv"
	"time"
)

// CurrentSchemaVersion is the schema version Resolve upgrades models to.
const CurrentSchemaVersion = 2

// DurationUnit is the length of one projection period.
type DurationUnit string

const (
	UnitWeekly  DurationUnit = "weekly"
	UnitMonthly DurationUnit = "monthly"
)

// StreamKind controls when a revenue stream or cost category applies.
type StreamKind string

const (
	KindFixed     StreamKind = "fixed"
	KindRecurring StreamKind = "recurring"
	KindVariable  StreamKind = "variable"
)

// GrowthLaw selects how a base value evolves over elapsed periods.
type GrowthLaw string

const (
	LawLinear      GrowthLaw = "linear"
	LawExponential GrowthLaw = "exponential"
	LawSeasonal    GrowthLaw = "seasonal"
)

// AllocationMode selects how the marketing budget is modeled.
type AllocationMode string

const (
	ModeNone       AllocationMode = "none"
	ModeAggregate  AllocationMode = "aggregate"
	ModePerChannel AllocationMode = "per_channel"
)

// DistributionPolicy selects how a budget is spread over periods.
type DistributionPolicy string

const (
	PolicyUpfront      DistributionPolicy = "upfront"
	PolicySpreadEvenly DistributionPolicy = "spread_evenly"
	PolicySpreadCustom DistributionPolicy = "spread_custom"
)

// FinancialModel is a complete, authored description of an event or product.
// The engine treats it as read-only.
type FinancialModel struct {
	SchemaVersion  int             `json:"schema_version" mapstructure:"schema_version" yaml:"schema_version"`
	ID             string          `json:"id" mapstructure:"id" yaml:"id"`
	Name           string          `json:"name" mapstructure:"name" yaml:"name"`
	UpdatedAt      time.Time       `json:"updated_at" mapstructure:"updated_at" yaml:"updated_at"`
	Duration       Duration        `json:"duration" mapstructure:"duration" yaml:"duration"`
	RevenueStreams []RevenueStream `json:"revenue_streams" mapstructure:"revenue_streams" yaml:"revenue_streams"`
	CostCategories []CostCategory  `json:"cost_categories" mapstructure:"cost_categories" yaml:"cost_categories"`
	Event          EventMetadata   `json:"event" mapstructure:"event" yaml:"event"`
	Marketing      MarketingConfig `json:"marketing" mapstructure:"marketing" yaml:"marketing"`
}

// Duration is the projection horizon.
type Duration struct {
	Unit   DurationUnit `json:"unit" mapstructure:"unit" yaml:"unit"`
	Length int          `json:"length" mapstructure:"length" yaml:"length"`
}

// RevenueStream is one named source of revenue. When Role is set, BaseValue
// is a per-attendee amount.
type RevenueStream struct {
	Name      string      `json:"name" mapstructure:"name" yaml:"name"`
	BaseValue float64     `json:"base_value" mapstructure:"base_value" yaml:"base_value"`
	Kind      StreamKind  `json:"kind" mapstructure:"kind" yaml:"kind"`
	Role      RevenueRole `json:"role,omitempty" mapstructure:"role" yaml:"role,omitempty"`
}

// PerAttendee reports whether the stream is priced per attendee.
func (s RevenueStream) PerAttendee() bool { return s.Role != RoleNone }

// CostCategory is one named cost line.
type CostCategory struct {
	Name        string       `json:"name" mapstructure:"name" yaml:"name"`
	BaseValue   float64      `json:"base_value" mapstructure:"base_value" yaml:"base_value"`
	Kind        StreamKind   `json:"kind" mapstructure:"kind" yaml:"kind"`
	Setup       bool         `json:"setup,omitempty" mapstructure:"setup" yaml:"setup,omitempty"`
	Amortize    bool         `json:"amortize,omitempty" mapstructure:"amortize" yaml:"amortize,omitempty"`
	Attribution *Attribution `json:"attribution,omitempty" mapstructure:"attribution" yaml:"attribution,omitempty"`
}

// Attribution ties a cost to a percentage of one revenue component.
type Attribution struct {
	Role    RevenueRole `json:"role" mapstructure:"role" yaml:"role"`
	Percent Percent     `json:"percent" mapstructure:"percent" yaml:"percent"`
}

// EventMetadata carries the per-period behavior of an attendance-driven model.
type EventMetadata struct {
	InitialAttendance float64      `json:"initial_attendance" mapstructure:"initial_attendance" yaml:"initial_attendance"`
	StaffCount        float64      `json:"staff_count,omitempty" mapstructure:"staff_count" yaml:"staff_count,omitempty"`
	CostPerStaff      float64      `json:"cost_per_staff,omitempty" mapstructure:"cost_per_staff" yaml:"cost_per_staff,omitempty"`
	Growth            GrowthConfig `json:"growth" mapstructure:"growth" yaml:"growth"`

	// COGS is the schema v1 way of expressing attributed costs. Resolve
	// converts it into attributed cost categories and clears it.
	COGS *LegacyCOGS `json:"cogs,omitempty" mapstructure:"cogs" yaml:"cogs,omitempty"`
}

// LegacyCOGS holds the schema v1 cost-of-goods percentages.
type LegacyCOGS struct {
	FoodBeverage Percent `json:"food_beverage" mapstructure:"food_beverage" yaml:"food_beverage"`
	Merchandise  Percent `json:"merchandise" mapstructure:"merchandise" yaml:"merchandise"`
}

// GrowthConfig describes how the model grows over time.
type GrowthConfig struct {
	Law                GrowthLaw  `json:"law" mapstructure:"law" yaml:"law"`
	Rate               Percent    `json:"rate" mapstructure:"rate" yaml:"rate"`
	SeasonalFactors    []float64  `json:"seasonal_factors,omitempty" mapstructure:"seasonal_factors" yaml:"seasonal_factors,omitempty"`
	AttendanceRate     Percent    `json:"attendance_rate" mapstructure:"attendance_rate" yaml:"attendance_rate"`
	SpendRates         SpendRates `json:"spend_rates" mapstructure:"spend_rates" yaml:"spend_rates"`
	SpendGrowthEnabled bool       `json:"spend_growth_enabled" mapstructure:"spend_growth_enabled" yaml:"spend_growth_enabled"`
}

// SpendRates holds the independent growth rate of each per-attendee component.
type SpendRates struct {
	Ticket       Percent `json:"ticket" mapstructure:"ticket" yaml:"ticket"`
	FoodBeverage Percent `json:"food_beverage" mapstructure:"food_beverage" yaml:"food_beverage"`
	Merchandise  Percent `json:"merchandise" mapstructure:"merchandise" yaml:"merchandise"`
	Online       Percent `json:"online" mapstructure:"online" yaml:"online"`
	Misc         Percent `json:"misc" mapstructure:"misc" yaml:"misc"`
}

// For returns the spend growth rate for a role.
func (r SpendRates) For(role RevenueRole) Percent {
	switch role {
	case RoleTicket:
		return r.Ticket
	case RoleFoodBeverage:
		return r.FoodBeverage
	case RoleMerchandise:
		return r.Merchandise
	case RoleOnline:
		return r.Online
	case RoleMisc:
		return r.Misc
	}
	return 0
}

// MarketingConfig holds either a single aggregate budget or a channel list.
type MarketingConfig struct {
	Mode         AllocationMode     `json:"mode" mapstructure:"mode" yaml:"mode"`
	Budget       float64            `json:"budget,omitempty" mapstructure:"budget" yaml:"budget,omitempty"`
	Policy       DistributionPolicy `json:"policy,omitempty" mapstructure:"policy" yaml:"policy,omitempty"`
	SpreadLength int                `json:"spread_length,omitempty" mapstructure:"spread_length" yaml:"spread_length,omitempty"`
	Channels     []MarketingChannel `json:"channels,omitempty" mapstructure:"channels" yaml:"channels,omitempty"`
}

// MarketingChannel is one marketing spend line.
type MarketingChannel struct {
	Name         string             `json:"name" mapstructure:"name" yaml:"name"`
	Budget       float64            `json:"budget" mapstructure:"budget" yaml:"budget"`
	Policy       DistributionPolicy `json:"policy" mapstructure:"policy" yaml:"policy"`
	SpreadLength int                `json:"spread_length,omitempty" mapstructure:"spread_length" yaml:"spread_length,omitempty"`
}

// AttendanceDriven reports whether any revenue depends on attendance.
func (m FinancialModel) AttendanceDriven() bool {
	if m.Event.InitialAttendance > 0 {
		return true
	}
	for _, s := range m.RevenueStreams {
		if s.PerAttendee() {
			return true
		}
	}
	return false
}

// PeriodLabel returns the display label for a 1-based period.
func (m FinancialModel) PeriodLabel(period int) string {
	return m.Duration.Unit.Label(period)
}

// Label returns "Week n" or "Month n".
func (u DurationUnit) Label(period int) string {
	if u == UnitWeekly {
		return "Week " + strconv.Itoa(period)
	}
	return "Month " + strconv.Itoa(period)
}
