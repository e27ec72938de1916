package forecast

import "github.com/theirongolddev/fcast/internal/model"

// Totals summarizes a forecast.
type Totals struct {
	Revenue   float64 `json:"revenue"`
	Cost      float64 `json:"cost"`
	Profit    float64 `json:"profit"`
	Margin    float64 `json:"margin"`
	Marketing float64 `json:"marketing"`
	Periods   int     `json:"periods"`

	PeakAttendance float64 `json:"peak_attendance,omitempty"`
	BreakEven      int     `json:"break_even_period,omitempty"`
}

// Summarize computes totals from a forecast. Margin is profit over revenue,
// or 0 when there is no revenue. BreakEven is the first period whose
// cumulative profit is non-negative, or 0 if it never is.
func Summarize(records []model.PeriodRecord) Totals {
	var t Totals
	t.Periods = len(records)
	if len(records) == 0 {
		return t
	}
	last := records[len(records)-1]
	t.Revenue = last.CumulativeRevenue
	t.Cost = last.CumulativeCost
	t.Profit = last.CumulativeProfit
	if t.Revenue != 0 {
		t.Margin = t.Profit / t.Revenue
	}
	for _, r := range records {
		t.Marketing += r.MarketingCost
		if r.Attendance != nil && *r.Attendance > t.PeakAttendance {
			t.PeakAttendance = *r.Attendance
		}
		if t.BreakEven == 0 && r.CumulativeProfit >= 0 {
			t.BreakEven = r.Period
		}
	}
	return t
}
