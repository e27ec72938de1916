// Package forecast turns a financial model into a rounded period-by-period
// time series with cumulative totals.
package forecast

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/projection"
)

// ErrNonFinite is returned when a period evaluates to NaN or infinity.
var ErrNonFinite = errors.New("non-finite value in projection")

// Generator produces forecasts and records failures on its logger.
type Generator struct {
	log zerolog.Logger
}

// NewGenerator returns a Generator that records failures on l.
func NewGenerator(l zerolog.Logger) *Generator {
	return &Generator{log: l}
}

// Generate returns one record per period of m. On any failure it logs once
// and returns an empty series.
func Generate(m model.FinancialModel) []model.PeriodRecord {
	return NewGenerator(log.Logger).Generate(m)
}

// Generate returns one record per period of m. On any failure it logs once
// and returns an empty series.
func (g *Generator) Generate(m model.FinancialModel) []model.PeriodRecord {
	records, err := Try(m)
	if err != nil {
		g.log.Warn().Err(err).
			Str("model", m.DisplayName()).
			Int("duration", m.Duration.Length).
			Msg("forecast failed")
		return []model.PeriodRecord{}
	}
	return records
}

// Try is Generate with the failure returned instead of logged.
func Try(m model.FinancialModel) (records []model.PeriodRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = fmt.Errorf("forecast panicked: %v", r)
		}
	}()

	m = model.Resolve(m)
	if err := model.Validate(m); err != nil {
		return nil, err
	}

	n := m.Duration.Length
	records = make([]model.PeriodRecord, 0, n)
	var cumRevenue, cumCost, cumProfit decimal.Decimal
	for period := 1; period <= n; period++ {
		p := projection.Project(m, period)
		if !finite(p.Revenue, p.Cost, p.Attendance, p.MarketingCost) {
			return nil, fmt.Errorf("%w: period %d", ErrNonFinite, period)
		}

		revenue := ceil(p.Revenue)
		cost := ceil(p.Cost)
		profit := ceil(p.Profit())
		cumRevenue = cumRevenue.Add(revenue)
		cumCost = cumCost.Add(cost)
		cumProfit = cumProfit.Add(profit)

		rec := model.PeriodRecord{
			Period:            period,
			Label:             m.PeriodLabel(period),
			Revenue:           revenue.InexactFloat64(),
			Cost:              cost.InexactFloat64(),
			Profit:            profit.InexactFloat64(),
			CumulativeRevenue: cumRevenue.InexactFloat64(),
			CumulativeCost:    cumCost.InexactFloat64(),
			CumulativeProfit:  cumProfit.InexactFloat64(),
			MarketingCost:     p.MarketingCost,
		}
		if p.HasAttendance {
			a := p.Attendance
			rec.Attendance = &a
		}
		records = append(records, rec)
	}
	return records, nil
}

// ceil rounds v up to a whole unit after discarding float noise below 1e-6,
// so 1100.0000000000002 stays 1100.
func ceil(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(6).Ceil()
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
