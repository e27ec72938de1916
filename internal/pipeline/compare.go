package pipeline

import (
	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/scenario"
)

// Forecasts generates the forecast of every model in parallel. The result is
// indexed like models.
func Forecasts(models []model.FinancialModel, workers int) [][]model.PeriodRecord {
	return parallel(models, workers, forecast.Generate, nil, 0, len(models))
}

// Compare forecasts every model in parallel and aggregates the results. It
// returns the same comparison as scenario.Aggregate.
func Compare(models []model.FinancialModel, workers int) scenario.Comparison {
	return scenario.AggregateSeries(models, Forecasts(models, workers))
}

// CompareWithPresets applies the standard presets to baseline and compares
// the variants together with any extra delta sets.
func CompareWithPresets(baseline model.FinancialModel, workers int, extra ...model.ScenarioDeltas) scenario.Comparison {
	deltas := append(scenario.Presets(), extra...)
	return Compare(scenario.ApplyAll(baseline, deltas...), workers)
}
