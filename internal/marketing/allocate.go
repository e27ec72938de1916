// Package marketing spreads marketing budgets across projection periods.
package marketing

import "github.com/theirongolddev/fcast/internal/model"

// Allocate returns the share of budget spent in a 1-based period.
func Allocate(budget float64, policy model.DistributionPolicy, spreadLength, duration, period int) float64 {
	if budget == 0 || duration <= 0 || period < 1 {
		return 0
	}
	switch policy {
	case model.PolicyUpfront:
		if period == 1 {
			return budget
		}
		return 0
	case model.PolicySpreadCustom:
		if spreadLength <= 0 {
			return budget / float64(duration)
		}
		if period <= spreadLength {
			return budget / float64(spreadLength)
		}
		return 0
	default:
		return budget / float64(duration)
	}
}

// PeriodSpend returns total marketing spend for a period under cfg.
func PeriodSpend(cfg model.MarketingConfig, duration, period int) float64 {
	switch cfg.Mode {
	case model.ModeAggregate:
		return Allocate(cfg.Budget, cfg.Policy, cfg.SpreadLength, duration, period)
	case model.ModePerChannel:
		var total float64
		for _, ch := range cfg.Channels {
			total += Allocate(ch.Budget, ch.Policy, ch.SpreadLength, duration, period)
		}
		return total
	default:
		return 0
	}
}

// TotalSpend returns the marketing spend that lands inside the projection
// horizon.
func TotalSpend(cfg model.MarketingConfig, duration int) float64 {
	var total float64
	for p := 1; p <= duration; p++ {
		total += PeriodSpend(cfg, duration, p)
	}
	return total
}

// ChannelSpend returns each channel's in-horizon spend keyed by channel name.
func ChannelSpend(cfg model.MarketingConfig, duration int) map[string]float64 {
	out := make(map[string]float64, len(cfg.Channels))
	if cfg.Mode != model.ModePerChannel {
		return out
	}
	for _, ch := range cfg.Channels {
		for p := 1; p <= duration; p++ {
			out[ch.Name] += Allocate(ch.Budget, ch.Policy, ch.SpreadLength, duration, p)
		}
	}
	return out
}
