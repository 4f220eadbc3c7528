package config

import "github.com/mbh206/aifinacker/internal/analytics"

// ResolveHeuristics applies file overrides on top of the built-in insight
// thresholds. Unset fields keep their defaults.
func ResolveHeuristics(cfg Config) analytics.Heuristics {
	h := analytics.DefaultHeuristics()
	o := cfg.Heuristics

	if o.IncreasePercent != nil {
		h.IncreasePercent = *o.IncreasePercent
	}
	if o.IncreaseNoiseFloor != nil {
		h.IncreaseNoiseFloor = *o.IncreaseNoiseFloor
	}
	if o.TopCategoryShare != nil {
		h.TopCategoryShare = *o.TopCategoryShare
	}
	if len(o.SavingsWatchlist) > 0 {
		h.SavingsWatchlist = o.SavingsWatchlist
	}
	if o.SavingsMonthlyAvg != nil {
		h.SavingsMonthlyAvg = *o.SavingsMonthlyAvg
	}
	if o.SavingsMinTxCount != nil {
		h.SavingsMinTxCount = *o.SavingsMinTxCount
	}
	if o.SavingsFallbackAvg != nil {
		h.SavingsFallbackAvg = *o.SavingsFallbackAvg
	}
	if o.TrailingMonths != nil {
		h.TrailingMonths = *o.TrailingMonths
	}

	return h
}
