package usecase

import "github.com/pricelens/backend/internal/domain"

// Aggregate reduces the parsed prices of one item into summary statistics.
// The input order is preserved in the output so consumers can inspect prices
// in the order the listings appeared on the target marketplace.
//
// An empty input yields nil Min/Avg and an empty (non-nil) price slice: "no
// listings found" must stay distinguishable from "free listing" downstream.
func Aggregate(prices []float64) domain.PriceStats {
	stats := domain.PriceStats{
		Prices: make([]float64, 0, len(prices)),
	}
	stats.Prices = append(stats.Prices, prices...)

	if len(prices) == 0 {
		return stats
	}

	min := prices[0]
	sum := 0.0
	for _, p := range prices {
		if p < min {
			min = p
		}
		sum += p
	}
	avg := roundToCents(sum / float64(len(prices)))

	stats.Min = &min
	stats.Avg = &avg
	return stats
}
