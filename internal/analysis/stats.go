package analysis

import (
	"math"
	"sort"

	"estatequery/server/internal/models"
)

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// stdDev is the population standard deviation. Fewer than two samples
// have no spread to measure and yield 0.
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	avg := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - avg
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func prices(properties []models.Property) []float64 {
	var out []float64
	for _, p := range properties {
		if p.Price > 0 {
			out = append(out, p.Price)
		}
	}
	return out
}

func demandScores(properties []models.Property) []float64 {
	var out []float64
	for _, p := range properties {
		if p.DemandScore > 0 {
			out = append(out, p.DemandScore)
		}
	}
	return out
}

// PriceStatistics summarizes the prices of the given set. Records
// without a price are excluded from every statistic.
func PriceStatistics(properties []models.Property) models.PriceStats {
	vals := prices(properties)
	min, max := minMax(vals)
	return models.PriceStats{
		Min:    min,
		Max:    max,
		Avg:    round2(mean(vals)),
		Median: median(vals),
		StdDev: round2(stdDev(vals)),
	}
}

// DemandStatistics summarizes demand scores, including the count of
// records scoring above 1.2x the median.
func DemandStatistics(properties []models.Property) models.DemandStats {
	vals := demandScores(properties)
	min, max := minMax(vals)
	med := median(vals)

	above := 0
	for _, v := range vals {
		if v > 1.2*med {
			above++
		}
	}

	return models.DemandStats{
		Min:         min,
		Max:         max,
		Avg:         round2(mean(vals)),
		Median:      med,
		AboveMedian: above,
	}
}
