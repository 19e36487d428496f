package analysis

import (
	"sort"

	"estatequery/server/internal/models"
)

// HighDemandThreshold is the demand score above which a record counts
// as high demand in the location comparison.
const HighDemandThreshold = 2000

// Aggregation functions in this file are pure: they never mutate the
// record set, read external state, or remember anything between calls.
// Every view is recomputed from scratch per request.

// ChartSeries groups records by year and returns average price and
// average demand score per year, two-decimal rounded, ascending by
// year.
func ChartSeries(properties []models.Property) []models.ChartPoint {
	type bucket struct {
		priceSum  float64
		demandSum float64
		count     int
	}
	byYear := make(map[int]*bucket)
	for _, p := range properties {
		b, ok := byYear[p.Year]
		if !ok {
			b = &bucket{}
			byYear[p.Year] = b
		}
		b.priceSum += p.Price
		b.demandSum += p.DemandScore
		b.count++
	}

	points := make([]models.ChartPoint, 0, len(byYear))
	for year, b := range byYear {
		points = append(points, models.ChartPoint{
			Year:      year,
			AvgPrice:  round2(b.priceSum / float64(b.count)),
			AvgDemand: round2(b.demandSum / float64(b.count)),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Year < points[j].Year
	})
	return points
}

// TableRows projects each record into one flat display row. Optional
// fields stay nil so they serialize as null rather than zero.
func TableRows(properties []models.Property) []models.TableRow {
	rows := make([]models.TableRow, 0, len(properties))
	for _, p := range properties {
		rows = append(rows, models.TableRow{
			Location:     p.Location,
			Type:         p.PropertyType,
			Price:        p.Price,
			PricePerSqft: p.PricePerSqft,
			Area:         p.AreaSqft,
			Year:         p.Year,
			Demand:       p.Demand,
			DemandScore:  p.DemandScore,
		})
	}
	return rows
}

// TypeBreakdown groups by property type: count, average price and
// price range per type, sorted by type name. Unpriced records count
// toward the group but not its price statistics.
func TypeBreakdown(properties []models.Property) []models.GroupSummary {
	groups := groupBy(properties, func(p models.Property) string {
		return p.PropertyType
	})
	return summarizeGroups(groups)
}

// LocationComparison groups by location: count, price statistics,
// average demand and the number of records above the high-demand
// threshold, sorted by location name.
func LocationComparison(properties []models.Property) []models.GroupSummary {
	groups := groupBy(properties, func(p models.Property) string {
		return p.Location
	})
	return summarizeGroups(groups)
}

func groupBy(properties []models.Property, key func(models.Property) string) map[string][]models.Property {
	groups := make(map[string][]models.Property)
	for _, p := range properties {
		k := key(p)
		groups[k] = append(groups[k], p)
	}
	return groups
}

func summarizeGroups(groups map[string][]models.Property) []models.GroupSummary {
	summaries := make([]models.GroupSummary, 0, len(groups))
	for key, group := range groups {
		priceVals := prices(group)
		min, max := minMax(priceVals)

		var demandSum float64
		highDemand := 0
		for _, p := range group {
			demandSum += p.DemandScore
			if p.DemandScore > HighDemandThreshold {
				highDemand++
			}
		}

		summaries = append(summaries, models.GroupSummary{
			Key:             key,
			Count:           len(group),
			AvgPrice:        round2(mean(priceVals)),
			MinPrice:        min,
			MaxPrice:        max,
			AvgDemand:       round2(demandSum / float64(len(group))),
			HighDemandCount: highDemand,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Key < summaries[j].Key
	})
	return summaries
}

// TrendDeltas computes the percentage price change between each pair
// of consecutive years present in the set. A year without any priced
// record has no defined average: the pairs touching it are skipped
// outright, never re-paired across the gap.
func TrendDeltas(properties []models.Property) []models.TrendDelta {
	pricesByYear := make(map[int][]float64)
	for _, p := range properties {
		if _, ok := pricesByYear[p.Year]; !ok {
			pricesByYear[p.Year] = nil
		}
		if p.Price > 0 {
			pricesByYear[p.Year] = append(pricesByYear[p.Year], p.Price)
		}
	}

	years := make([]int, 0, len(pricesByYear))
	for year := range pricesByYear {
		years = append(years, year)
	}
	sort.Ints(years)

	var deltas []models.TrendDelta
	for i := 1; i < len(years); i++ {
		prev, cur := years[i-1], years[i]
		if len(pricesByYear[prev]) == 0 || len(pricesByYear[cur]) == 0 {
			continue
		}
		avgPrev := mean(pricesByYear[prev])
		avgCur := mean(pricesByYear[cur])

		change := round2((avgCur - avgPrev) / avgPrev * 100)
		direction := "DOWN"
		if change > 0 {
			direction = "UP"
		}
		deltas = append(deltas, models.TrendDelta{
			FromYear:      prev,
			ToYear:        cur,
			ChangePercent: change,
			Direction:     direction,
		})
	}
	return deltas
}

// ROIScore is the return-per-dollar metric: demand score relative to
// price, normalized to a readable scale. Undefined for unpriced
// records.
func ROIScore(p models.Property) float64 {
	return p.DemandScore / p.Price * 100000
}

func roiRating(score float64) string {
	switch {
	case score > 80:
		return "Excellent"
	case score > 50:
		return "Good"
	default:
		return "Fair"
	}
}

// InvestmentRanking returns the top five records by ROI score.
// Records priced at zero are excluded, never divided by.
func InvestmentRanking(properties []models.Property) []models.InvestmentPick {
	var picks []models.InvestmentPick
	for _, p := range properties {
		if p.Price <= 0 {
			continue
		}
		score := ROIScore(p)
		picks = append(picks, models.InvestmentPick{
			Property: p,
			Score:    round2(score),
			Rating:   roiRating(score),
		})
	}
	sortPicksDesc(picks)
	return topN(picks, 5)
}

// InvestmentScore is the affordability-adjusted demand metric. It is
// a distinct formula from ROIScore and the two must not be merged:
// one answers "return per dollar", the other "demand worth paying
// for".
func InvestmentScore(p models.Property) float64 {
	return p.DemandScore*0.6 - p.Price/100000*0.4
}

// TopProperties returns the top five records by investment score.
func TopProperties(properties []models.Property) []models.InvestmentPick {
	picks := make([]models.InvestmentPick, 0, len(properties))
	for _, p := range properties {
		picks = append(picks, models.InvestmentPick{
			Property: p,
			Score:    round2(InvestmentScore(p)),
		})
	}
	sortPicksDesc(picks)
	return topN(picks, 5)
}

// Segment buckets the set for recommendation answers. The value score
// weighs demand against price, both relative to the set averages:
// top five by value, premium stock (above-average price and demand,
// top three), and the three cheapest records.
func Segment(properties []models.Property) models.ValueSegments {
	avgPrice := mean(prices(properties))
	avgDemand := mean(demandScores(properties))

	scored := make([]models.InvestmentPick, 0, len(properties))
	for _, p := range properties {
		var score float64
		if avgDemand > 0 {
			score += p.DemandScore / avgDemand
		}
		if avgPrice > 0 {
			score -= p.Price / avgPrice
		}
		scored = append(scored, models.InvestmentPick{
			Property: p,
			Score:    round2(score),
		})
	}
	sortPicksDesc(scored)

	var premium []models.InvestmentPick
	for _, pick := range scored {
		if pick.Property.Price > avgPrice && pick.Property.DemandScore > avgDemand {
			premium = append(premium, pick)
		}
	}

	budget := make([]models.InvestmentPick, len(scored))
	copy(budget, scored)
	sort.SliceStable(budget, func(i, j int) bool {
		return budget[i].Property.Price < budget[j].Property.Price
	})

	return models.ValueSegments{
		TopValue: topN(scored, 5),
		Premium:  topN(premium, 3),
		Budget:   topN(budget, 3),
	}
}

func sortPicksDesc(picks []models.InvestmentPick) {
	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].Score > picks[j].Score
	})
}

func topN(picks []models.InvestmentPick, n int) []models.InvestmentPick {
	if len(picks) > n {
		return picks[:n]
	}
	return picks
}
