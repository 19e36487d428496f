package analysis

import (
	"fmt"
	"sort"
	"strings"

	"estatequery/server/internal/models"
)

// MarketContext bundles every aggregate view computed for one request.
// It is built fresh from the filtered record set each time and doubles
// as the structured context handed to the prompt builder.
type MarketContext struct {
	Query      models.ParsedQuery
	TotalCount int
	Locations  []string

	PriceStats  models.PriceStats
	DemandStats models.DemandStats

	Chart        []models.ChartPoint
	Table        []models.TableRow
	ByType       []models.GroupSummary
	ByLocation   []models.GroupSummary
	Trends       []models.TrendDelta
	ROIRanking   []models.InvestmentPick
	TopRanked    []models.InvestmentPick
	Segments     models.ValueSegments
}

// BuildContext computes every aggregate view over the filtered set.
func BuildContext(parsed models.ParsedQuery, properties []models.Property) MarketContext {
	return MarketContext{
		Query:       parsed,
		TotalCount:  len(properties),
		Locations:   distinctLocations(properties),
		PriceStats:  PriceStatistics(properties),
		DemandStats: DemandStatistics(properties),
		Chart:       ChartSeries(properties),
		Table:       TableRows(properties),
		ByType:      TypeBreakdown(properties),
		ByLocation:  LocationComparison(properties),
		Trends:      TrendDeltas(properties),
		ROIRanking:  InvestmentRanking(properties),
		TopRanked:   TopProperties(properties),
		Segments:    Segment(properties),
	}
}

func distinctLocations(properties []models.Property) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range properties {
		if p.Location == "" {
			continue
		}
		if _, ok := seen[p.Location]; !ok {
			seen[p.Location] = struct{}{}
			out = append(out, p.Location)
		}
	}
	sort.Strings(out)
	return out
}

// BuildPrompt renders the context into the instruction text sent to
// the external generator. The generator is opaque: everything it may
// state about the data must already be in this prompt.
func (c MarketContext) BuildPrompt() string {
	var b strings.Builder

	b.WriteString("You are a real-estate market analyst. Answer the user's question using only the data below.\n\n")
	fmt.Fprintf(&b, "User question: %s\n", c.Query.RawText)
	fmt.Fprintf(&b, "Detected intent: %s\n", c.Query.Intent)
	if c.Query.Location != "" {
		fmt.Fprintf(&b, "Location filter: %s\n", c.Query.Location)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Dataset: %d properties across %d locations (%s)\n",
		c.TotalCount, len(c.Locations), strings.Join(c.Locations, ", "))
	fmt.Fprintf(&b, "Prices: avg %s, median %s, range %s - %s, std dev %s\n",
		formatCurrency(c.PriceStats.Avg), formatCurrency(c.PriceStats.Median),
		formatCurrency(c.PriceStats.Min), formatCurrency(c.PriceStats.Max),
		formatCurrency(c.PriceStats.StdDev))
	fmt.Fprintf(&b, "Demand scores: avg %.0f, median %.0f, range %.0f - %.0f, %d properties above 1.2x median\n\n",
		c.DemandStats.Avg, c.DemandStats.Median,
		c.DemandStats.Min, c.DemandStats.Max, c.DemandStats.AboveMedian)

	if len(c.Chart) > 0 {
		b.WriteString("Yearly averages:\n")
		for _, pt := range c.Chart {
			fmt.Fprintf(&b, "- %d: avg price %s, avg demand %.0f\n",
				pt.Year, formatCurrency(pt.AvgPrice), pt.AvgDemand)
		}
		b.WriteString("\n")
	}

	if len(c.Trends) > 0 {
		b.WriteString("Year-over-year price changes:\n")
		for _, d := range c.Trends {
			fmt.Fprintf(&b, "- %d to %d: %s (%s)\n",
				d.FromYear, d.ToYear, formatPercent(d.ChangePercent), d.Direction)
		}
		b.WriteString("\n")
	}

	if len(c.ByType) > 0 {
		b.WriteString("By property type:\n")
		for _, g := range c.ByType {
			fmt.Fprintf(&b, "- %s: %d properties, avg %s, range %s - %s\n",
				g.Key, g.Count, formatCurrency(g.AvgPrice),
				formatCurrency(g.MinPrice), formatCurrency(g.MaxPrice))
		}
		b.WriteString("\n")
	}

	if len(c.ByLocation) > 0 {
		b.WriteString("By location:\n")
		for _, g := range c.ByLocation {
			fmt.Fprintf(&b, "- %s: %d properties, avg %s, avg demand %.0f, %d high-demand\n",
				g.Key, g.Count, formatCurrency(g.AvgPrice), g.AvgDemand, g.HighDemandCount)
		}
		b.WriteString("\n")
	}

	if len(c.ROIRanking) > 0 {
		b.WriteString("Top ROI picks (demand per dollar):\n")
		for _, pick := range c.ROIRanking {
			fmt.Fprintf(&b, "- %s (%d): %s, demand %.0f, ROI score %.1f (%s)\n",
				pick.Property.Location, pick.Property.Year,
				formatCurrency(pick.Property.Price), pick.Property.DemandScore,
				pick.Score, pick.Rating)
		}
		b.WriteString("\n")
	}

	if len(c.Segments.TopValue) > 0 {
		b.WriteString("Top value picks (high demand, affordable):\n")
		for _, pick := range c.Segments.TopValue {
			fmt.Fprintf(&b, "- %s | %s | demand %.0f\n",
				pick.Property.Location, formatCurrency(pick.Property.Price),
				pick.Property.DemandScore)
		}
		b.WriteString("\n")
	}

	b.WriteString("Write a concise, factual market summary answering the question. Do not invent numbers.")
	return b.String()
}

// formatCurrency renders a dollar amount with thousands separators
// and no decimals, e.g. 1234567.89 -> "$1,234,568".
func formatCurrency(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	whole := fmt.Sprintf("%.0f", v)
	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

// formatPercent renders a percentage with an explicit sign and one
// decimal, e.g. 12.34 -> "+12.3%".
func formatPercent(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}
