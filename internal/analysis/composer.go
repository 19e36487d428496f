package analysis

import (
	"fmt"
	"strings"

	"estatequery/server/internal/models"
)

// Composer renders deterministic, template-based summaries per
// intent. It is the non-AI path: same aggregate views as the prompt
// builder, stable output, no external dependency.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Compose picks the rendering template for the classified intent and
// fills it from the context. Same context in, same text out.
func (c *Composer) Compose(ctx MarketContext, properties []models.Property) string {
	switch ctx.Query.Intent {
	case models.IntentListing:
		return c.composeListing(ctx, properties)
	case models.IntentComparison:
		return c.composeComparison(ctx)
	case models.IntentTrend:
		return c.composeTrend(ctx)
	case models.IntentRecommendation:
		return c.composeRecommendation(ctx)
	default:
		return c.composeListing(ctx, properties)
	}
}

func (c *Composer) composeListing(ctx MarketContext, properties []models.Property) string {
	var b strings.Builder

	scope := ctx.Query.Location
	if scope == "" {
		scope = "Database"
	}
	fmt.Fprintf(&b, "**Properties in %s** (%d total)\n\n", scope, ctx.TotalCount)

	for _, group := range ctx.ByType {
		fmt.Fprintf(&b, "**%s** (%d)\n", typeLabel(group.Key), group.Count)
		i := 0
		for _, p := range properties {
			if p.PropertyType != group.Key {
				continue
			}
			i++
			fmt.Fprintf(&b, "%d. %s | Year: %d | Price: %s | Demand: %.0f\n",
				i, p.Location, p.Year, formatCurrency(p.Price), p.DemandScore)
		}
		b.WriteString("\n")
	}

	b.WriteString("**Summary Stats:**\n")
	fmt.Fprintf(&b, "- Avg Price: %s\n", formatCurrency(ctx.PriceStats.Avg))
	fmt.Fprintf(&b, "- Price Range: %s - %s\n",
		formatCurrency(ctx.PriceStats.Min), formatCurrency(ctx.PriceStats.Max))
	fmt.Fprintf(&b, "- Avg Demand: %.0f\n", ctx.DemandStats.Avg)

	return b.String()
}

func typeLabel(t string) string {
	if t == "" {
		return t
	}
	return strings.ToUpper(t[:1]) + t[1:]
}

func (c *Composer) composeComparison(ctx MarketContext) string {
	var b strings.Builder
	b.WriteString("**Comparison Analysis**\n\n")
	b.WriteString("**By Location:**\n")

	for _, g := range ctx.ByLocation {
		fmt.Fprintf(&b, "\n**%s**\n", g.Key)
		fmt.Fprintf(&b, "- Properties: %d\n", g.Count)
		fmt.Fprintf(&b, "- Avg Price: %s\n", formatCurrency(g.AvgPrice))
		fmt.Fprintf(&b, "- Price Range: %s - %s\n",
			formatCurrency(g.MinPrice), formatCurrency(g.MaxPrice))
		fmt.Fprintf(&b, "- Avg Demand: %.0f\n", g.AvgDemand)
		fmt.Fprintf(&b, "- High Demand: %d properties\n", g.HighDemandCount)
	}

	return b.String()
}

func (c *Composer) composeTrend(ctx MarketContext) string {
	var b strings.Builder
	b.WriteString("**Market Trends Analysis**\n\n")
	b.WriteString("**Price Trends by Year:**\n")

	for _, pt := range ctx.Chart {
		fmt.Fprintf(&b, "\n%d:\n", pt.Year)
		fmt.Fprintf(&b, "- Avg Price: %s\n", formatCurrency(pt.AvgPrice))
		fmt.Fprintf(&b, "- Avg Demand: %.0f\n", pt.AvgDemand)
	}

	// Overall movement from first to last tracked year
	if len(ctx.Chart) > 1 {
		first := ctx.Chart[0]
		last := ctx.Chart[len(ctx.Chart)-1]
		if first.AvgPrice > 0 {
			change := round2((last.AvgPrice - first.AvgPrice) / first.AvgPrice * 100)
			fmt.Fprintf(&b, "\n**Price Trend:** %s from %d to %d\n",
				formatPercent(change), first.Year, last.Year)
		}
	}

	return b.String()
}

func (c *Composer) composeRecommendation(ctx MarketContext) string {
	var b strings.Builder
	b.WriteString("**Investment Recommendations**\n\n")

	b.WriteString("**Top Value Picks** (High Demand + Affordable):\n")
	for _, pick := range ctx.Segments.TopValue {
		fmt.Fprintf(&b, "- %s | %s | Demand: %.0f\n",
			pick.Property.Location, formatCurrency(pick.Property.Price),
			pick.Property.DemandScore)
	}

	b.WriteString("\n**Premium Segment** (High Price + High Demand):\n")
	for _, pick := range ctx.Segments.Premium {
		fmt.Fprintf(&b, "- %s | %s | Demand: %.0f\n",
			pick.Property.Location, formatCurrency(pick.Property.Price),
			pick.Property.DemandScore)
	}

	b.WriteString("\n**Budget Options** (Low Price):\n")
	for _, pick := range ctx.Segments.Budget {
		fmt.Fprintf(&b, "- %s | %s | Demand: %.0f\n",
			pick.Property.Location, formatCurrency(pick.Property.Price),
			pick.Property.DemandScore)
	}

	return b.String()
}
