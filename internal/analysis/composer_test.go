package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"estatequery/server/internal/models"
)

func fixtureProperties() []models.Property {
	return []models.Property{
		{Location: "Pune", PropertyType: models.TypeResidential, Price: 500000, Year: 2022, DemandScore: 2500},
		{Location: "Pune", PropertyType: models.TypeCommercial, Price: 900000, Year: 2023, DemandScore: 1800},
		{Location: "Wakad", PropertyType: models.TypeResidential, Price: 300000, Year: 2023, DemandScore: 2200},
	}
}

func TestComposer_Listing(t *testing.T) {
	properties := fixtureProperties()
	ctx := BuildContext(models.ParsedQuery{
		RawText:  "list all properties in Pune",
		Intent:   models.IntentListing,
		Location: "Pune",
	}, properties)

	out := NewComposer().Compose(ctx, properties)

	assert.Contains(t, out, "**Properties in Pune** (3 total)")
	assert.Contains(t, out, "**Residential** (2)")
	assert.Contains(t, out, "**Commercial** (1)")
	assert.Contains(t, out, "**Summary Stats:**")
	// avg of 500000, 900000, 300000
	assert.Contains(t, out, "- Avg Price: $566,667")
	assert.Contains(t, out, "- Price Range: $300,000 - $900,000")
}

func TestComposer_Listing_NoLocationScope(t *testing.T) {
	properties := fixtureProperties()
	ctx := BuildContext(models.ParsedQuery{
		RawText: "show everything",
		Intent:  models.IntentListing,
	}, properties)

	out := NewComposer().Compose(ctx, properties)
	assert.Contains(t, out, "**Properties in Database** (3 total)")
}

func TestComposer_Comparison(t *testing.T) {
	properties := fixtureProperties()
	ctx := BuildContext(models.ParsedQuery{
		RawText: "compare locations",
		Intent:  models.IntentComparison,
	}, properties)

	out := NewComposer().Compose(ctx, properties)

	assert.Contains(t, out, "**Comparison Analysis**")
	assert.Contains(t, out, "**Pune**")
	assert.Contains(t, out, "**Wakad**")
	assert.Contains(t, out, "- Properties: 2")
	// Pune has one score above 2000
	assert.Contains(t, out, "- High Demand: 1 properties")
}

func TestComposer_Trend(t *testing.T) {
	properties := fixtureProperties()
	ctx := BuildContext(models.ParsedQuery{
		RawText: "price trend over time",
		Intent:  models.IntentTrend,
	}, properties)

	out := NewComposer().Compose(ctx, properties)

	assert.Contains(t, out, "**Market Trends Analysis**")
	assert.Contains(t, out, "2022:")
	assert.Contains(t, out, "2023:")
	// 500000 -> 600000 overall
	assert.Contains(t, out, "**Price Trend:** +20.0% from 2022 to 2023")
}

func TestComposer_Trend_SingleYearOmitsOverall(t *testing.T) {
	properties := []models.Property{{Location: "Pune", Year: 2023, Price: 100}}
	ctx := BuildContext(models.ParsedQuery{Intent: models.IntentTrend}, properties)

	out := NewComposer().Compose(ctx, properties)
	assert.NotContains(t, out, "**Price Trend:**")
}

func TestComposer_Recommendation(t *testing.T) {
	properties := fixtureProperties()
	ctx := BuildContext(models.ParsedQuery{
		RawText: "best investment",
		Intent:  models.IntentRecommendation,
	}, properties)

	out := NewComposer().Compose(ctx, properties)

	assert.Contains(t, out, "**Investment Recommendations**")
	assert.Contains(t, out, "**Top Value Picks** (High Demand + Affordable):")
	assert.Contains(t, out, "**Premium Segment** (High Price + High Demand):")
	assert.Contains(t, out, "**Budget Options** (Low Price):")
	assert.Contains(t, out, "Wakad | $300,000")
}

func TestComposer_GeneralFallsBackToListing(t *testing.T) {
	properties := fixtureProperties()
	ctx := BuildContext(models.ParsedQuery{
		RawText: "hmm",
		Intent:  models.IntentGeneral,
	}, properties)

	out := NewComposer().Compose(ctx, properties)
	assert.True(t, strings.HasPrefix(out, "**Properties in Database**"))
}

func TestComposer_Deterministic(t *testing.T) {
	properties := fixtureProperties()
	composer := NewComposer()

	for _, intent := range []models.Intent{
		models.IntentListing,
		models.IntentComparison,
		models.IntentTrend,
		models.IntentRecommendation,
		models.IntentGeneral,
	} {
		ctx := BuildContext(models.ParsedQuery{RawText: "q", Intent: intent}, properties)
		first := composer.Compose(ctx, properties)
		second := composer.Compose(ctx, properties)
		assert.Equal(t, first, second, "intent %s", intent)
	}
}
