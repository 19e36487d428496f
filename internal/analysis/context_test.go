package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"estatequery/server/internal/models"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0, "$0"},
		{999, "$999"},
		{1000, "$1,000"},
		{1234567.89, "$1,234,568"},
		{-2500, "-$2,500"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatCurrency(tt.value))
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+12.3%", formatPercent(12.34))
	assert.Equal(t, "-5.0%", formatPercent(-5))
	assert.Equal(t, "+0.0%", formatPercent(0))
}

func TestBuildContext(t *testing.T) {
	properties := fixtureProperties()
	parsed := models.ParsedQuery{
		RawText:  "compare Pune and Wakad",
		Intent:   models.IntentComparison,
		Location: "Pune",
	}

	ctx := BuildContext(parsed, properties)

	assert.Equal(t, parsed, ctx.Query)
	assert.Equal(t, 3, ctx.TotalCount)
	assert.Equal(t, []string{"Pune", "Wakad"}, ctx.Locations)
	assert.Len(t, ctx.ByLocation, 2)
	assert.Len(t, ctx.Chart, 2)
	assert.Len(t, ctx.Table, 3)
}

func TestBuildPrompt(t *testing.T) {
	properties := fixtureProperties()
	ctx := BuildContext(models.ParsedQuery{
		RawText:  "compare Pune and Wakad",
		Intent:   models.IntentComparison,
		Location: "Pune",
	}, properties)

	prompt := ctx.BuildPrompt()

	assert.Contains(t, prompt, "User question: compare Pune and Wakad")
	assert.Contains(t, prompt, "Detected intent: comparison")
	assert.Contains(t, prompt, "Location filter: Pune")
	assert.Contains(t, prompt, "Dataset: 3 properties across 2 locations (Pune, Wakad)")
	assert.Contains(t, prompt, "Yearly averages:")
	assert.Contains(t, prompt, "By location:")
	assert.Contains(t, prompt, "Do not invent numbers.")
}

func TestBuildPrompt_EmptySections(t *testing.T) {
	ctx := BuildContext(models.ParsedQuery{RawText: "q"}, nil)
	prompt := ctx.BuildPrompt()

	assert.NotContains(t, prompt, "Yearly averages:")
	assert.NotContains(t, prompt, "Year-over-year price changes:")
	assert.NotContains(t, prompt, "Top ROI picks")
	assert.NotContains(t, prompt, "Location filter:")
}
