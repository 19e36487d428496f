package config

import "estatequery/server/internal/models"

// IntentRule maps a keyword set to the intent it signals. Rules are
// evaluated top to bottom and the first rule with a keyword contained
// in the query wins, so a query carrying both comparison and trend
// vocabulary classifies as comparison.
type IntentRule struct {
	Intent   models.Intent
	Keywords []string
}

// DefaultIntentRules is the built-in classification rule table. Note
// that the price rule maps to comparison and the demand rule maps to
// trend; they are deliberate aliases, not separate intents.
var DefaultIntentRules = []IntentRule{
	{
		Intent:   models.IntentListing,
		Keywords: []string{"list", "show", "all properties", "tell me about", "details"},
	},
	{
		Intent:   models.IntentComparison,
		Keywords: []string{"compare", "comparison", "vs", "versus", "better", "which"},
	},
	{
		Intent:   models.IntentTrend,
		Keywords: []string{"trend", "growth", "increase", "decrease", "over time", "year", "historical"},
	},
	{
		Intent:   models.IntentRecommendation,
		Keywords: []string{"recommend", "best", "invest", "buy", "good investment", "value"},
	},
	{
		Intent:   models.IntentComparison,
		Keywords: []string{"price", "cost", "afford", "expensive"},
	},
	{
		Intent:   models.IntentTrend,
		Keywords: []string{"demand", "popular", "interested", "sales"},
	},
}
