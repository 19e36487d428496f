package query

import (
	"strings"

	"estatequery/server/config"
	"estatequery/server/internal/models"
)

// IntentClassifier assigns exactly one intent to a query using an
// ordered rule table of keyword sets. Deterministic substring
// matching, no learned model.
type IntentClassifier struct {
	rules []config.IntentRule
}

func NewIntentClassifier(rules []config.IntentRule) *IntentClassifier {
	return &IntentClassifier{rules: rules}
}

// Classify returns the intent of the first rule whose keyword set has
// a substring match in the query, checked in rule order. Queries
// matching no rule are general. Pure function.
func (c *IntentClassifier) Classify(queryText string) models.Intent {
	lower := strings.ToLower(queryText)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Intent
			}
		}
	}
	return models.IntentGeneral
}

// Parse runs classification and location extraction in one step.
func Parse(classifier *IntentClassifier, extractor *LocationExtractor, queryText string) models.ParsedQuery {
	return models.ParsedQuery{
		RawText:  queryText,
		Location: extractor.Extract(queryText),
		Intent:   classifier.Classify(queryText),
	}
}
