package query

import "strings"

// LocationExtractor scans query text for known location names. The
// gazetteer is fixed at construction time so tests can substitute
// their own fixtures.
type LocationExtractor struct {
	locations []string
}

// NewLocationExtractor builds an extractor over the given gazetteer.
// List order is the tie-break: when a query mentions more than one
// known location, the first entry in the list wins.
func NewLocationExtractor(locations []string) *LocationExtractor {
	normalized := make([]string, len(locations))
	for i, loc := range locations {
		normalized[i] = strings.ToLower(loc)
	}
	return &LocationExtractor{locations: normalized}
}

// Extract returns the first gazetteer entry found as a substring of
// the query (case-insensitive), title-cased, or "" when the query
// mentions no known location. Deterministic, no side effects.
func (e *LocationExtractor) Extract(queryText string) string {
	lower := strings.ToLower(queryText)
	for _, loc := range e.locations {
		if strings.Contains(lower, loc) {
			return titleCase(loc)
		}
	}
	return ""
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
