package models

// Intent is the classified purpose of a user query.
type Intent string

const (
	IntentListing        Intent = "listing"
	IntentComparison     Intent = "comparison"
	IntentTrend          Intent = "trend"
	IntentRecommendation Intent = "recommendation"
	IntentGeneral        Intent = "general"
)

// ParsedQuery is the per-request result of intent classification and
// location extraction. Ephemeral, never persisted.
type ParsedQuery struct {
	RawText  string `json:"raw_text"`
	Location string `json:"location,omitempty"`
	Intent   Intent `json:"intent"`
}

// ChartPoint is one year of the price/demand chart series.
type ChartPoint struct {
	Year      int     `json:"year"`
	AvgPrice  float64 `json:"avgPrice"`
	AvgDemand float64 `json:"avgDemand"`
}

// TableRow is the flat per-record projection served to the data table.
// Optional source fields surface as null, not zero.
type TableRow struct {
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	Price        float64  `json:"price"`
	PricePerSqft *float64 `json:"pricePerSqft"`
	Area         *float64 `json:"area"`
	Year         int      `json:"year"`
	Demand       int      `json:"demand"`
	DemandScore  float64  `json:"demandScore"`
}

// GroupSummary is one bucket of an aggregate view keyed by year,
// location or property type.
type GroupSummary struct {
	Key             string  `json:"key"`
	Count           int     `json:"count"`
	AvgPrice        float64 `json:"avg_price"`
	MinPrice        float64 `json:"min_price"`
	MaxPrice        float64 `json:"max_price"`
	AvgDemand       float64 `json:"avg_demand"`
	HighDemandCount int     `json:"high_demand_count"`
}

// TrendDelta is the percentage price change between two consecutive
// years that both have priced records.
type TrendDelta struct {
	FromYear      int     `json:"from_year"`
	ToYear        int     `json:"to_year"`
	ChangePercent float64 `json:"change_percent"`
	Direction     string  `json:"direction"`
}

// InvestmentPick is a record ranked by one of the scoring formulas.
type InvestmentPick struct {
	Property Property `json:"property"`
	Score    float64  `json:"score"`
	Rating   string   `json:"rating,omitempty"`
}

// ValueSegments buckets a record set for recommendation answers:
// high-demand affordable picks, premium stock, and cheapest options.
type ValueSegments struct {
	TopValue []InvestmentPick `json:"top_value"`
	Premium  []InvestmentPick `json:"premium"`
	Budget   []InvestmentPick `json:"budget"`
}

// PriceStats and DemandStats are the summary statistics blocks fed to
// the prompt builder and the /api/stats endpoint.
type PriceStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

type DemandStats struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Avg         float64 `json:"avg"`
	Median      float64 `json:"median"`
	AboveMedian int     `json:"above_median"`
}

// AnalysisResult is what the core pipeline returns to its caller.
type AnalysisResult struct {
	Summary   string       `json:"summary"`
	ChartData []ChartPoint `json:"chartData"`
	TableData []TableRow   `json:"tableData"`
	Count     int          `json:"count"`
	QueryType Intent       `json:"queryType"`
	Location  string       `json:"location,omitempty"`
	Generator string       `json:"generator"`
}
