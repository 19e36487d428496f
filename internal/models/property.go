package models

import "time"

// Property type values stored in the properties table.
const (
	TypeResidential = "residential"
	TypeCommercial  = "commercial"
	TypeIndustrial  = "industrial"
)

// A record's identity is (location, property_type, year); re-ingesting
// a dataset updates rows in place instead of duplicating them.
type Property struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Location     string    `json:"location" gorm:"uniqueIndex:idx_property_identity"`
	PropertyType string    `json:"property_type" gorm:"uniqueIndex:idx_property_identity;index"`
	Price        float64   `json:"price"`
	PricePerSqft *float64  `json:"price_per_sqft"`
	AreaSqft     *float64  `json:"area_sqft"`
	Year         int       `json:"year" gorm:"uniqueIndex:idx_property_identity"`
	Demand       int       `json:"demand"`
	DemandScore  float64   `json:"demand_score"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Property) TableName() string {
	return "properties"
}

// QueryLog records one completed analysis request. Appended once per
// request, never updated or deleted by the server.
type QueryLog struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	UserQuery       string    `json:"user_query"`
	LocationFilter  string    `json:"location_filter"`
	ResponseSummary string    `json:"response_summary"`
	ChartData       string    `json:"chart_data"`
	TableData       string    `json:"table_data"`
	CreatedAt       time.Time `json:"created_at"`
}

func (QueryLog) TableName() string {
	return "query_logs"
}

// YearRange is an inclusive [Start, End] constraint on Property.Year.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Filter narrows the property set. Zero-value fields pass everything;
// supplied constraints combine with logical AND.
type Filter struct {
	Location     string     `json:"location"`
	PropertyType string     `json:"property_type"`
	Years        *YearRange `json:"years"`
}

func (f Filter) IsEmpty() bool {
	return f.Location == "" && f.PropertyType == "" && f.Years == nil
}
