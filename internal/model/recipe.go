package model

import "time"

// DefaultDaysSinceRoast is substituted when a recipe is created without a
// days-since-roast value.
const DefaultDaysSinceRoast = 15.0

// Recipe records a single brew of a bean: the conditions it was brewed
// under and the extraction parameters used. Ownership is transitive through
// the bean (Recipe -> Bean -> User).
type Recipe struct {
	ID     string `json:"id"`
	BeanID string `json:"bean_id"`
	// OwnerID is the transitive owner resolved at the bean join on reads.
	// It is never persisted on the recipe row and never serialized.
	OwnerID        string    `json:"-"`
	BrewDate       time.Time `json:"date"`
	Weather        string    `json:"weather"`
	Temperature    float64   `json:"temperature"`
	Humidity       int       `json:"humidity"`
	Dose           float64   `json:"gram"`
	Grind          float64   `json:"mesh"`
	ExtractionTime float64   `json:"extraction_time"`
	DaysSinceRoast float64   `json:"days_passed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HistoryEntry is the projection of a recipe used as prediction input.
// It carries exactly the fields the predictor consumes.
type HistoryEntry struct {
	Date           string  `json:"date"`
	Weather        string  `json:"weather"`
	Temperature    float64 `json:"temperature"`
	Humidity       int     `json:"humidity"`
	Dose           float64 `json:"gram"`
	Grind          float64 `json:"mesh"`
	ExtractionTime float64 `json:"extraction_time"`
	DaysSinceRoast float64 `json:"days_passed"`
}
