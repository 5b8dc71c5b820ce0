package dto

import (
	"time"

	"github.com/brewlog/brewlog/internal/model"
)

// brewDateLayout is the wire format for brew dates.
const brewDateLayout = "2006-01-02"

// CreateRecipeRequest represents the request body for recording a brew.
type CreateRecipeRequest struct {
	BeanID         string   `json:"bean_id"`
	Date           string   `json:"date"`
	Weather        string   `json:"weather"`
	Temperature    float64  `json:"temperature"`
	Humidity       int      `json:"humidity"`
	Gram           float64  `json:"gram"`
	Mesh           float64  `json:"mesh"`
	ExtractionTime float64  `json:"extraction_time"`
	DaysPassed     *float64 `json:"days_passed,omitempty"`
}

// UpdateRecipeRequest represents the request body for updating a brew.
// Only brewing parameters are mutable.
type UpdateRecipeRequest struct {
	Date           *string  `json:"date,omitempty"`
	Weather        *string  `json:"weather,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
	Humidity       *int     `json:"humidity,omitempty"`
	Gram           *float64 `json:"gram,omitempty"`
	Mesh           *float64 `json:"mesh,omitempty"`
	ExtractionTime *float64 `json:"extraction_time,omitempty"`
	DaysPassed     *float64 `json:"days_passed,omitempty"`
}

// RecipeResponse represents a recipe in API responses.
type RecipeResponse struct {
	ID             string    `json:"id"`
	BeanID         string    `json:"bean_id"`
	Date           string    `json:"date"`
	Weather        string    `json:"weather"`
	Temperature    float64   `json:"temperature"`
	Humidity       int       `json:"humidity"`
	Gram           float64   `json:"gram"`
	Mesh           float64   `json:"mesh"`
	ExtractionTime float64   `json:"extraction_time"`
	DaysPassed     float64   `json:"days_passed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ParseBrewDate parses a YYYY-MM-DD wire date.
func ParseBrewDate(s string) (time.Time, error) {
	return time.Parse(brewDateLayout, s)
}

// ToRecipeResponse converts a Recipe model to RecipeResponse DTO.
func ToRecipeResponse(recipe *model.Recipe) *RecipeResponse {
	return &RecipeResponse{
		ID:             recipe.ID,
		BeanID:         recipe.BeanID,
		Date:           recipe.BrewDate.Format(brewDateLayout),
		Weather:        recipe.Weather,
		Temperature:    recipe.Temperature,
		Humidity:       recipe.Humidity,
		Gram:           recipe.Dose,
		Mesh:           recipe.Grind,
		ExtractionTime: recipe.ExtractionTime,
		DaysPassed:     recipe.DaysSinceRoast,
		CreatedAt:      recipe.CreatedAt,
		UpdatedAt:      recipe.UpdatedAt,
	}
}

// ToRecipeListResponse converts a slice of Recipe models. An empty list
// serializes as [] rather than null.
func ToRecipeListResponse(recipes []*model.Recipe) []RecipeResponse {
	responses := make([]RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		responses = append(responses, *ToRecipeResponse(recipe))
	}
	return responses
}
