package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/brewlog/brewlog/internal/model"
)

// ErrRecipeNotFound is returned when a recipe does not exist.
var ErrRecipeNotFound = errors.New("recipe not found")

// recipeColumns is the owner-joined projection used by every recipe read.
// Owner filtering happens at this join, never post-hoc in application code,
// so cross-owner rows are never materialized.
const recipeColumns = `
	r.id, r.bean_id, b.user_id,
	r.brew_date, r.weather, r.temperature, r.humidity,
	r.dose, r.grind, r.extraction_time, r.days_since_roast,
	r.created_at, r.updated_at
`

// CreateRecipe inserts a new recipe into the database.
func (r *Repository) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	query := `
		INSERT INTO recipes (id, bean_id, brew_date, weather, temperature, humidity,
			dose, grind, extraction_time, days_since_roast, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		recipe.ID,
		recipe.BeanID,
		recipe.BrewDate,
		recipe.Weather,
		recipe.Temperature,
		recipe.Humidity,
		recipe.Dose,
		recipe.Grind,
		recipe.ExtractionTime,
		recipe.DaysSinceRoast,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	return nil
}

// GetRecipeByID retrieves a recipe by its ID. The transitive owner is
// resolved at the bean join and populated on the returned model.
func (r *Repository) GetRecipeByID(ctx context.Context, id string) (*model.Recipe, error) {
	query := `
		SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN beans b ON r.bean_id = b.id
		WHERE r.id = $1
	`

	recipe, err := scanRecipe(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	return recipe, nil
}

// ListRecipesByOwner retrieves all recipes transitively owned by a user,
// newest first.
func (r *Repository) ListRecipesByOwner(ctx context.Context, ownerID string) ([]*model.Recipe, error) {
	query := `
		SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN beans b ON r.bean_id = b.id
		WHERE b.user_id = $1
		ORDER BY r.brew_date DESC
	`

	return r.queryRecipes(ctx, query, ownerID)
}

// ListRecipesByBean retrieves all recipes for a bean, newest first.
// Callers are responsible for checking the bean's ownership first.
func (r *Repository) ListRecipesByBean(ctx context.Context, beanID string) ([]*model.Recipe, error) {
	query := `
		SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN beans b ON r.bean_id = b.id
		WHERE r.bean_id = $1
		ORDER BY r.brew_date DESC
	`

	return r.queryRecipes(ctx, query, beanID)
}

// ListRecipesByDateRange retrieves an owner's recipes with brew dates in
// [start, end] inclusive, newest first.
func (r *Repository) ListRecipesByDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]*model.Recipe, error) {
	query := `
		SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN beans b ON r.bean_id = b.id
		WHERE b.user_id = $1 AND r.brew_date BETWEEN $2 AND $3
		ORDER BY r.brew_date DESC
	`

	return r.queryRecipes(ctx, query, ownerID, start, end)
}

// ListRecipesByWeather retrieves an owner's recipes with a given weather
// label, newest first.
func (r *Repository) ListRecipesByWeather(ctx context.Context, ownerID, weather string) ([]*model.Recipe, error) {
	query := `
		SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN beans b ON r.bean_id = b.id
		WHERE b.user_id = $1 AND r.weather = $2
		ORDER BY r.brew_date DESC
	`

	return r.queryRecipes(ctx, query, ownerID, weather)
}

// ListRecipesByTemperatureRange retrieves an owner's recipes brewed within
// a temperature range (inclusive), newest first.
func (r *Repository) ListRecipesByTemperatureRange(ctx context.Context, ownerID string, min, max float64) ([]*model.Recipe, error) {
	query := `
		SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN beans b ON r.bean_id = b.id
		WHERE b.user_id = $1 AND r.temperature BETWEEN $2 AND $3
		ORDER BY r.brew_date DESC
	`

	return r.queryRecipes(ctx, query, ownerID, min, max)
}

// ListRecipesByHumidityRange retrieves an owner's recipes brewed within
// a humidity range (inclusive), newest first.
func (r *Repository) ListRecipesByHumidityRange(ctx context.Context, ownerID string, min, max int) ([]*model.Recipe, error) {
	query := `
		SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN beans b ON r.bean_id = b.id
		WHERE b.user_id = $1 AND r.humidity BETWEEN $2 AND $3
		ORDER BY r.brew_date DESC
	`

	return r.queryRecipes(ctx, query, ownerID, min, max)
}

// GetBeanHistory returns the prediction projection of an owner's recipes for
// a bean name, restricted to brew dates on or after since, oldest first.
// An unknown bean name yields an empty slice, not an error.
func (r *Repository) GetBeanHistory(ctx context.Context, ownerID, beanName string, since time.Time) ([]model.HistoryEntry, error) {
	query := `
		SELECT r.brew_date, r.weather, r.temperature, r.humidity,
			r.dose, r.grind, r.extraction_time, r.days_since_roast
		FROM recipes r
		JOIN beans b ON r.bean_id = b.id
		WHERE b.user_id = $1 AND b.name = $2 AND r.brew_date >= $3
		ORDER BY r.brew_date ASC
	`

	rows, err := r.pool.Query(ctx, query, ownerID, beanName, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query bean history: %w", err)
	}
	defer rows.Close()

	history := make([]model.HistoryEntry, 0)
	for rows.Next() {
		var entry model.HistoryEntry
		var brewDate time.Time
		err := rows.Scan(
			&brewDate,
			&entry.Weather,
			&entry.Temperature,
			&entry.Humidity,
			&entry.Dose,
			&entry.Grind,
			&entry.ExtractionTime,
			&entry.DaysSinceRoast,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Date = brewDate.Format("2006-01-02")
		history = append(history, entry)
	}

	return history, rows.Err()
}

// UpdateRecipe updates a recipe's mutable brewing fields.
// The bean reference and identifiers are never updated.
func (r *Repository) UpdateRecipe(ctx context.Context, recipe *model.Recipe) error {
	query := `
		UPDATE recipes
		SET brew_date = $2, weather = $3, temperature = $4, humidity = $5,
			dose = $6, grind = $7, extraction_time = $8, days_since_roast = $9,
			updated_at = $10
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		recipe.ID,
		recipe.BrewDate,
		recipe.Weather,
		recipe.Temperature,
		recipe.Humidity,
		recipe.Dose,
		recipe.Grind,
		recipe.ExtractionTime,
		recipe.DaysSinceRoast,
		recipe.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

// DeleteRecipe removes a recipe by ID.
func (r *Repository) DeleteRecipe(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

// queryRecipes runs an owner-joined recipe query and scans all rows.
func (r *Repository) queryRecipes(ctx context.Context, query string, args ...any) ([]*model.Recipe, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*model.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	return recipes, rows.Err()
}

// scanRecipe scans an owner-joined recipe row.
func scanRecipe(row pgx.Row) (*model.Recipe, error) {
	var recipe model.Recipe
	err := row.Scan(
		&recipe.ID,
		&recipe.BeanID,
		&recipe.OwnerID,
		&recipe.BrewDate,
		&recipe.Weather,
		&recipe.Temperature,
		&recipe.Humidity,
		&recipe.Dose,
		&recipe.Grind,
		&recipe.ExtractionTime,
		&recipe.DaysSinceRoast,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}
