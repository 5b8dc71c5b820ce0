package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/brewlog/brewlog/internal/metrics"
	"github.com/brewlog/brewlog/internal/model"
	"github.com/brewlog/brewlog/internal/repository"
)

// Recipe service errors.
var (
	ErrRecipeNotFound = errors.New("recipe not found")
)

// RecipeService handles brewing recipe business logic.
type RecipeService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(repo *repository.Repository, recorder metrics.Recorder) *RecipeService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &RecipeService{repo: repo, metrics: recorder}
}

// CreateRecipeInput defines input for recording a brew.
type CreateRecipeInput struct {
	BeanID         string
	BrewDate       time.Time
	Weather        string
	Temperature    float64
	Humidity       int
	Dose           float64
	Grind          float64
	ExtractionTime float64
	DaysSinceRoast *float64
}

// CreateRecipe records a brew against one of the caller's beans. A recipe
// can only ever hang off a bean the caller owns; anything else is rejected
// as invalid input and nothing is persisted.
func (s *RecipeService) CreateRecipe(ctx context.Context, caller *model.User, input CreateRecipeInput) (*model.Recipe, error) {
	if input.BeanID == "" {
		return nil, invalidInput("bean_id is required")
	}
	if input.BrewDate.IsZero() {
		return nil, invalidInput("date is required")
	}
	if err := validateBrewFields(input.Weather, input.Dose, input.Grind, input.ExtractionTime); err != nil {
		return nil, err
	}

	bean, err := s.repo.GetBeanByID(ctx, input.BeanID)
	if err != nil && !errors.Is(err, repository.ErrBeanNotFound) {
		return nil, err
	}
	if err != nil || !ownsResource(caller, bean.OwnerID) {
		return nil, invalidInput("bean_id does not reference one of your beans")
	}

	daysSinceRoast := model.DefaultDaysSinceRoast
	if input.DaysSinceRoast != nil {
		if *input.DaysSinceRoast < 0 {
			return nil, invalidInput("days_passed must not be negative")
		}
		daysSinceRoast = *input.DaysSinceRoast
	}

	now := time.Now().UTC()
	recipe := &model.Recipe{
		ID:             ulid.Make().String(),
		BeanID:         bean.ID,
		OwnerID:        bean.OwnerID,
		BrewDate:       input.BrewDate,
		Weather:        input.Weather,
		Temperature:    input.Temperature,
		Humidity:       input.Humidity,
		Dose:           input.Dose,
		Grind:          input.Grind,
		ExtractionTime: input.ExtractionTime,
		DaysSinceRoast: daysSinceRoast,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	s.metrics.IncRecipeCreated()

	return recipe, nil
}

// GetRecipe retrieves one of the caller's recipes. Foreign recipes read as
// absent.
func (s *RecipeService) GetRecipe(ctx context.Context, caller *model.User, id string) (*model.Recipe, error) {
	recipe, err := s.repo.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if !ownsResource(caller, recipe.OwnerID) {
		return nil, ErrRecipeNotFound
	}
	return recipe, nil
}

// ListRecipes returns the caller's recipes, newest brew first.
func (s *RecipeService) ListRecipes(ctx context.Context, caller *model.User) ([]*model.Recipe, error) {
	return s.repo.ListRecipesByOwner(ctx, caller.ID)
}

// ListRecipesForUser returns the recipes of an explicitly named user.
func (s *RecipeService) ListRecipesForUser(ctx context.Context, caller *model.User, userID string) ([]*model.Recipe, error) {
	if !mayListUser(caller, userID) {
		return nil, ErrForbidden
	}
	return s.repo.ListRecipesByOwner(ctx, userID)
}

// ListRecipesByBean returns the caller's recipes for one bean.
func (s *RecipeService) ListRecipesByBean(ctx context.Context, caller *model.User, beanID string) ([]*model.Recipe, error) {
	bean, err := s.repo.GetBeanByID(ctx, beanID)
	if err != nil {
		if errors.Is(err, repository.ErrBeanNotFound) {
			return nil, ErrBeanNotFound
		}
		return nil, err
	}
	if !ownsResource(caller, bean.OwnerID) {
		return nil, ErrBeanNotFound
	}
	return s.repo.ListRecipesByBean(ctx, beanID)
}

// ListRecipesByDateRange returns the caller's recipes with brew dates in
// [start, end], both bounds inclusive.
func (s *RecipeService) ListRecipesByDateRange(ctx context.Context, caller *model.User, start, end time.Time) ([]*model.Recipe, error) {
	if start.IsZero() || end.IsZero() {
		return nil, invalidInput("start and end dates are required")
	}
	if end.Before(start) {
		return nil, invalidInput("end date must not be before start date")
	}
	return s.repo.ListRecipesByDateRange(ctx, caller.ID, start, end)
}

// ListRecipesByWeather returns the caller's recipes brewed under the given
// weather label.
func (s *RecipeService) ListRecipesByWeather(ctx context.Context, caller *model.User, weather string) ([]*model.Recipe, error) {
	if weather == "" {
		return nil, invalidInput("weather label is required")
	}
	return s.repo.ListRecipesByWeather(ctx, caller.ID, weather)
}

// ListRecipesByTemperatureRange returns the caller's recipes brewed at an
// ambient temperature in [min, max].
func (s *RecipeService) ListRecipesByTemperatureRange(ctx context.Context, caller *model.User, min, max float64) ([]*model.Recipe, error) {
	if max < min {
		return nil, invalidInput("max temperature must not be below min")
	}
	return s.repo.ListRecipesByTemperatureRange(ctx, caller.ID, min, max)
}

// ListRecipesByHumidityRange returns the caller's recipes brewed at a
// humidity in [min, max].
func (s *RecipeService) ListRecipesByHumidityRange(ctx context.Context, caller *model.User, min, max int) ([]*model.Recipe, error) {
	if min < 0 || max > 100 {
		return nil, invalidInput("humidity must be between 0 and 100")
	}
	if max < min {
		return nil, invalidInput("max humidity must not be below min")
	}
	return s.repo.ListRecipesByHumidityRange(ctx, caller.ID, min, max)
}

// UpdateRecipeInput defines input for updating a recipe. Only brewing
// parameters are mutable; bean and owner references never change.
type UpdateRecipeInput struct {
	BrewDate       *time.Time
	Weather        *string
	Temperature    *float64
	Humidity       *int
	Dose           *float64
	Grind          *float64
	ExtractionTime *float64
	DaysSinceRoast *float64
}

// UpdateRecipe updates a recipe's brewing parameters.
func (s *RecipeService) UpdateRecipe(ctx context.Context, caller *model.User, id string, input UpdateRecipeInput) (*model.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if input.BrewDate != nil {
		if input.BrewDate.IsZero() {
			return nil, invalidInput("date is required")
		}
		recipe.BrewDate = *input.BrewDate
	}
	if input.Weather != nil {
		recipe.Weather = *input.Weather
	}
	if input.Temperature != nil {
		recipe.Temperature = *input.Temperature
	}
	if input.Humidity != nil {
		recipe.Humidity = *input.Humidity
	}
	if input.Dose != nil {
		recipe.Dose = *input.Dose
	}
	if input.Grind != nil {
		recipe.Grind = *input.Grind
	}
	if input.ExtractionTime != nil {
		recipe.ExtractionTime = *input.ExtractionTime
	}
	if input.DaysSinceRoast != nil {
		if *input.DaysSinceRoast < 0 {
			return nil, invalidInput("days_passed must not be negative")
		}
		recipe.DaysSinceRoast = *input.DaysSinceRoast
	}

	if err := validateBrewFields(recipe.Weather, recipe.Dose, recipe.Grind, recipe.ExtractionTime); err != nil {
		return nil, err
	}
	recipe.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateRecipe(ctx, recipe); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	return recipe, nil
}

// DeleteRecipe removes one of the caller's recipes.
func (s *RecipeService) DeleteRecipe(ctx context.Context, caller *model.User, id string) error {
	if _, err := s.GetRecipe(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.DeleteRecipe(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	return nil
}

// validateBrewFields checks the brewing parameters shared by create and
// update.
func validateBrewFields(weather string, dose, grind, extractionTime float64) error {
	if weather == "" {
		return invalidInput("weather is required")
	}
	if utf8.RuneCountInString(weather) > maxNameLength {
		return invalidInput(fmt.Sprintf("weather must be at most %d characters", maxNameLength))
	}
	if dose <= 0 {
		return invalidInput("gram must be positive")
	}
	if grind <= 0 {
		return invalidInput("mesh must be positive")
	}
	if extractionTime <= 0 {
		return invalidInput("extraction_time must be positive")
	}
	return nil
}
