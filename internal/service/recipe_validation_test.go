package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/brewlog/brewlog/internal/model"
)

func TestCreateRecipeValidationErrors(t *testing.T) {
	svc := &RecipeService{}
	caller := &model.User{ID: "u1", Role: model.RoleUser}
	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input CreateRecipeInput
	}{
		{
			name:  "missing_bean_id",
			input: CreateRecipeInput{BrewDate: date, Weather: "Clear", Dose: 15, Grind: 5, ExtractionTime: 120},
		},
		{
			name:  "missing_date",
			input: CreateRecipeInput{BeanID: "b1", Weather: "Clear", Dose: 15, Grind: 5, ExtractionTime: 120},
		},
		{
			name:  "missing_weather",
			input: CreateRecipeInput{BeanID: "b1", BrewDate: date, Dose: 15, Grind: 5, ExtractionTime: 120},
		},
		{
			name:  "weather_label_too_long",
			input: CreateRecipeInput{BeanID: "b1", BrewDate: date, Weather: strings.Repeat("雨", 51), Dose: 15, Grind: 5, ExtractionTime: 120},
		},
		{
			name:  "zero_dose",
			input: CreateRecipeInput{BeanID: "b1", BrewDate: date, Weather: "Clear", Grind: 5, ExtractionTime: 120},
		},
		{
			name:  "zero_grind",
			input: CreateRecipeInput{BeanID: "b1", BrewDate: date, Weather: "Clear", Dose: 15, ExtractionTime: 120},
		},
		{
			name:  "zero_extraction_time",
			input: CreateRecipeInput{BeanID: "b1", BrewDate: date, Weather: "Clear", Dose: 15, Grind: 5},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := svc.CreateRecipe(context.Background(), caller, test.input)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !IsValidationError(err) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestRangeQueryValidation(t *testing.T) {
	svc := &RecipeService{}
	caller := &model.User{ID: "u1", Role: model.RoleUser}
	ctx := context.Background()

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -7)

	if _, err := svc.ListRecipesByDateRange(ctx, caller, start, end); !IsValidationError(err) {
		t.Fatalf("inverted date range: expected ValidationError, got %v", err)
	}
	if _, err := svc.ListRecipesByDateRange(ctx, caller, time.Time{}, start); !IsValidationError(err) {
		t.Fatalf("zero start: expected ValidationError, got %v", err)
	}
	if _, err := svc.ListRecipesByWeather(ctx, caller, ""); !IsValidationError(err) {
		t.Fatalf("empty weather: expected ValidationError, got %v", err)
	}
	if _, err := svc.ListRecipesByTemperatureRange(ctx, caller, 30, 10); !IsValidationError(err) {
		t.Fatalf("inverted temperature range: expected ValidationError, got %v", err)
	}
	if _, err := svc.ListRecipesByHumidityRange(ctx, caller, -5, 50); !IsValidationError(err) {
		t.Fatalf("negative humidity: expected ValidationError, got %v", err)
	}
	if _, err := svc.ListRecipesByHumidityRange(ctx, caller, 0, 150); !IsValidationError(err) {
		t.Fatalf("humidity above 100: expected ValidationError, got %v", err)
	}
}
