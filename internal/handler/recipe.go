package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brewlog/brewlog/internal/handler/dto"
	"github.com/brewlog/brewlog/internal/service"
)

// RecipeHandler handles HTTP requests for recipe operations.
type RecipeHandler struct {
	svc    *service.RecipeService
	logger *slog.Logger
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(svc *service.RecipeService, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/recipes.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	var req dto.CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	var brewDate time.Time
	if req.Date != "" {
		parsed, err := dto.ParseBrewDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "date must be formatted YYYY-MM-DD")
			return
		}
		brewDate = parsed
	}

	recipe, err := h.svc.CreateRecipe(r.Context(), caller, service.CreateRecipeInput{
		BeanID:         req.BeanID,
		BrewDate:       brewDate,
		Weather:        req.Weather,
		Temperature:    req.Temperature,
		Humidity:       req.Humidity,
		Dose:           req.Gram,
		Grind:          req.Mesh,
		ExtractionTime: req.ExtractionTime,
		DaysSinceRoast: req.DaysPassed,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("recipe_created",
		"recipe_id", recipe.ID,
		"bean_id", recipe.BeanID,
	)

	writeJSON(w, http.StatusCreated, dto.ToRecipeResponse(recipe))
}

// Get handles GET /api/v1/recipes/{id}.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	recipe, err := h.svc.GetRecipe(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeResponse(recipe))
}

// List handles GET /api/v1/recipes.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	recipes, err := h.svc.ListRecipes(r.Context(), caller)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeListResponse(recipes))
}

// ListForUser handles GET /api/v1/recipes/user/{userID}.
func (h *RecipeHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	recipes, err := h.svc.ListRecipesForUser(r.Context(), caller, chi.URLParam(r, "userID"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeListResponse(recipes))
}

// ListByBean handles GET /api/v1/recipes/bean/{beanID}.
func (h *RecipeHandler) ListByBean(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	recipes, err := h.svc.ListRecipesByBean(r.Context(), caller, chi.URLParam(r, "beanID"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeListResponse(recipes))
}

// ListByDateRange handles GET /api/v1/recipes/date-range?start=&end=.
// Both bounds are inclusive.
func (h *RecipeHandler) ListByDateRange(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	query := r.URL.Query()
	start, err := dto.ParseBrewDate(query.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "start must be formatted YYYY-MM-DD")
		return
	}
	end, err := dto.ParseBrewDate(query.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "end must be formatted YYYY-MM-DD")
		return
	}

	recipes, err := h.svc.ListRecipesByDateRange(r.Context(), caller, start, end)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeListResponse(recipes))
}

// ListByWeather handles GET /api/v1/recipes/weather/{label}.
func (h *RecipeHandler) ListByWeather(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	recipes, err := h.svc.ListRecipesByWeather(r.Context(), caller, chi.URLParam(r, "label"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeListResponse(recipes))
}

// ListByTemperatureRange handles GET /api/v1/recipes/temperature-range?min=&max=.
func (h *RecipeHandler) ListByTemperatureRange(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	query := r.URL.Query()
	min, err := strconv.ParseFloat(query.Get("min"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "min must be a number")
		return
	}
	max, err := strconv.ParseFloat(query.Get("max"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "max must be a number")
		return
	}

	recipes, err := h.svc.ListRecipesByTemperatureRange(r.Context(), caller, min, max)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeListResponse(recipes))
}

// ListByHumidityRange handles GET /api/v1/recipes/humidity-range?min=&max=.
func (h *RecipeHandler) ListByHumidityRange(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	query := r.URL.Query()
	min, err := strconv.Atoi(query.Get("min"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "min must be an integer")
		return
	}
	max, err := strconv.Atoi(query.Get("max"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "max must be an integer")
		return
	}

	recipes, err := h.svc.ListRecipesByHumidityRange(r.Context(), caller, min, max)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeListResponse(recipes))
}

// Update handles PUT /api/v1/recipes/{id}.
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	var req dto.UpdateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.UpdateRecipeInput{
		Weather:        req.Weather,
		Temperature:    req.Temperature,
		Humidity:       req.Humidity,
		Dose:           req.Gram,
		Grind:          req.Mesh,
		ExtractionTime: req.ExtractionTime,
		DaysSinceRoast: req.DaysPassed,
	}
	if req.Date != nil {
		parsed, err := dto.ParseBrewDate(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "date must be formatted YYYY-MM-DD")
			return
		}
		input.BrewDate = &parsed
	}

	recipe, err := h.svc.UpdateRecipe(r.Context(), caller, chi.URLParam(r, "id"), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("recipe_updated", "recipe_id", recipe.ID)

	writeJSON(w, http.StatusOK, dto.ToRecipeResponse(recipe))
}

// Delete handles DELETE /api/v1/recipes/{id}.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := mustCaller(w, r)
	if caller == nil {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteRecipe(r.Context(), caller, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("recipe_deleted", "recipe_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps recipe service errors to HTTP responses.
func (h *RecipeHandler) handleServiceError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message)
	case errors.Is(err, service.ErrRecipeNotFound):
		writeError(w, http.StatusNotFound, "RECIPE_NOT_FOUND", "Recipe not found")
	case errors.Is(err, service.ErrBeanNotFound):
		writeError(w, http.StatusNotFound, "BEAN_NOT_FOUND", "Bean not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Access to this resource is forbidden")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
