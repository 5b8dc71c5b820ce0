package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brewlog/brewlog/internal/cache"
	"github.com/brewlog/brewlog/internal/metrics"
	"github.com/brewlog/brewlog/internal/model"
	"github.com/brewlog/brewlog/internal/predictor"
	"github.com/brewlog/brewlog/internal/repository"
)

// Prediction service errors.
var (
	// ErrPredictorUnavailable covers transport-level predictor failures:
	// refused connections, timeouts, cancelled contexts.
	ErrPredictorUnavailable = errors.New("prediction service is unavailable")
)

// PredictionRejectedError carries the business reason the predictor refused
// a request, extracted from its structured error body.
type PredictionRejectedError struct {
	Detail string
}

func (e *PredictionRejectedError) Error() string {
	return e.Detail
}

// historyDays is the lookback window for brew history.
const historyDays = 365

// historyStore is the slice of the repository the prediction flow reads.
type historyStore interface {
	GetBeanHistory(ctx context.Context, ownerID, beanName string, since time.Time) ([]model.HistoryEntry, error)
	GetBeanOrigin(ctx context.Context, ownerID, beanName string) (string, error)
}

// predictorClient calls the external prediction model.
type predictorClient interface {
	Predict(ctx context.Context, req *model.EnrichedPredictionRequest) (*model.PredictionResult, error)
}

// weatherProvider yields a current reading, falling back internally.
type weatherProvider interface {
	Current(ctx context.Context) *model.WeatherReading
}

// PredictionService assembles brew history, enriches prediction requests
// with bean origin and forwards them to the predictor.
type PredictionService struct {
	store      historyStore
	predictor  predictorClient
	weather    weatherProvider
	cache      *cache.Cache
	weatherTTL time.Duration
	metrics    metrics.Recorder
}

// NewPredictionService creates a new PredictionService.
func NewPredictionService(store historyStore, pc predictorClient, wp weatherProvider, c *cache.Cache, weatherTTL time.Duration, recorder metrics.Recorder) *PredictionService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &PredictionService{
		store:      store,
		predictor:  pc,
		weather:    wp,
		cache:      c,
		weatherTTL: weatherTTL,
		metrics:    recorder,
	}
}

// History returns the caller's brews of the named bean over the last year,
// oldest first. A bean with no brews yields an empty slice, not an error.
func (s *PredictionService) History(ctx context.Context, caller *model.User, beanName string) ([]model.HistoryEntry, error) {
	if beanName == "" {
		return nil, invalidInput("bean_name is required")
	}
	since := time.Now().UTC().AddDate(0, 0, -historyDays)
	return s.store.GetBeanHistory(ctx, caller.ID, beanName, since)
}

// Predict enriches the request with the caller's bean origin and forwards
// it to the predictor. An unknown bean name degrades to the default origin
// label rather than failing the prediction.
func (s *PredictionService) Predict(ctx context.Context, caller *model.User, req *model.PredictionRequest) (*model.PredictionResult, error) {
	if err := validatePredictionRequest(req); err != nil {
		return nil, err
	}

	s.metrics.IncPredictionRequested()

	origin, err := s.store.GetBeanOrigin(ctx, caller.ID, req.BeanName)
	if err != nil {
		if !errors.Is(err, repository.ErrBeanNotFound) {
			return nil, fmt.Errorf("failed to resolve bean origin: %w", err)
		}
		origin = model.DefaultBeanOrigin
	}

	enriched := &model.EnrichedPredictionRequest{
		BeanName:       req.BeanName,
		BeanOrigin:     origin,
		Date:           req.Date,
		Weather:        req.Weather,
		Temperature:    req.Temperature,
		Humidity:       req.Humidity,
		DaysSinceRoast: req.DaysSinceRoast,
	}

	result, err := s.predictor.Predict(ctx, enriched)
	if err != nil {
		var pe *predictor.Error
		switch {
		case errors.As(err, &pe):
			s.metrics.IncPredictionRejected()
			return nil, &PredictionRejectedError{Detail: pe.Detail}
		case errors.Is(err, predictor.ErrUnavailable):
			s.metrics.IncPredictionUnavailable()
			return nil, fmt.Errorf("%w: %v", ErrPredictorUnavailable, err)
		}
		return nil, err
	}

	s.metrics.IncPredictionSucceeded()

	return result, nil
}

// CurrentWeather returns the current reading, cache first. Only live
// readings are cached; the fallback reading is recomputed each call.
func (s *PredictionService) CurrentWeather(ctx context.Context) *model.WeatherReading {
	if cached, err := s.cache.GetWeatherReading(ctx); err == nil && cached != nil {
		return cached
	}

	reading := s.weather.Current(ctx)
	if reading.Fallback {
		s.metrics.IncWeatherFallback()
		return reading
	}

	s.metrics.IncWeatherLiveReading()
	// Serving the reading matters more than caching it.
	_ = s.cache.SetWeatherReading(ctx, reading, s.weatherTTL)
	return reading
}

// validatePredictionRequest checks the required prediction fields.
func validatePredictionRequest(req *model.PredictionRequest) error {
	if req.BeanName == "" {
		return invalidInput("bean_name is required")
	}
	if req.Date == "" {
		return invalidInput("date is required")
	}
	if req.Weather == "" {
		return invalidInput("weather is required")
	}
	if req.Temperature == nil {
		return invalidInput("temperature is required")
	}
	if req.Humidity == nil {
		return invalidInput("humidity is required")
	}
	if req.DaysSinceRoast != nil && *req.DaysSinceRoast < 0 {
		return invalidInput("days_passed must not be negative")
	}
	return nil
}
