// Package weather provides the live weather adapter with a fixed
// fallback reading. The service never blocks a prediction on weather-API
// availability: every failure mode yields the default reading instead.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/brewlog/brewlog/internal/model"
)

// DefaultBaseURL is the OpenWeather current-weather endpoint.
const DefaultBaseURL = "http://api.openweathermap.org/data/2.5/weather"

// Fallback reading substituted on any provider failure.
const (
	FallbackTemperature = 20.0
	FallbackHumidity    = 60.0
	FallbackCondition   = "Clear"
	FallbackDescription = "clear sky"
)

// maxBodySize bounds how much of a provider response is read.
const maxBodySize = 256 * 1024

// Config holds the weather provider settings.
type Config struct {
	// APIKey for the provider. An empty key is a fallback trigger,
	// not a startup failure.
	APIKey string
	// Lat and Lon identify the fixed location readings are taken for.
	Lat float64
	Lon float64
	// Location is the human-readable label attached to readings.
	Location string
	// BaseURL overrides the provider endpoint (tests).
	BaseURL string
	// Timeout bounds the provider call.
	Timeout time.Duration
}

// Client fetches current weather for a fixed location.
type Client struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// New creates a weather client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Location == "" {
		cfg.Location = "Kyoto, Japan"
	}
	return &Client{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// providerResponse is the subset of the OpenWeather payload we consume.
type providerResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// Current returns the current weather reading for the configured location.
// Any failure (missing credential, non-2xx, network error, malformed body)
// is absorbed and the fixed fallback reading is returned with Fallback set.
func (c *Client) Current(ctx context.Context) *model.WeatherReading {
	reading, err := c.fetchLive(ctx)
	if err != nil {
		c.logger.Warn("weather provider unavailable, using fallback reading",
			slog.String("error", err.Error()),
		)
		return c.FallbackReading()
	}
	return reading
}

// FallbackReading returns the fixed default reading.
func (c *Client) FallbackReading() *model.WeatherReading {
	return &model.WeatherReading{
		Location:    c.cfg.Location,
		Temperature: FallbackTemperature,
		Humidity:    FallbackHumidity,
		Condition:   FallbackCondition,
		Description: FallbackDescription,
		Timestamp:   time.Now().UTC(),
		Fallback:    true,
	}
}

// fetchLive queries the provider once. No retries; a timeout is a failure
// like any other.
func (c *Client) fetchLive(ctx context.Context) (*model.WeatherReading, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("weather API key not configured")
	}

	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.4f", c.cfg.Lat))
	params.Set("lon", fmt.Sprintf("%.4f", c.cfg.Lon))
	params.Set("appid", c.cfg.APIKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather provider returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read weather response: %w", err)
	}

	var parsed providerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	reading := &model.WeatherReading{
		Location:    c.cfg.Location,
		Temperature: parsed.Main.Temp,
		Humidity:    parsed.Main.Humidity,
		Condition:   FallbackCondition,
		Description: FallbackDescription,
		Timestamp:   time.Now().UTC(),
	}
	if len(parsed.Weather) > 0 {
		reading.Condition = parsed.Weather[0].Main
		reading.Description = parsed.Weather[0].Description
	}

	return reading, nil
}
