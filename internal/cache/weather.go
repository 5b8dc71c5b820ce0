package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brewlog/brewlog/internal/model"
)

// weatherCacheKey holds the most recent successful live reading.
// A single fixed location is queried, so one key suffices.
const weatherCacheKey = "weather:current"

// GetWeatherReading retrieves the cached live weather reading.
// Returns nil on a miss or corrupted entry; callers fall through to the
// live provider.
func (c *Cache) GetWeatherReading(ctx context.Context) (*model.WeatherReading, error) {
	data, err := c.client.Get(ctx, weatherCacheKey).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var reading model.WeatherReading
	if err := json.Unmarshal(data, &reading); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &reading, nil
}

// SetWeatherReading caches a successful live weather reading.
// Fallback readings are never cached; they are constant anyway and caching
// them would mask provider recovery.
func (c *Cache) SetWeatherReading(ctx context.Context, reading *model.WeatherReading, ttl time.Duration) error {
	if reading.Fallback {
		return nil
	}

	data, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to marshal weather reading: %w", err)
	}

	if err := c.client.Set(ctx, weatherCacheKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache weather reading: %w", err)
	}

	return nil
}
