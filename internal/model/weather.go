package model

import "time"

// WeatherReading is a point-in-time weather observation used to pre-fill
// brewing conditions. Fallback is true when the live provider could not be
// reached and the fixed default reading was substituted.
type WeatherReading struct {
	Location    string    `json:"location"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Condition   string    `json:"weather"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Fallback    bool      `json:"fallback"`
}
