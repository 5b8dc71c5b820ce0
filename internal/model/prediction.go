package model

import "encoding/json"

// DefaultBeanOrigin is substituted when a prediction names a bean the caller
// does not own (or that does not exist). Prediction degrades instead of failing.
const DefaultBeanOrigin = "Other"

// PredictionRequest is the inbound prediction payload. DaysSinceRoast is
// optional; the predictor applies its own default when it is nil.
type PredictionRequest struct {
	BeanName       string   `json:"bean_name"`
	Date           string   `json:"date"`
	Weather        string   `json:"weather"`
	Temperature    *float64 `json:"temperature"`
	Humidity       *float64 `json:"humidity"`
	DaysSinceRoast *float64 `json:"days_passed,omitempty"`
}

// EnrichedPredictionRequest is the outbound predictor payload: the original
// fields plus the bean origin resolved from storage.
type EnrichedPredictionRequest struct {
	BeanName       string   `json:"bean_name"`
	BeanOrigin     string   `json:"bean_origin"`
	Date           string   `json:"date"`
	Weather        string   `json:"weather"`
	Temperature    *float64 `json:"temperature"`
	Humidity       *float64 `json:"humidity"`
	DaysSinceRoast *float64 `json:"days_passed,omitempty"`
}

// PredictionResult is the predictor's response, passed through verbatim.
// The payload is opaque to this service; only the predictor defines its shape.
type PredictionResult struct {
	Body json.RawMessage
}
