// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Resource metrics
	IncBeanCreated()
	IncRecipeCreated()

	// Prediction pipeline metrics
	IncPredictionRequested()
	IncPredictionSucceeded()
	IncPredictionRejected()    // predictor returned a structured business error
	IncPredictionUnavailable() // predictor could not be reached

	// Weather adapter metrics
	IncWeatherLiveReading()
	IncWeatherFallback()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
