package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncBeanCreated is a no-op.
func (n *NoopRecorder) IncBeanCreated() {}

// IncRecipeCreated is a no-op.
func (n *NoopRecorder) IncRecipeCreated() {}

// IncPredictionRequested is a no-op.
func (n *NoopRecorder) IncPredictionRequested() {}

// IncPredictionSucceeded is a no-op.
func (n *NoopRecorder) IncPredictionSucceeded() {}

// IncPredictionRejected is a no-op.
func (n *NoopRecorder) IncPredictionRejected() {}

// IncPredictionUnavailable is a no-op.
func (n *NoopRecorder) IncPredictionUnavailable() {}

// IncWeatherLiveReading is a no-op.
func (n *NoopRecorder) IncWeatherLiveReading() {}

// IncWeatherFallback is a no-op.
func (n *NoopRecorder) IncWeatherFallback() {}
