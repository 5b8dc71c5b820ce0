package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	BeansCreated           uint64
	RecipesCreated         uint64
	PredictionsRequested   uint64
	PredictionsSucceeded   uint64
	PredictionsRejected    uint64
	PredictionsUnavailable uint64
	WeatherLiveReadings    uint64
	WeatherFallbacks       uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	beansCreated           uint64
	recipesCreated         uint64
	predictionsRequested   uint64
	predictionsSucceeded   uint64
	predictionsRejected    uint64
	predictionsUnavailable uint64
	weatherLiveReadings    uint64
	weatherFallbacks       uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		BeansCreated:           atomic.LoadUint64(&m.beansCreated),
		RecipesCreated:         atomic.LoadUint64(&m.recipesCreated),
		PredictionsRequested:   atomic.LoadUint64(&m.predictionsRequested),
		PredictionsSucceeded:   atomic.LoadUint64(&m.predictionsSucceeded),
		PredictionsRejected:    atomic.LoadUint64(&m.predictionsRejected),
		PredictionsUnavailable: atomic.LoadUint64(&m.predictionsUnavailable),
		WeatherLiveReadings:    atomic.LoadUint64(&m.weatherLiveReadings),
		WeatherFallbacks:       atomic.LoadUint64(&m.weatherFallbacks),
	}
}

// IncBeanCreated increments the bean created counter.
func (m *InMemoryRecorder) IncBeanCreated() {
	atomic.AddUint64(&m.beansCreated, 1)
}

// IncRecipeCreated increments the recipe created counter.
func (m *InMemoryRecorder) IncRecipeCreated() {
	atomic.AddUint64(&m.recipesCreated, 1)
}

// IncPredictionRequested increments the prediction requested counter.
func (m *InMemoryRecorder) IncPredictionRequested() {
	atomic.AddUint64(&m.predictionsRequested, 1)
}

// IncPredictionSucceeded increments the prediction succeeded counter.
func (m *InMemoryRecorder) IncPredictionSucceeded() {
	atomic.AddUint64(&m.predictionsSucceeded, 1)
}

// IncPredictionRejected increments the prediction rejected counter.
func (m *InMemoryRecorder) IncPredictionRejected() {
	atomic.AddUint64(&m.predictionsRejected, 1)
}

// IncPredictionUnavailable increments the predictor unavailable counter.
func (m *InMemoryRecorder) IncPredictionUnavailable() {
	atomic.AddUint64(&m.predictionsUnavailable, 1)
}

// IncWeatherLiveReading increments the live weather reading counter.
func (m *InMemoryRecorder) IncWeatherLiveReading() {
	atomic.AddUint64(&m.weatherLiveReadings, 1)
}

// IncWeatherFallback increments the weather fallback counter.
func (m *InMemoryRecorder) IncWeatherFallback() {
	atomic.AddUint64(&m.weatherFallbacks, 1)
}
