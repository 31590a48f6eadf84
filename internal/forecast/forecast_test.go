package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildHistory(costs []float64) []Point {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	points := make([]Point, 0, len(costs))
	for i, cost := range costs {
		points = append(points, Point{Day: start.AddDate(0, 0, i), Cost: cost})
	}
	return points
}

func TestForecastInsufficientData(t *testing.T) {
	result := Forecast(buildHistory([]float64{10, 20, 30, 40, 50, 60}), 7)
	assert.True(t, result.InsufficientData)
	assert.Empty(t, result.Predictions)
}

func TestForecastIncreasingTrend(t *testing.T) {
	history := buildHistory([]float64{100, 110, 120, 130, 140, 150, 160})
	result := Forecast(history, 7)

	require.False(t, result.InsufficientData)
	assert.Greater(t, result.Summary.Slope, 0.0)
	assert.Equal(t, TrendIncreasing, result.Summary.Trend)

	require.Len(t, result.Predictions, 7)
	// Day 8 continues the line past the last observed value.
	assert.Greater(t, result.Predictions[0].Cost, 160.0)
	assert.InDelta(t, 170.0, result.Predictions[0].Cost, 0.01)
	assert.Equal(t, history[6].Day.AddDate(0, 0, 1), result.Predictions[0].Day)
}

func TestForecastFlatSeriesIsStable(t *testing.T) {
	result := Forecast(buildHistory([]float64{25, 25, 25, 25, 25, 25, 25}), 3)

	require.False(t, result.InsufficientData)
	assert.Equal(t, TrendStable, result.Summary.Trend)
	for _, prediction := range result.Predictions {
		assert.InDelta(t, 25.0, prediction.Cost, 0.01)
	}
}

func TestForecastClampsNegativePredictions(t *testing.T) {
	result := Forecast(buildHistory([]float64{70, 60, 50, 40, 30, 20, 10}), 10)

	require.False(t, result.InsufficientData)
	assert.Equal(t, TrendDecreasing, result.Summary.Trend)
	last := result.Predictions[len(result.Predictions)-1]
	assert.GreaterOrEqual(t, last.Cost, 0.0)
	assert.Equal(t, 0.0, last.Cost)
	assert.GreaterOrEqual(t, last.LowerBound, 0.0)
}

func TestForecastConfidenceDecay(t *testing.T) {
	result := Forecast(buildHistory([]float64{10, 10, 10, 10, 10, 10, 10}), 60)

	require.Len(t, result.Predictions, 60)
	assert.Equal(t, 100.0, result.Predictions[0].Confidence)
	assert.Equal(t, 90.0, result.Predictions[10].Confidence)
	// Decay floors at 50 regardless of horizon length.
	assert.Equal(t, 50.0, result.Predictions[59].Confidence)

	// Bounds widen as confidence drops.
	near := result.Predictions[0]
	far := result.Predictions[59]
	assert.GreaterOrEqual(t, far.UpperBound-far.LowerBound, near.UpperBound-near.LowerBound)
}
