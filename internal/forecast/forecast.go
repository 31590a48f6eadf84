package forecast

import (
	"math"
	"time"
)

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// minHistoryDays is the shortest daily-cost history a regression will
// accept. Below it the result flags insufficient data instead of erroring.
const minHistoryDays = 7

type Point struct {
	Day  time.Time
	Cost float64
}

// Prediction is one forecast day. Confidence is a whole percentage; the
// bounds widen around the estimate as confidence decays.
type Prediction struct {
	Day        time.Time
	Cost       float64
	LowerBound float64
	UpperBound float64
	Confidence float64
}

type Summary struct {
	Slope       float64
	Intercept   float64
	Trend       Trend
	TotalCost   float64
	AverageCost float64
}

type Result struct {
	InsufficientData bool
	Predictions      []Prediction
	Summary          Summary
}

// Forecast fits an ordinary least-squares line over the zero-based day index
// of the history and projects it horizonDays forward. Negative projections
// clamp to zero. Fewer than seven points yields an InsufficientData result.
func Forecast(history []Point, horizonDays int) Result {
	if len(history) < minHistoryDays {
		return Result{InsufficientData: true}
	}

	n := len(history)
	slope, intercept := fitLine(history)

	predictions := make([]Prediction, 0, horizonDays)
	total := 0.0
	for i := 0; i < horizonDays; i++ {
		predicted := intercept + slope*float64(n+i)
		if predicted < 0 {
			predicted = 0
		}

		confidence := 1.0 - 0.01*float64(i)
		if confidence < 0.5 {
			confidence = 0.5
		}
		spread := predicted * (1 - confidence)

		lower := predicted - spread
		if lower < 0 {
			lower = 0
		}

		predictions = append(predictions, Prediction{
			Day:        history[n-1].Day.AddDate(0, 0, i+1),
			Cost:       round2(predicted),
			LowerBound: round2(lower),
			UpperBound: round2(predicted + spread),
			Confidence: math.Round(confidence * 100),
		})
		total += predicted
	}

	avg := 0.0
	if horizonDays > 0 {
		avg = total / float64(horizonDays)
	}

	return Result{
		Predictions: predictions,
		Summary: Summary{
			Slope:       round2(slope),
			Intercept:   round2(intercept),
			Trend:       classifyTrend(slope),
			TotalCost:   round2(total),
			AverageCost: round2(avg),
		},
	}
}

func fitLine(history []Point) (slope, intercept float64) {
	n := float64(len(history))

	var sumX, sumY float64
	for i, point := range history {
		sumX += float64(i)
		sumY += point.Cost
	}
	meanX := sumX / n
	meanY := sumY / n

	var num, den float64
	for i, point := range history {
		dx := float64(i) - meanX
		num += dx * (point.Cost - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0, meanY
	}
	slope = num / den
	return slope, meanY - slope*meanX
}

func classifyTrend(slope float64) Trend {
	switch {
	case slope > 0:
		return TrendIncreasing
	case slope < 0:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
