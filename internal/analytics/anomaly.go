package analytics

import (
	"errors"
	"math"
	"time"

	"github.com/cinar/indicator"
)

// ErrInsufficientSeries is returned when the series is too short to
// compute a standard deviation
var ErrInsufficientSeries = errors.New("insufficient data points for anomaly detection")

// DailyPoint is one day of a metric series
type DailyPoint struct {
	Date  time.Time
	Value float64
}

// Anomaly is a day whose value deviates abnormally from the rolling mean
type Anomaly struct {
	Date   time.Time
	Value  float64
	Mean   float64
	ZScore float64
}

// DetectAnomalies flags days whose z-score against a rolling window
// exceeds zLimit in magnitude. Points must be ordered by date ascending.
// Days where the rolling deviation is zero are never anomalous.
func DetectAnomalies(points []DailyPoint, window int, zLimit float64) ([]Anomaly, error) {
	if len(points) < 2 {
		return nil, ErrInsufficientSeries
	}
	if window < 2 {
		window = 2
	}
	if window > len(points) {
		window = len(points)
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}

	means := indicator.Sma(window, values)
	stds := indicator.Std(window, values)

	var anomalies []Anomaly
	for i := window - 1; i < len(points); i++ {
		// Constant windows give zero or NaN deviation, nothing to flag
		if stds[i] <= 0 || math.IsNaN(stds[i]) {
			continue
		}
		z := (values[i] - means[i]) / stds[i]
		if math.Abs(z) > zLimit {
			anomalies = append(anomalies, Anomaly{
				Date:   points[i].Date,
				Value:  values[i],
				Mean:   means[i],
				ZScore: z,
			})
		}
	}

	return anomalies, nil
}
