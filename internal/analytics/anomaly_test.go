package analytics

import (
	"errors"
	"testing"
	"time"
)

func generateSeries(values []float64) []DailyPoint {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	points := make([]DailyPoint, len(values))
	for i, v := range values {
		points[i] = DailyPoint{Date: start.AddDate(0, 0, i), Value: v}
	}
	return points
}

func TestDetectAnomaliesInsufficientData(t *testing.T) {
	_, err := DetectAnomalies(generateSeries([]float64{100}), 7, 2)
	if !errors.Is(err, ErrInsufficientSeries) {
		t.Fatalf("expected ErrInsufficientSeries for 1-point series, got %v", err)
	}

	_, err = DetectAnomalies(nil, 7, 2)
	if !errors.Is(err, ErrInsufficientSeries) {
		t.Fatalf("expected ErrInsufficientSeries for empty series, got %v", err)
	}
}

func TestDetectAnomaliesFlatSeries(t *testing.T) {
	series := generateSeries([]float64{100, 100, 100, 100, 100, 100, 100, 100})

	anomalies, err := DetectAnomalies(series, 7, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(anomalies) != 0 {
		t.Errorf("flat series must produce no anomalies, got %d", len(anomalies))
	}
}

func TestDetectAnomaliesSpike(t *testing.T) {
	series := generateSeries([]float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 200})

	anomalies, err := DetectAnomalies(series, 7, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(anomalies) != 1 {
		t.Fatalf("expected exactly one anomaly, got %d", len(anomalies))
	}

	a := anomalies[0]
	if !a.Date.Equal(series[len(series)-1].Date) {
		t.Errorf("anomaly must land on the spike day, got %s", a.Date.Format("2006-01-02"))
	}
	if a.Value != 200 {
		t.Errorf("expected anomalous value 200, got %f", a.Value)
	}
	if a.ZScore <= 2 {
		t.Errorf("expected z-score above 2, got %f", a.ZScore)
	}
}

func TestDetectAnomaliesWindowClippedToSeries(t *testing.T) {
	// Window larger than the series must not panic or drop everything
	series := generateSeries([]float64{100, 110, 90, 105, 300})

	anomalies, err := DetectAnomalies(series, 30, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, a := range anomalies {
		if a.Value != 300 {
			t.Errorf("only the spike should be anomalous, got %f", a.Value)
		}
	}
}

func TestTrendDirection(t *testing.T) {
	up := generateSeries([]float64{100, 100, 100, 130, 130, 130})
	if d := Direction(up); d != TrendUp {
		t.Errorf("expected up trend, got %s", d)
	}

	down := generateSeries([]float64{130, 130, 130, 100, 100, 100})
	if d := Direction(down); d != TrendDown {
		t.Errorf("expected down trend, got %s", d)
	}

	flat := generateSeries([]float64{100, 101, 99, 100, 102, 98})
	if d := Direction(flat); d != TrendFlat {
		t.Errorf("expected flat trend, got %s", d)
	}

	if d := Direction(generateSeries([]float64{100})); d != TrendFlat {
		t.Errorf("single point must be flat, got %s", d)
	}
}
