package analytics

import "math"

// TrendDirection describes where a metric series is heading
type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

// Half-to-half change below this share of the baseline counts as flat
const trendFlatBandPct = 5.0

// Direction compares the average of the first half of the series with
// the second half. Series shorter than two points are flat.
func Direction(points []DailyPoint) TrendDirection {
	if len(points) < 2 {
		return TrendFlat
	}

	half := len(points) / 2
	first := meanOf(points[:half])
	second := meanOf(points[half:])

	if first == 0 {
		switch {
		case second > 0:
			return TrendUp
		case second < 0:
			return TrendDown
		default:
			return TrendFlat
		}
	}

	changePct := (second - first) / math.Abs(first) * 100
	switch {
	case changePct > trendFlatBandPct:
		return TrendUp
	case changePct < -trendFlatBandPct:
		return TrendDown
	default:
		return TrendFlat
	}
}

func meanOf(points []DailyPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.Value
	}
	return sum / float64(len(points))
}
