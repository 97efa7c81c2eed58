package analytics

// MetricDelta is one metric compared across two periods
type MetricDelta struct {
	Name         string
	Before       float64
	After        float64
	Delta        float64
	PercentDelta *float64 // nil when the baseline is zero
}

// Delta computes the change of a single metric between two periods.
// Delta is always after minus before; percent delta is omitted when
// the baseline is zero.
func Delta(name string, before, after float64) MetricDelta {
	return MetricDelta{
		Name:         name,
		Before:       before,
		After:        after,
		Delta:        after - before,
		PercentDelta: RatioPtr(PercentChange(before, after)),
	}
}

// Improved reports whether the delta moved in the desired direction.
// For cost metrics like DRR and CPC lower is better.
func (d MetricDelta) Improved(lowerIsBetter bool) bool {
	if lowerIsBetter {
		return d.Delta < 0
	}
	return d.Delta > 0
}
