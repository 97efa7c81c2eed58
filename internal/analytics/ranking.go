package analytics

import "sort"

// Ranked is one row prepared for top-N/bottom-N selection
type Ranked struct {
	ID    int64
	Label string
	Value float64
}

// TopN returns the n largest rows by value, ties broken by ID ascending.
// N is clipped to the available row count, never an error.
func TopN(rows []Ranked, n int) []Ranked {
	sorted := sortRanked(rows, true)
	return clip(sorted, n)
}

// BottomN returns the n smallest rows by value, ties broken by ID ascending
func BottomN(rows []Ranked, n int) []Ranked {
	sorted := sortRanked(rows, false)
	return clip(sorted, n)
}

func sortRanked(rows []Ranked, desc bool) []Ranked {
	sorted := make([]Ranked, len(rows))
	copy(sorted, rows)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Value != sorted[j].Value {
			if desc {
				return sorted[i].Value > sorted[j].Value
			}
			return sorted[i].Value < sorted[j].Value
		}
		return sorted[i].ID < sorted[j].ID
	})

	return sorted
}

func clip(rows []Ranked, n int) []Ranked {
	if n < 0 {
		n = 0
	}
	if n > len(rows) {
		n = len(rows)
	}
	return rows[:n]
}
