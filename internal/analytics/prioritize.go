package analytics

import "sort"

// Action is one candidate recommendation with caller-supplied scores.
// Impact and feasibility are expected on a comparable scale, 0 to 1.
type Action struct {
	Description string
	Impact      float64
	Feasibility float64
}

// Score is impact weighted by how realistic the action is
func (a Action) Score() float64 {
	return a.Impact * a.Feasibility
}

// Prioritize orders candidate actions by score descending,
// ties broken by larger impact first
func Prioritize(actions []Action) []Action {
	sorted := make([]Action, len(actions))
	copy(sorted, actions)

	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := sorted[i].Score(), sorted[j].Score()
		if si != sj {
			return si > sj
		}
		return sorted[i].Impact > sorted[j].Impact
	})

	return sorted
}
