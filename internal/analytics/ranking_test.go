package analytics

import (
	"math/rand"
	"testing"
)

func rankedFixture() []Ranked {
	return []Ranked{
		{ID: 3, Label: "C", Value: 50},
		{ID: 1, Label: "A", Value: 100},
		{ID: 4, Label: "D", Value: 75},
		{ID: 2, Label: "B", Value: 25},
	}
}

func TestTopN(t *testing.T) {
	top := TopN(rankedFixture(), 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(top))
	}
	if top[0].ID != 1 || top[1].ID != 4 {
		t.Errorf("expected IDs [1 4], got [%d %d]", top[0].ID, top[1].ID)
	}
}

func TestBottomN(t *testing.T) {
	bottom := BottomN(rankedFixture(), 2)
	if len(bottom) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(bottom))
	}
	if bottom[0].ID != 2 || bottom[1].ID != 3 {
		t.Errorf("expected IDs [2 3], got [%d %d]", bottom[0].ID, bottom[1].ID)
	}
}

func TestTopBottomAreInverseWithoutTies(t *testing.T) {
	rows := rankedFixture()
	n := len(rows)

	top := TopN(rows, n)
	bottom := BottomN(rows, n)

	for i := range top {
		if top[i].ID != bottom[n-1-i].ID {
			t.Errorf("position %d: top ID %d != reversed bottom ID %d", i, top[i].ID, bottom[n-1-i].ID)
		}
	}
}

func TestRankingTieBreakByID(t *testing.T) {
	rows := []Ranked{
		{ID: 9, Value: 10},
		{ID: 2, Value: 10},
		{ID: 5, Value: 10},
	}

	top := TopN(rows, 3)
	if top[0].ID != 2 || top[1].ID != 5 || top[2].ID != 9 {
		t.Errorf("ties must break by ID ascending, got [%d %d %d]", top[0].ID, top[1].ID, top[2].ID)
	}
}

func TestRankingStableUnderPermutation(t *testing.T) {
	base := rankedFixture()
	want := TopN(base, len(base))

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]Ranked, len(base))
		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := TopN(shuffled, len(shuffled))
		for i := range want {
			if got[i].ID != want[i].ID {
				t.Fatalf("trial %d: position %d differs after shuffle: got ID %d, want %d", trial, i, got[i].ID, want[i].ID)
			}
		}
	}
}

func TestTopNClipsToAvailableRows(t *testing.T) {
	rows := rankedFixture()

	top := TopN(rows, 100)
	if len(top) != len(rows) {
		t.Errorf("expected N clipped to %d, got %d", len(rows), len(top))
	}

	if got := TopN(rows, 0); len(got) != 0 {
		t.Errorf("expected empty result for N=0, got %d rows", len(got))
	}

	if got := TopN(nil, 5); len(got) != 0 {
		t.Errorf("expected empty result for empty input, got %d rows", len(got))
	}
}

func TestRankingDoesNotMutateInput(t *testing.T) {
	rows := rankedFixture()
	firstID := rows[0].ID

	TopN(rows, 2)

	if rows[0].ID != firstID {
		t.Error("TopN must not reorder the input slice")
	}
}
