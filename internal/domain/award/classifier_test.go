package award

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	w := Winners{First: 5, Second: 7, Third: 9}

	tests := []struct {
		name    string
		winners Winners
		id      int64
		want    Placement
	}{
		{name: "first", winners: w, id: 5, want: PlacementFirst},
		{name: "second", winners: w, id: 7, want: PlacementSecond},
		{name: "third", winners: w, id: 9, want: PlacementThird},
		{name: "not on podium", winners: w, id: 11, want: PlacementParticipant},
		{name: "unknown entrant", winners: w, id: 0, want: PlacementParticipant},
		{name: "empty podium zero id", winners: Winners{}, id: 0, want: PlacementParticipant},
		{name: "first wins precedence", winners: Winners{First: 3, Second: 3}, id: 3, want: PlacementFirst},
		{name: "second wins over third", winners: Winners{Second: 4, Third: 4}, id: 4, want: PlacementSecond},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.winners, tc.id))
		})
	}
}

func TestClassify_FirstPlaceAmongThreeEnrollments(t *testing.T) {
	t.Parallel()

	w := Winners{First: 5}
	assert.Equal(t, PlacementFirst, Classify(w, 5))
	assert.Equal(t, PlacementParticipant, Classify(w, 6))
	assert.Equal(t, PlacementParticipant, Classify(w, 8))
}

func TestClassify_AtMostOneEntrantPerTier(t *testing.T) {
	t.Parallel()

	faker := gofakeit.New(42)
	for round := 0; round < 200; round++ {
		size := faker.IntRange(0, 20)
		roster := make([]int64, 0, size)
		seen := map[int64]struct{}{}
		for len(roster) < size {
			id := int64(faker.IntRange(1, 500))
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			roster = append(roster, id)
		}

		var w Winners
		pick := func() int64 {
			if len(roster) == 0 || faker.Bool() {
				return 0
			}
			return roster[faker.IntRange(0, len(roster)-1)]
		}
		w.First, w.Second, w.Third = pick(), pick(), pick()

		counts := map[Placement]int{}
		for _, id := range roster {
			p := Classify(w, id)
			require.Contains(t, []Placement{PlacementFirst, PlacementSecond, PlacementThird, PlacementParticipant}, p)
			counts[p]++
		}
		assert.LessOrEqual(t, counts[PlacementFirst], 1)
		assert.LessOrEqual(t, counts[PlacementSecond], 1)
		assert.LessOrEqual(t, counts[PlacementThird], 1)
	}
}

func TestWinners_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Winners{First: 1, Second: 2}.Validate())
	assert.ErrorIs(t, Winners{First: 1, Third: 1}.Validate(), ErrDuplicateWinner)
	assert.True(t, Winners{}.IsEmpty())
}
