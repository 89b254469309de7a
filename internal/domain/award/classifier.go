package award

import (
	"errors"
	"fmt"
)

var ErrDuplicateWinner = errors.New("same entrant awarded more than once")

// Winners holds the canonical entrant ids of a category podium: athlete ids
// for individual categories and team ids for team categories. Zero means the
// slot is empty.
type Winners struct {
	First  int64
	Second int64
	Third  int64
}

func (w Winners) IsEmpty() bool {
	return w.First <= 0 && w.Second <= 0 && w.Third <= 0
}

// Slot returns the entrant id held for a podium placement.
func (w Winners) Slot(p Placement) int64 {
	switch p {
	case PlacementFirst:
		return w.First
	case PlacementSecond:
		return w.Second
	case PlacementThird:
		return w.Third
	default:
		return 0
	}
}

// Validate reports entrants that occupy more than one podium slot.
func (w Winners) Validate() error {
	seen := make(map[int64]Placement, 3)
	for _, p := range []Placement{PlacementFirst, PlacementSecond, PlacementThird} {
		id := w.Slot(p)
		if id <= 0 {
			continue
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("%w: entrant %d holds %s and %s", ErrDuplicateWinner, id, prev, p)
		}
		seen[id] = p
	}
	return nil
}

// Classify maps an entrant to its placement. Slots are checked First, Second,
// Third; the first match wins. Unknown entrants (id <= 0) are Participants.
func Classify(w Winners, entrantID int64) Placement {
	if entrantID <= 0 {
		return PlacementParticipant
	}

	switch entrantID {
	case w.First:
		return PlacementFirst
	case w.Second:
		return PlacementSecond
	case w.Third:
		return PlacementThird
	default:
		return PlacementParticipant
	}
}
